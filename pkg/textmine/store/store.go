// Package store persists completed extraction runs so results can be
// compared across runs without re-reading the source file.
package store

import (
	"context"
	"time"
)

// Store is the interface for persisting and querying extraction runs.
type Store interface {
	Close() error

	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}

// Run captures one completed extraction: configuration, per-patient
// keyword flags and the term frequency table.
type Run struct {
	ID          string
	CreatedAt   time.Time
	Mode        string
	Keywords    []string
	SkippedRows int
	Patients    []PatientFlags
	Terms       []TermCount
}

// PatientFlags is one patient's stored flag vector, aligned with the
// run's keyword order.
type PatientFlags struct {
	PatientID string
	Flags     []bool
}

// TermCount is one stored frequency entry, in first-seen corpus order.
type TermCount struct {
	Term  string
	Count int
}

// RunSummary is the listing view of a run.
type RunSummary struct {
	ID          string
	CreatedAt   time.Time
	Mode        string
	Keywords    []string
	Patients    int
	SkippedRows int
}

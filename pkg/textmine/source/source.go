// Package source defines the input row model and providers that read rows
// from tabular files.
package source

import "context"

// Record is one input row. A patient may have multiple records, so
// PatientID is not unique across rows. An empty PatientID marks a
// malformed row; aggregation skips and counts it instead of failing.
type Record struct {
	PatientID string
	Text      string

	// Row is the 1-based data row index in the source, for error context.
	Row int
}

// Provider supplies the records for one run.
type Provider interface {
	Records(ctx context.Context) ([]Record, error)
}

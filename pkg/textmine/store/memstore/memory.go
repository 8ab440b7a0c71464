package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu   sync.RWMutex
	runs map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]store.Run)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun stores a run keyed by id.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun returns a run by id.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.runs[id]; ok {
		return copyRun(r), true, nil
	}
	return store.Run{}, false, nil
}

// ListRuns returns run summaries, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	var out []store.RunSummary
	for _, r := range s.runs {
		out = append(out, store.RunSummary{
			ID:          r.ID,
			CreatedAt:   r.CreatedAt,
			Mode:        r.Mode,
			Keywords:    append([]string(nil), r.Keywords...),
			Patients:    len(r.Patients),
			SkippedRows: r.SkippedRows,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyRun(r store.Run) store.Run {
	out := r
	out.Keywords = append([]string(nil), r.Keywords...)
	out.Patients = make([]store.PatientFlags, len(r.Patients))
	for i, p := range r.Patients {
		out.Patients[i] = store.PatientFlags{
			PatientID: p.PatientID,
			Flags:     append([]bool(nil), p.Flags...),
		}
	}
	out.Terms = append([]store.TermCount(nil), r.Terms...)
	return out
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/store"
)

// sqliteStore implements store.Store using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database at path with WAL mode enabled and creates
// the schema if needed.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	mode TEXT NOT NULL,
	keywords TEXT NOT NULL,
	skipped_rows INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_patients (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	patient_id TEXT NOT NULL,
	flags TEXT NOT NULL,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS run_terms (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	term TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_patients_patient ON run_patients(patient_id);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun stores a run and its rows in one transaction.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: empty id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	keywords, err := json.Marshal(r.Keywords)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, created_at, mode, keywords, skipped_rows) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt.UTC().Format(time.RFC3339Nano), r.Mode, string(keywords), r.SkippedRows,
	); err != nil {
		return err
	}

	// INSERT OR REPLACE on runs leaves stale child rows behind
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_patients WHERE run_id = ?`, r.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_terms WHERE run_id = ?`, r.ID); err != nil {
		return err
	}

	for i, p := range r.Patients {
		flags, err := json.Marshal(p.Flags)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_patients (run_id, position, patient_id, flags) VALUES (?, ?, ?, ?)`,
			r.ID, i, p.PatientID, string(flags),
		); err != nil {
			return err
		}
	}

	for i, tc := range r.Terms {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_terms (run_id, position, term, count) VALUES (?, ?, ?, ?)`,
			r.ID, i, tc.Term, tc.Count,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetRun loads a run by id.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	var r store.Run
	var createdAt, keywords string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, mode, keywords, skipped_rows FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &createdAt, &r.Mode, &keywords, &r.SkippedRows)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}

	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return store.Run{}, false, fmt.Errorf("parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(keywords), &r.Keywords); err != nil {
		return store.Run{}, false, fmt.Errorf("parse keywords: %w", err)
	}

	if r.Patients, err = s.runPatients(ctx, id); err != nil {
		return store.Run{}, false, err
	}
	if r.Terms, err = s.runTerms(ctx, id); err != nil {
		return store.Run{}, false, err
	}

	return r, true, nil
}

func (s *sqliteStore) runPatients(ctx context.Context, runID string) ([]store.PatientFlags, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT patient_id, flags FROM run_patients WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.PatientFlags
	for rows.Next() {
		var p store.PatientFlags
		var flags string
		if err := rows.Scan(&p.PatientID, &flags); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(flags), &p.Flags); err != nil {
			return nil, fmt.Errorf("parse flags for %s: %w", p.PatientID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *sqliteStore) runTerms(ctx context.Context, runID string) ([]store.TermCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT term, count FROM run_terms WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.TermCount
	for rows.Next() {
		var tc store.TermCount
		if err := rows.Scan(&tc.Term, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// ListRuns returns summaries, newest first.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.created_at, r.mode, r.keywords, r.skipped_rows,
	(SELECT COUNT(*) FROM run_patients p WHERE p.run_id = r.id)
FROM runs r
ORDER BY r.created_at DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.RunSummary
	for rows.Next() {
		var sum store.RunSummary
		var createdAt, keywords string
		if err := rows.Scan(&sum.ID, &createdAt, &sum.Mode, &keywords, &sum.SkippedRows, &sum.Patients); err != nil {
			return nil, err
		}
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		if err := json.Unmarshal([]byte(keywords), &sum.Keywords); err != nil {
			return nil, fmt.Errorf("parse keywords: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

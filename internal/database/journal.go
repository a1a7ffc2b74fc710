package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Resolution statuses recorded in the journal.
const (
	StatusResolved = "resolved"
	StatusNotFound = "not_found"
	StatusRejected = "rejected"
	StatusSkipped  = "skipped"
)

// Resolution is one journal row: the outcome of resolving a single file.
type Resolution struct {
	ID       string
	RunID    string
	Filename string
	Number   string
	Source   string
	Status   string
	Detail   string
}

// Journal records per-file resolution outcomes for a batch run.
type Journal struct {
	db *sql.DB
}

// NewJournal creates a journal backed by the given database.
func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// Record inserts one resolution outcome. The row ID is assigned here.
func (j *Journal) Record(ctx context.Context, r *Resolution) error {
	r.ID = uuid.New().String()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO resolutions (id, run_id, filename, number, source, status, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.RunID, r.Filename, r.Number, r.Source, r.Status, r.Detail)
	if err != nil {
		return fmt.Errorf("recording resolution: %w", err)
	}
	return nil
}

// ListRun returns all resolutions for a run in insertion order.
func (j *Journal) ListRun(ctx context.Context, runID string) ([]Resolution, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, run_id, filename, number, source, status, detail
		 FROM resolutions WHERE run_id = ? ORDER BY created_at, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing resolutions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []Resolution
	for rows.Next() {
		var r Resolution
		if err := rows.Scan(&r.ID, &r.RunID, &r.Filename, &r.Number, &r.Source, &r.Status, &r.Detail); err != nil {
			return nil, fmt.Errorf("scanning resolution: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

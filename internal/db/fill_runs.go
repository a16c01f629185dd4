package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/apply-agent/internal/types"
)

// FillRun is the persisted record of one fill pass against a form.
type FillRun struct {
	ID          uuid.UUID
	ProfileID   *uuid.UUID
	URL         string
	Status      string
	FilledCount int
	Report      *types.FillReport
	StartedAt   time.Time
	CompletedAt *time.Time
}

// CreateFillRun records the start of a fill pass and returns its ID.
func (db *DB) CreateFillRun(ctx context.Context, profileID *uuid.UUID, url string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO fill_runs (id, profile_id, url, status) VALUES ($1, $2, $3, 'running')`,
		id, profileID, url,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create fill run: %w", err)
	}
	return id, nil
}

// CompleteFillRun stores the final report for a fill pass.
func (db *DB) CompleteFillRun(ctx context.Context, runID uuid.UUID, report *types.FillReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal fill report: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE fill_runs SET status = $1, filled_count = $2, report = $3, completed_at = NOW() WHERE id = $4`,
		report.Status, report.FilledCount, data, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete fill run: %w", err)
	}
	return nil
}

// GetFillRun retrieves one fill run by ID. Returns nil when not found.
func (db *DB) GetFillRun(ctx context.Context, id uuid.UUID) (*FillRun, error) {
	var run FillRun
	var report []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, profile_id, url, status, filled_count, report, started_at, completed_at
		 FROM fill_runs WHERE id = $1`,
		id,
	).Scan(&run.ID, &run.ProfileID, &run.URL, &run.Status, &run.FilledCount, &report, &run.StartedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fill run: %w", err)
	}
	if len(report) > 0 {
		run.Report = &types.FillReport{}
		if err := json.Unmarshal(report, run.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fill report %s: %w", id, err)
		}
	}
	return &run, nil
}

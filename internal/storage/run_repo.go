package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_run_store.go -package=mocks docdigest/internal/storage RunStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStore records completed review runs.
type RunStore interface {
	// Create stores run, assigning a new ID when run.ID is empty.
	Create(ctx context.Context, run *RunRecord) error
	// ListRecent returns up to limit runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]RunRecord, error)
}

// RunRepo provides methods for review run history.
// It implements the RunStore interface.
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// Create stores run, assigning a new UUID when run.ID is empty.
func (r *RunRepo) Create(ctx context.Context, run *RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO review_runs (id, started_at, finished_at, documents, summaries, errors) VALUES (?, ?, ?, ?, ?, ?)",
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Documents,
		run.Summaries,
		run.Errors,
	)
	if err != nil {
		return fmt.Errorf("failed to insert review run: %w", err)
	}
	return nil
}

// ListRecent returns up to limit runs, newest first.
func (r *RunRepo) ListRecent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, started_at, finished_at, documents, summaries, errors FROM review_runs ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query review runs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	runs := []RunRecord{}
	for rows.Next() {
		var run RunRecord
		var startedAt, finishedAt string
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &run.Documents, &run.Summaries, &run.Errors); err != nil {
			return nil, fmt.Errorf("failed to scan review run: %w", err)
		}
		if run.StartedAt, err = parseTimestamp(startedAt); err != nil {
			return nil, fmt.Errorf("failed to parse started_at timestamp: %w", err)
		}
		if run.FinishedAt, err = parseTimestamp(finishedAt); err != nil {
			return nil, fmt.Errorf("failed to parse finished_at timestamp: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

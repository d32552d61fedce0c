// Package store persists crawl run history in a local SQLite database.
package store

import (
	"context"
	"time"

	"github.com/sells-group/jobscout/internal/model"
)

// RunStatus tracks a crawl run's lifecycle.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one crawl of one source.
type Run struct {
	ID         string            `json:"id"`
	Source     string            `json:"source"`
	Status     RunStatus         `json:"status"`
	Summary    *model.RunSummary `json:"summary,omitempty"`
	Error      string            `json:"error,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
}

// RunFilter narrows ListRuns.
type RunFilter struct {
	Source string
	Status RunStatus
	Limit  int
}

// Store is the run-history persistence interface.
type Store interface {
	Migrate(ctx context.Context) error
	CreateRun(ctx context.Context, source string) (*Run, error)
	CompleteRun(ctx context.Context, runID string, summary *model.RunSummary) error
	FailRun(ctx context.Context, runID string, runErr error) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)
	Close() error
}

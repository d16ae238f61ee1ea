package storage

import (
	"context"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
)

// ConfigStore provides access to named configuration storage. Saving the
// same name again creates a new timestamped revision; loads resolve to the
// most recent one.
type ConfigStore interface {
	// Save adds a configuration revision. Returns ErrDuplicateKey if
	// (name, saved_at) already exists.
	Save(ctx context.Context, c *domain.NamedConfig) error

	// GetLatestByName retrieves the most recently saved revision for a name.
	// Returns ErrNotFound if the name was never saved.
	GetLatestByName(ctx context.Context, name string) (*domain.NamedConfig, error)

	// List retrieves all saved revisions, ordered by name ASC, saved_at ASC.
	List(ctx context.Context) ([]*domain.NamedConfig, error)
}

// RunStore provides access to simulation run records.
type RunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.SimulationRun) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.SimulationRun, error)

	// List retrieves all runs, ordered by created_at ASC, run_id ASC.
	List(ctx context.Context) ([]*domain.SimulationRun, error)
}

// MonthlyPointStore provides access to per-month time series storage.
type MonthlyPointStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate
	// (run_id, month_index).
	InsertBulk(ctx context.Context, points []*domain.MonthlyPoint) error

	// GetByRunID retrieves all points for a run, ordered by month_index ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.MonthlyPoint, error)

	// GetByMonthRange retrieves points for a run within [start, end] (inclusive).
	GetByMonthRange(ctx context.Context, runID string, start, end int) ([]*domain.MonthlyPoint, error)
}

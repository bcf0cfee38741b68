package driven

import (
	"context"
	"time"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
)

// RunRecord is one persisted organise run.
type RunRecord struct {
	// ID is the run UUID, matching Summary.RunID.
	ID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Repositories is the number of repositories that contributed documents.
	Repositories int

	// Types is the number of distinct categories seen.
	Types int

	// Stats are the file-processing counters for the run.
	Stats domain.RunStats
}

// RunStore persists run history.
type RunStore interface {
	// Save records a completed run.
	Save(ctx context.Context, record RunRecord) error

	// List returns the most recent runs, newest first, up to limit.
	List(ctx context.Context, limit int) ([]RunRecord, error)
}

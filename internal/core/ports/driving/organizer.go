package driving

import (
	"context"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
)

// Organizer runs the classification and aggregation pipeline.
type Organizer interface {
	// Organize ingests the named repositories (all configured
	// repositories when names is empty), groups their documents by
	// category, writes the organised output and returns the run summary.
	//
	// Acquisition failures for individual repositories or files are
	// additive: they are counted and the remaining work proceeds. An
	// error is returned only when the run as a whole cannot produce
	// output.
	Organize(ctx context.Context, names []string) (*domain.Summary, error)
}

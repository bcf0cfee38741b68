package driven

import (
	"context"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
)

// OutputWriter persists the organised groupings and the summary.
// Each artifact is written independently; a failure for one file must
// not prevent the others from being attempted.
type OutputWriter interface {
	// WriteGroup writes one per-repository category file,
	// keyed as <root>/<repository>/<category>.json.
	WriteGroup(ctx context.Context, repository, category string, docs []*domain.SourceDocument) error

	// WriteCombined writes one cross-repository category file,
	// keyed as <root>/combined/<category>.json.
	WriteCombined(ctx context.Context, category string, docs []*domain.SourceDocument) error

	// WriteSummary writes the run report, keyed as <root>/summary.json.
	WriteSummary(ctx context.Context, summary *domain.Summary) error
}

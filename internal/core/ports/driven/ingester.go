package driven

import (
	"context"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
)

// Ingester fetches raw catalog files from one repository.
// Implementations exist per acquisition strategy (local directory,
// git clone, Gitea API, GitHub API); the core treats them uniformly.
type Ingester interface {
	// Repository returns the repository id this ingester serves.
	Repository() string

	// Kind returns the acquisition strategy identifier.
	Kind() domain.RepositoryKind

	// Validate checks the ingester's configuration and connectivity.
	Validate(ctx context.Context) error

	// Fetch streams the repository's candidate JSON files.
	// Both channels are closed when fetching finishes or the context is
	// cancelled. Only files below at least one subdirectory are emitted;
	// hidden path segments are skipped.
	Fetch(ctx context.Context) (<-chan domain.RawFile, <-chan error)

	// Close releases resources (temporary clones, HTTP connections).
	Close() error
}

// IngesterFactory creates ingesters from repository configuration.
type IngesterFactory interface {
	// Create builds the ingester for a repository.
	// Returns domain.ErrUnsupportedKind for unknown kinds.
	Create(ctx context.Context, repo domain.Repository) (Ingester, error)
}

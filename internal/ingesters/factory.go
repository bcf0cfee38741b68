// Package ingesters selects a concrete ingester for a configured
// repository.
package ingesters

import (
	"context"
	"fmt"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
	"github.com/mediadex-dev/mediadex-cli/internal/core/ports/driven"
	"github.com/mediadex-dev/mediadex-cli/internal/ingesters/gitclone"
	"github.com/mediadex-dev/mediadex-cli/internal/ingesters/gitea"
	"github.com/mediadex-dev/mediadex-cli/internal/ingesters/github"
	"github.com/mediadex-dev/mediadex-cli/internal/ingesters/local"
)

// Ensure Factory implements the interface.
var _ driven.IngesterFactory = (*Factory)(nil)

// Factory builds ingesters by repository kind.
type Factory struct{}

// NewFactory creates the default ingester factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns an ingester for the repository's kind.
func (f *Factory) Create(_ context.Context, repo domain.Repository) (driven.Ingester, error) {
	switch repo.Kind {
	case domain.RepoKindLocal:
		return local.New(repo.Name, repo.Path), nil
	case domain.RepoKindGit:
		return gitclone.New(repo.Name, repo.URL, repo.Ref), nil
	case domain.RepoKindGitea:
		return gitea.New(repo), nil
	case domain.RepoKindGitHub:
		return github.New(repo), nil
	default:
		return nil, fmt.Errorf("repository %q kind %q: %w",
			repo.Name, repo.Kind, domain.ErrUnsupportedKind)
	}
}

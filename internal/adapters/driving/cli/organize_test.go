package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediadex-dev/mediadex-cli/internal/adapters/driven/config/file"
	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
	"github.com/mediadex-dev/mediadex-cli/internal/core/ports/driving"
)

// fakeOrganizer implements driving.Organizer for testing.
type fakeOrganizer struct {
	names   []string
	summary *domain.Summary
	err     error
}

func (f *fakeOrganizer) Organize(_ context.Context, names []string) (*domain.Summary, error) {
	f.names = names
	return f.summary, f.err
}

func testSummary() *domain.Summary {
	return &domain.Summary{
		GeneratedAt:       "2026-08-27T10:00:00Z",
		RunID:             "run-1",
		TotalRepositories: 2,
		TotalTypes:        3,
		AllTypes:          []string{"anime", "manga", "other"},
		Statistics:        domain.RunStats{FilesFound: 5, FilesProcessed: 4, FilesFailed: 1},
		Repositories: map[string]domain.RepositorySummary{
			"ibro": {Types: []string{"anime", "manga"}, TotalSources: 3},
			"luna": {Types: []string{"other"}, TotalSources: 1},
		},
	}
}

func setupOrganizeTest(fake *fakeOrganizer) func() {
	cfg := file.Default()
	cfg.Repositories = []domain.Repository{
		{Name: "ibro", Kind: domain.RepoKindLocal, Path: "/srv/ibro"},
		{Name: "luna", Kind: domain.RepoKindGitea, BaseURL: "https://git.example", Owner: "l", Repo: "s"},
	}
	cleanupConfig := setupConfig(cfg)

	oldBuild := buildOrganizer
	buildOrganizer = func(_ string) (driving.Organizer, error) {
		return fake, nil
	}
	return func() {
		buildOrganizer = oldBuild
		cleanupConfig()
	}
}

func TestOrganizeCmd_Use(t *testing.T) {
	assert.Equal(t, "organize [repository...]", organizeCmd.Use)
}

func TestOrganizeCmd_Executes(t *testing.T) {
	fake := &fakeOrganizer{summary: testSummary()}
	cleanup := setupOrganizeTest(fake)
	defer cleanup()

	out, err := execute("organize")

	assert.NoError(t, err)
	assert.Empty(t, fake.names)
	assert.Contains(t, out, "Organised 2 repositories into 3 categories.")
	assert.Contains(t, out, "5 found, 4 processed, 1 failed")
	assert.Contains(t, out, "ibro: 3 sources (anime, manga)")
}

func TestOrganizeCmd_PassesRepositoryNames(t *testing.T) {
	fake := &fakeOrganizer{summary: testSummary()}
	cleanup := setupOrganizeTest(fake)
	defer cleanup()

	_, err := execute("organize", "ibro")

	assert.NoError(t, err)
	assert.Equal(t, []string{"ibro"}, fake.names)
}

func TestOrganizeCmd_OrganizeError(t *testing.T) {
	fake := &fakeOrganizer{err: errors.New("boom")}
	cleanup := setupOrganizeTest(fake)
	defer cleanup()

	_, err := execute("organize")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "organize failed")
}

func TestOrganizeCmd_NoRepositoriesConfigured(t *testing.T) {
	cleanup := setupConfig(file.Default())
	defer cleanup()

	_, err := execute("organize")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no repositories configured")
}

func TestSelectedRepos(t *testing.T) {
	cfg := file.Default()
	cfg.Repositories = []domain.Repository{
		{Name: "a", Kind: domain.RepoKindLocal},
		{Name: "b", Kind: domain.RepoKindLocal},
	}
	cleanup := setupConfig(cfg)
	defer cleanup()

	assert.Len(t, selectedRepos(nil), 2)

	got := selectedRepos([]string{"b"})
	assert.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Name)

	assert.Empty(t, selectedRepos([]string{"missing"}))
}

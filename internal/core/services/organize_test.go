package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
	"github.com/mediadex-dev/mediadex-cli/internal/core/ports/driven"
)

// fakeIngester replays a fixed set of raw files.
type fakeIngester struct {
	repo        string
	files       []domain.RawFile
	validateErr error
	fetchErr    error
	closed      bool
}

func (f *fakeIngester) Repository() string { return f.repo }

func (f *fakeIngester) Kind() domain.RepositoryKind { return domain.RepoKindLocal }

func (f *fakeIngester) Validate(context.Context) error { return f.validateErr }

func (f *fakeIngester) Close() error { f.closed = true; return nil }

func (f *fakeIngester) Fetch(ctx context.Context) (<-chan domain.RawFile, <-chan error) {
	filesCh := make(chan domain.RawFile)
	errsCh := make(chan error, 1)
	go func() {
		defer close(filesCh)
		defer close(errsCh)
		if f.fetchErr != nil {
			errsCh <- f.fetchErr
			return
		}
		for _, file := range f.files {
			select {
			case <-ctx.Done():
				return
			case filesCh <- file:
			}
		}
	}()
	return filesCh, errsCh
}

// fakeFactory hands out pre-built ingesters by repository name.
type fakeFactory struct {
	ingesters map[string]*fakeIngester
}

func (f *fakeFactory) Create(_ context.Context, repo domain.Repository) (driven.Ingester, error) {
	ing, ok := f.ingesters[repo.Name]
	if !ok {
		return nil, domain.ErrUnsupportedKind
	}
	return ing, nil
}

// fakeWriter records everything it is asked to persist.
type fakeWriter struct {
	mu       sync.Mutex
	groups   map[string][]*domain.SourceDocument // "repo/category"
	combined map[string][]*domain.SourceDocument
	summary  *domain.Summary
	groupErr error
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		groups:   make(map[string][]*domain.SourceDocument),
		combined: make(map[string][]*domain.SourceDocument),
	}
}

func (w *fakeWriter) WriteGroup(_ context.Context, repository, category string, docs []*domain.SourceDocument) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.groupErr != nil {
		return w.groupErr
	}
	w.groups[repository+"/"+category] = docs
	return nil
}

func (w *fakeWriter) WriteCombined(_ context.Context, category string, docs []*domain.SourceDocument) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.combined[category] = docs
	return nil
}

func (w *fakeWriter) WriteSummary(_ context.Context, summary *domain.Summary) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.summary = summary
	return nil
}

// fakeRunStore records saved runs in memory.
type fakeRunStore struct {
	records []driven.RunRecord
}

func (s *fakeRunStore) Save(_ context.Context, record driven.RunRecord) error {
	s.records = append(s.records, record)
	return nil
}

func (s *fakeRunStore) List(_ context.Context, limit int) ([]driven.RunRecord, error) {
	if limit > len(s.records) {
		limit = len(s.records)
	}
	return s.records[:limit], nil
}

func rawFile(repo, path, content string) domain.RawFile {
	return domain.RawFile{Repository: repo, Path: path, Content: []byte(content)}
}

func TestOrganizer_Organize(t *testing.T) {
	repos := []domain.Repository{
		{Name: "r1", Kind: domain.RepoKindLocal},
		{Name: "r2", Kind: domain.RepoKindLocal},
	}

	newFactory := func() *fakeFactory {
		return &fakeFactory{ingesters: map[string]*fakeIngester{
			"r1": {repo: "r1", files: []domain.RawFile{
				rawFile("r1", "sub/zed.json", `{"type":"TV Anime","sourceName":"Zed"}`),
				rawFile("r1", "sub/alpha.json", `{"type":"Anime Movie","sourceName":"Alpha"}`),
				rawFile("r1", "sub/broken.json", `{not json`),
			}},
			"r2": {repo: "r2", files: []domain.RawFile{
				rawFile("r2", "sub/manga.json", `{"type":"manga","sourceName":"Komick"}`),
			}},
		}}
	}

	t.Run("full run aggregates, summarises and writes", func(t *testing.T) {
		writer := newFakeWriter()
		store := &fakeRunStore{}
		organizer := NewOrganizer(repos, newFactory(), writer, store)

		summary, err := organizer.Organize(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, 4, summary.Statistics.FilesFound)
		assert.Equal(t, 3, summary.Statistics.FilesProcessed)
		assert.Equal(t, 1, summary.Statistics.FilesFailed)
		assert.Equal(t, summary.Statistics.FilesFound,
			summary.Statistics.FilesProcessed+summary.Statistics.FilesFailed)

		// Organised output, sorted within the category.
		animeDocs := writer.groups["r1/anime"]
		require.Len(t, animeDocs, 2)
		assert.Equal(t, "Alpha", animeDocs[0].DisplayName())
		assert.Equal(t, "Zed", animeDocs[1].DisplayName())

		assert.Len(t, writer.combined["anime"], 2)
		assert.Len(t, writer.combined["manga"], 1)
		require.NotNil(t, writer.summary)
		assert.Equal(t, summary.RunID, writer.summary.RunID)

		// Run history recorded.
		require.Len(t, store.records, 1)
		assert.Equal(t, summary.RunID, store.records[0].ID)
		assert.Equal(t, 2, store.records[0].Repositories)
	})

	t.Run("selects a subset of repositories", func(t *testing.T) {
		writer := newFakeWriter()
		organizer := NewOrganizer(repos, newFactory(), writer, nil)

		summary, err := organizer.Organize(context.Background(), []string{"r2"})
		require.NoError(t, err)

		assert.Equal(t, 1, summary.TotalRepositories)
		assert.Contains(t, writer.groups, "r2/manga")
		assert.NotContains(t, writer.groups, "r1/anime")
	})

	t.Run("unknown repository name fails", func(t *testing.T) {
		organizer := NewOrganizer(repos, newFactory(), newFakeWriter(), nil)

		_, err := organizer.Organize(context.Background(), []string{"nope"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("failed repository is skipped, the rest proceed", func(t *testing.T) {
		factory := newFactory()
		factory.ingesters["r1"].validateErr = assert.AnError
		writer := newFakeWriter()
		organizer := NewOrganizer(repos, factory, writer, nil)

		summary, err := organizer.Organize(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.TotalRepositories)
		assert.Contains(t, writer.groups, "r2/manga")
	})

	t.Run("unreadable file counts as failed", func(t *testing.T) {
		factory := &fakeFactory{ingesters: map[string]*fakeIngester{
			"r1": {repo: "r1", files: []domain.RawFile{
				{Repository: "r1", Path: "sub/gone.json", Content: nil},
				rawFile("r1", "sub/ok.json", `{"type":"anime","sourceName":"A"}`),
			}},
		}}
		organizer := NewOrganizer(repos[:1], factory, newFakeWriter(), nil)

		summary, err := organizer.Organize(context.Background(), nil)
		require.NoError(t, err)

		assert.Equal(t, 2, summary.Statistics.FilesFound)
		assert.Equal(t, 1, summary.Statistics.FilesProcessed)
		assert.Equal(t, 1, summary.Statistics.FilesFailed)
	})

	t.Run("write failures are joined, other artifacts still written", func(t *testing.T) {
		writer := newFakeWriter()
		writer.groupErr = assert.AnError
		organizer := NewOrganizer(repos, newFactory(), writer, nil)

		summary, err := organizer.Organize(context.Background(), nil)
		assert.Error(t, err)
		require.NotNil(t, summary)

		// Combined files and the summary were still attempted.
		assert.NotEmpty(t, writer.combined)
		assert.NotNil(t, writer.summary)
	})

	t.Run("cancelled context yields a partial summary", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		organizer := NewOrganizer(repos, newFactory(), newFakeWriter(), nil)

		summary, err := organizer.Organize(ctx, nil)
		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, summary)
	})

	t.Run("closes ingesters", func(t *testing.T) {
		factory := newFactory()
		organizer := NewOrganizer(repos, factory, newFakeWriter(), nil)

		_, err := organizer.Organize(context.Background(), nil)
		require.NoError(t, err)

		assert.True(t, factory.ingesters["r1"].closed)
		assert.True(t, factory.ingesters["r2"].closed)
	})
}

package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
)

// IngestResult reports where one document landed, for logging.
type IngestResult struct {
	Repository string
	Category   string
	SourceName string
}

// Aggregator builds the per-repository and cross-repository groupings.
// It exclusively owns both structures for the duration of a run.
// Ingest is safe for concurrent use; ordering within a category is
// irrelevant before Finalize, which sorts deterministically.
type Aggregator struct {
	mu        sync.Mutex
	grouping  domain.Grouping
	combined  domain.CombinedGrouping
	finalized bool
}

// NewAggregator creates an empty aggregator for one run.
func NewAggregator() *Aggregator {
	return &Aggregator{
		grouping: make(domain.Grouping),
	}
}

// Ingest classifies a document and appends it to the grouping,
// attaching the provenance metadata exactly once. A nil document is an
// invalid call; parse failures are counted by the caller and never
// reach the aggregator.
func (a *Aggregator) Ingest(repository, relativePath string, doc *domain.SourceDocument) (IngestResult, error) {
	if doc == nil {
		return IngestResult{}, fmt.Errorf("ingest %s/%s: %w", repository, relativePath, domain.ErrInvalidInput)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.finalized {
		return IngestResult{}, fmt.Errorf("ingest after finalize: %w", domain.ErrInvalidInput)
	}

	raw, present := doc.RawType()
	originalType := raw
	if !present {
		// Matches the original output: a document with no type field
		// records "other" as its original type.
		originalType = domain.CategoryOther
	}
	category := domain.NormalizeType(raw)

	if doc.Meta == nil {
		doc.Meta = &domain.Metadata{
			OriginalFile: relativePath,
			Repository:   repository,
			OriginalType: originalType,
		}
	}

	byCategory, ok := a.grouping[repository]
	if !ok {
		byCategory = make(map[string][]*domain.SourceDocument)
		a.grouping[repository] = byCategory
	}
	byCategory[category] = append(byCategory[category], doc)

	return IngestResult{
		Repository: repository,
		Category:   category,
		SourceName: doc.DisplayName(),
	}, nil
}

// Finalize sorts every grouping list by case-insensitive sourceName,
// then builds the combined grouping from per-repository copies carrying
// a top-level repository field, ordered by repository then sourceName.
// Finalizing an empty aggregator yields empty-but-valid groupings.
// Subsequent calls return the already-finalized structures.
func (a *Aggregator) Finalize() (domain.Grouping, domain.CombinedGrouping) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.finalized {
		return a.grouping, a.combined
	}

	for _, byCategory := range a.grouping {
		for _, docs := range byCategory {
			sort.SliceStable(docs, func(i, j int) bool {
				return docs[i].SortName() < docs[j].SortName()
			})
		}
	}

	a.combined = make(domain.CombinedGrouping)
	for repository, byCategory := range a.grouping {
		for category, docs := range byCategory {
			for _, doc := range docs {
				combined := doc.Clone()
				combined.Repository = repository
				a.combined[category] = append(a.combined[category], combined)
			}
		}
	}
	for _, docs := range a.combined {
		sort.SliceStable(docs, func(i, j int) bool {
			if docs[i].Repository != docs[j].Repository {
				return docs[i].Repository < docs[j].Repository
			}
			return docs[i].SortName() < docs[j].SortName()
		})
	}

	a.finalized = true
	return a.grouping, a.combined
}

package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
)

// BuildSummary derives the run report from the finalized groupings.
// It is a read-only traversal: the groupings are not modified and the
// returned summary is never mutated afterwards.
func BuildSummary(grouping domain.Grouping, combined domain.CombinedGrouping, stats domain.RunStats) *domain.Summary {
	summary := &domain.Summary{
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
		RunID:             uuid.NewString(),
		TotalRepositories: len(grouping),
		AllTypes:          sortedKeys(grouping.Categories()),
		Statistics:        stats,
		Repositories:      make(map[string]domain.RepositorySummary, len(grouping)),
		CombinedSummary:   make(map[string]domain.CategorySummary, len(combined)),
	}
	summary.TotalTypes = len(summary.AllTypes)

	for repository, byCategory := range grouping {
		repoSummary := domain.RepositorySummary{
			SourcesByType: make(map[string]domain.TypeBreakdown, len(byCategory)),
		}
		for category, docs := range byCategory {
			repoSummary.Types = append(repoSummary.Types, category)
			repoSummary.TotalSources += len(docs)

			names := make([]string, 0, len(docs))
			for _, doc := range docs {
				names = append(names, doc.DisplayName())
			}
			repoSummary.SourcesByType[category] = domain.TypeBreakdown{
				Count:   len(docs),
				Sources: names,
			}
		}
		sort.Strings(repoSummary.Types)
		summary.Repositories[repository] = repoSummary
	}

	for category, docs := range combined {
		repositories := make(map[string]struct{})
		for _, doc := range docs {
			repositories[doc.Repository] = struct{}{}
		}
		summary.CombinedSummary[category] = domain.CategorySummary{
			TotalSources:    len(docs),
			Repositories:    sortedKeys(repositories),
			RepositoryCount: len(repositories),
		}
	}

	return summary
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

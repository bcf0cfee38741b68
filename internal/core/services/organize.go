package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
	"github.com/mediadex-dev/mediadex-cli/internal/core/ports/driven"
	"github.com/mediadex-dev/mediadex-cli/internal/core/ports/driving"
	"github.com/mediadex-dev/mediadex-cli/internal/logger"
)

// Ensure Organizer implements the interface.
var _ driving.Organizer = (*Organizer)(nil)

// Organizer coordinates one organise run: acquire raw files per
// repository, parse and aggregate them, build the summary and hand
// everything to the output writer.
type Organizer struct {
	repositories []domain.Repository
	factory      driven.IngesterFactory
	writer       driven.OutputWriter
	runStore     driven.RunStore
}

// NewOrganizer creates an organizer over the configured repositories.
// runStore is optional - if nil, run history is not recorded.
func NewOrganizer(
	repositories []domain.Repository,
	factory driven.IngesterFactory,
	writer driven.OutputWriter,
	runStore driven.RunStore,
) *Organizer {
	return &Organizer{
		repositories: repositories,
		factory:      factory,
		writer:       writer,
		runStore:     runStore,
	}
}

// Organize runs the full pipeline. Failed repositories and failed files
// are counted and skipped; the remaining documents are still organised
// and written.
func (o *Organizer) Organize(ctx context.Context, names []string) (*domain.Summary, error) {
	selected, err := o.selectRepositories(names)
	if err != nil {
		return nil, err
	}

	startedAt := time.Now()
	aggregator := NewAggregator()
	var stats domain.RunStats

	for _, repo := range selected {
		logger.Section("Repository: " + repo.Name)
		if err := o.ingestRepository(ctx, repo, aggregator, &stats); err != nil {
			if ctx.Err() != nil {
				// Interrupted mid-stream: finalize what was ingested so
				// the caller still gets a correct, if incomplete, summary.
				grouping, combined := aggregator.Finalize()
				return BuildSummary(grouping, combined, stats), ctx.Err()
			}
			logger.Warn("Skipping repository %s: %v", repo.Name, err)
		}
	}

	grouping, combined := aggregator.Finalize()
	summary := BuildSummary(grouping, combined, stats)

	logger.Info("Run complete: %d repositories, %d types, %d/%d files processed",
		summary.TotalRepositories, summary.TotalTypes,
		stats.FilesProcessed, stats.FilesFound)

	writeErrs := o.writeOutput(ctx, grouping, combined, summary)

	if o.runStore != nil {
		record := driven.RunRecord{
			ID:           summary.RunID,
			StartedAt:    startedAt,
			Repositories: summary.TotalRepositories,
			Types:        summary.TotalTypes,
			Stats:        stats,
		}
		if err := o.runStore.Save(ctx, record); err != nil {
			writeErrs = append(writeErrs, fmt.Errorf("save run record: %w", err))
		}
	}

	return summary, errors.Join(writeErrs...)
}

// selectRepositories resolves the requested repository names, or
// returns all configured repositories when names is empty.
func (o *Organizer) selectRepositories(names []string) ([]domain.Repository, error) {
	if len(names) == 0 {
		if len(o.repositories) == 0 {
			return nil, fmt.Errorf("no repositories configured: %w", domain.ErrNotFound)
		}
		return o.repositories, nil
	}

	byName := make(map[string]domain.Repository, len(o.repositories))
	for _, repo := range o.repositories {
		byName[repo.Name] = repo
	}

	selected := make([]domain.Repository, 0, len(names))
	for _, name := range names {
		repo, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("repository %q: %w", name, domain.ErrNotFound)
		}
		selected = append(selected, repo)
	}
	return selected, nil
}

// ingestRepository streams one repository's files into the aggregator.
// A RawFile with nil content marks a file the ingester found but could
// not read; it is counted as failed. Parse failures are likewise
// counted and skipped without reaching the aggregator.
func (o *Organizer) ingestRepository(
	ctx context.Context,
	repo domain.Repository,
	aggregator *Aggregator,
	stats *domain.RunStats,
) error {
	ingester, err := o.factory.Create(ctx, repo)
	if err != nil {
		return fmt.Errorf("create ingester: %w", err)
	}
	defer ingester.Close()

	if err := ingester.Validate(ctx); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	filesCh, errsCh := ingester.Fetch(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			if err != nil {
				return fmt.Errorf("ingester error: %w", err)
			}

		case file, ok := <-filesCh:
			if !ok {
				return nil
			}
			stats.FilesFound++

			if file.Content == nil {
				stats.FilesFailed++
				logger.Warn("Failed to read %s/%s", repo.Name, file.Path)
				continue
			}

			var doc domain.SourceDocument
			if err := json.Unmarshal(file.Content, &doc); err != nil {
				stats.FilesFailed++
				logger.Warn("Failed to parse %s/%s: %v", repo.Name, file.Path, err)
				continue
			}

			result, err := aggregator.Ingest(repo.Name, file.Path, &doc)
			if err != nil {
				stats.FilesFailed++
				logger.Warn("Failed to ingest %s/%s: %v", repo.Name, file.Path, err)
				continue
			}
			stats.FilesProcessed++
			logger.Debug("Added %q to %s/%s", result.SourceName, result.Repository, result.Category)
		}
	}
}

// writeOutput persists every grouping file and the summary. Artifacts
// are independent: one failed write is recorded and the rest proceed.
func (o *Organizer) writeOutput(
	ctx context.Context,
	grouping domain.Grouping,
	combined domain.CombinedGrouping,
	summary *domain.Summary,
) []error {
	var errs []error

	for _, repository := range sortedGroupingKeys(grouping) {
		byCategory := grouping[repository]
		for _, category := range sortedCategoryKeys(byCategory) {
			if err := o.writer.WriteGroup(ctx, repository, category, byCategory[category]); err != nil {
				errs = append(errs, fmt.Errorf("write %s/%s: %w", repository, category, err))
			}
		}
	}

	for _, category := range sortedCategoryKeys(combined) {
		if err := o.writer.WriteCombined(ctx, category, combined[category]); err != nil {
			errs = append(errs, fmt.Errorf("write combined/%s: %w", category, err))
		}
	}

	if err := o.writer.WriteSummary(ctx, summary); err != nil {
		errs = append(errs, fmt.Errorf("write summary: %w", err))
	}

	return errs
}

func sortedGroupingKeys(g domain.Grouping) []string {
	keys := make([]string, 0, len(g))
	for key := range g {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedCategoryKeys(m map[string][]*domain.SourceDocument) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

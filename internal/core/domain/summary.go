package domain

// RunStats counts file processing outcomes for one run. Found counts
// discoverable files; in a run that is not interrupted,
// processed + failed == found.
type RunStats struct {
	FilesFound     int `json:"files_found"`
	FilesProcessed int `json:"files_processed"`
	FilesFailed    int `json:"files_failed"`
}

// TypeBreakdown lists the documents of one category within a repository.
type TypeBreakdown struct {
	Count   int      `json:"count"`
	Sources []string `json:"sources"`
}

// RepositorySummary is the per-repository section of the summary.
type RepositorySummary struct {
	Types         []string                 `json:"types"`
	TotalSources  int                      `json:"total_sources"`
	SourcesByType map[string]TypeBreakdown `json:"sources_by_type"`
}

// CategorySummary is the cross-repository section for one category.
type CategorySummary struct {
	TotalSources    int      `json:"total_sources"`
	Repositories    []string `json:"repositories"`
	RepositoryCount int      `json:"repository_count"`
}

// Summary is the derived report for one run. It is computed once from
// the finalised groupings and never mutated afterwards.
type Summary struct {
	GeneratedAt       string                       `json:"generated_at"`
	RunID             string                       `json:"run_id"`
	TotalRepositories int                          `json:"total_repositories"`
	TotalTypes        int                          `json:"total_types"`
	AllTypes          []string                     `json:"all_types"`
	Statistics        RunStats                     `json:"statistics"`
	Repositories      map[string]RepositorySummary `json:"repositories"`
	CombinedSummary   map[string]CategorySummary   `json:"combined_summary"`
}

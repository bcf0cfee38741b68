package domain

import "strings"

// Canonical category keys produced by NormalizeType.
// Raw type labels that match none of the classification rules pass
// through as sanitised arbitrary keys instead of being dropped.
const (
	CategoryAnime       = "anime"
	CategoryManga       = "manga"
	CategoryNovels      = "novels"
	CategoryMoviesShows = "movies_shows"
	CategoryOther       = "other"
)

// ClassificationRule maps keyword substrings to a category key.
type ClassificationRule struct {
	// Keywords are substrings tested against the lower-cased raw type.
	// Any match selects the rule.
	Keywords []string

	// Category is the key assigned when the rule matches.
	Category string
}

// ClassificationRules is the ordered rule table for NormalizeType.
// Rules are evaluated top to bottom and the first match wins, so a
// label like "Anime Movie" is classified as anime, not movies_shows.
// A document gets exactly one category per run.
var ClassificationRules = []ClassificationRule{
	{Keywords: []string{"anime"}, Category: CategoryAnime},
	{Keywords: []string{"manga"}, Category: CategoryManga},
	{Keywords: []string{"novel"}, Category: CategoryNovels},
	{Keywords: []string{"movie", "show"}, Category: CategoryMoviesShows},
}

// NormalizeType maps a raw, free-form type label to a category key.
// Absent or empty labels map to CategoryOther. Labels matching no rule
// are sanitised (separators collapsed to underscores) and returned
// verbatim. Pure function: same input always yields the same key.
func NormalizeType(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return CategoryOther
	}

	for _, rule := range ClassificationRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(cleaned, keyword) {
				return rule.Category
			}
		}
	}

	return sanitizeCategory(cleaned)
}

var categoryReplacer = strings.NewReplacer("/", "_", " ", "_", "-", "_")

// sanitizeCategory turns an arbitrary lower-cased label into a key that
// is safe to use as a file name: path separators, spaces and hyphens
// become underscores, and runs of underscores collapse to one.
func sanitizeCategory(s string) string {
	s = categoryReplacer.Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

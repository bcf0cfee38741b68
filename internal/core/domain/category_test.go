package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		// Keyword rules
		{"plain anime", "anime", CategoryAnime},
		{"anime with surrounding text", "TV Anime Series", CategoryAnime},
		{"anime upper case", "ANIME", CategoryAnime},
		{"manga", "Manga", CategoryManga},
		{"webmanga", "WebManga", CategoryManga},
		{"novel", "Light Novel", CategoryNovels},
		{"movie", "Movie", CategoryMoviesShows},
		{"show", "TV Show", CategoryMoviesShows},

		// Empty and whitespace
		{"empty string", "", CategoryOther},
		{"whitespace only", "   ", CategoryOther},

		// Pass-through sanitisation
		{"unknown label", "documentary", "documentary"},
		{"separators become underscores", "fan fiction/archive", "fan_fiction_archive"},
		{"hyphens become underscores", "audio-drama", "audio_drama"},
		{"consecutive separators collapse", "a - b", "a_b"},
		{"trimmed before matching", "  Anime  ", CategoryAnime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeType(tt.raw))
		})
	}
}

func TestNormalizeType_PriorityOrder(t *testing.T) {
	t.Run("anime beats movie", func(t *testing.T) {
		assert.Equal(t, CategoryAnime, NormalizeType("Anime Movie"))
	})

	t.Run("anime beats show", func(t *testing.T) {
		assert.Equal(t, CategoryAnime, NormalizeType("anime show"))
	})

	t.Run("anime beats manga", func(t *testing.T) {
		// "anime" is checked before "manga" in the rule table.
		assert.Equal(t, CategoryAnime, NormalizeType("manga anime crossover"))
	})

	t.Run("manga beats novel", func(t *testing.T) {
		assert.Equal(t, CategoryManga, NormalizeType("manga novel"))
	})
}

func TestNormalizeType_Idempotent(t *testing.T) {
	// Canonical keys with no separator characters are stable under
	// repeated normalisation.
	keys := []string{
		CategoryAnime,
		CategoryManga,
		CategoryNovels,
		CategoryOther,
		"documentary",
	}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			assert.Equal(t, NormalizeType(key), NormalizeType(NormalizeType(key)))
		})
	}
}

func TestClassificationRules_Order(t *testing.T) {
	// The rule table defines classification priority; the first entries
	// must stay anime > manga > novels > movies_shows.
	assert.Equal(t, CategoryAnime, ClassificationRules[0].Category)
	assert.Equal(t, CategoryManga, ClassificationRules[1].Category)
	assert.Equal(t, CategoryNovels, ClassificationRules[2].Category)
	assert.Equal(t, CategoryMoviesShows, ClassificationRules[3].Category)
}

package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Logging", "Loging", 1},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, LevenshteinDistance(tt.a, tt.b))
		})
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"Logging", "Auditing", "Caching", "Login"}

	t.Run("nearest first", func(t *testing.T) {
		assert.Equal(t, []string{"Logging", "Login"}, FindSimilar("Loging", candidates, nil))
	})

	t.Run("case insensitive by default", func(t *testing.T) {
		assert.Equal(t, []string{"Auditing"}, FindSimilar("auditng", candidates, nil))
	})

	t.Run("exact matches are not suggestions", func(t *testing.T) {
		assert.NotContains(t, FindSimilar("Caching", candidates, nil), "Caching")
	})

	t.Run("respects limits", func(t *testing.T) {
		got := FindSimilar("Loging", candidates, &FuzzyMatchOptions{MaxSuggestions: 1})
		assert.Equal(t, []string{"Logging"}, got)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, FindSimilar("Serialization", candidates, nil))
	})
}

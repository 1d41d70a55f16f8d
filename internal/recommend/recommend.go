// Package recommend samples catalog recipes for an at-risk item.
package recommend

import (
	"math/rand/v2"

	"github.com/hpungsan/ecokitchen/internal/catalog"
	"github.com/hpungsan/ecokitchen/internal/recipe"
)

// DefaultLimit is used when a caller passes limit <= 0.
const DefaultLimit = 10

// FallbackMessage is shown when no recipe matches.
const FallbackMessage = "Searching for local alternatives..."

// Recommend returns a uniform random sample, without replacement, of
// min(limit, matches) recipes whose category equals category after
// normalization. The result is never nil and carries no ordering guarantee.
func Recommend(c *catalog.Catalog, category string, limit int) []recipe.Recipe {
	if limit <= 0 {
		limit = DefaultLimit
	}

	matches := c.ByCategory(category)
	if len(matches) == 0 {
		return matches
	}

	rand.Shuffle(len(matches), func(i, j int) {
		matches[i], matches[j] = matches[j], matches[i]
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

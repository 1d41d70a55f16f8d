// Package catalog loads the static recipe dataset once per process and
// serves read-only views of it.
package catalog

import (
	"sort"

	"github.com/hpungsan/ecokitchen/internal/recipe"
)

// Catalog is the immutable in-memory recipe table. Safe for concurrent use.
type Catalog struct {
	source     string
	recipes    []recipe.Recipe
	byCategory map[string][]recipe.Recipe
}

// CategoryCount is one row of Catalog.Categories.
type CategoryCount struct {
	Category string `json:"category"`
	Recipes  int    `json:"recipes"`
}

// New builds a Catalog from rows, normalizing every category. rows is copied.
func New(source string, rows []recipe.Recipe) *Catalog {
	c := &Catalog{
		source:     source,
		recipes:    make([]recipe.Recipe, len(rows)),
		byCategory: make(map[string][]recipe.Recipe),
	}
	for i, r := range rows {
		r.Category = recipe.NormalizeCategory(r.Category)
		c.recipes[i] = r
		c.byCategory[r.Category] = append(c.byCategory[r.Category], r)
	}
	return c
}

// Source returns the name of the source the catalog was read from.
func (c *Catalog) Source() string {
	return c.source
}

// Len returns the number of recipes.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.recipes)
}

// All returns a copy of every recipe in source order.
func (c *Catalog) All() []recipe.Recipe {
	if c == nil {
		return []recipe.Recipe{}
	}
	return append([]recipe.Recipe{}, c.recipes...)
}

// ByCategory returns a copy of the recipes whose normalized category equals
// the normalized argument exactly. Never nil.
func (c *Catalog) ByCategory(category string) []recipe.Recipe {
	if c == nil {
		return []recipe.Recipe{}
	}
	matches := c.byCategory[recipe.NormalizeCategory(category)]
	return append([]recipe.Recipe{}, matches...)
}

// Categories returns recipe counts per category: canonical categories first
// (zero counts included), then any other categories found in the data, sorted.
func (c *Catalog) Categories() []CategoryCount {
	counts := make([]CategoryCount, 0, len(recipe.Categories))
	seen := make(map[string]bool, len(recipe.Categories))
	for _, name := range recipe.Categories {
		seen[name] = true
		n := 0
		if c != nil {
			n = len(c.byCategory[name])
		}
		counts = append(counts, CategoryCount{Category: name, Recipes: n})
	}

	if c == nil {
		return counts
	}

	var extra []string
	for name := range c.byCategory {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		counts = append(counts, CategoryCount{Category: name, Recipes: len(c.byCategory[name])})
	}
	return counts
}

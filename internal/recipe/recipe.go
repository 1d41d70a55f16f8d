package recipe

import "strings"

// Canonical inventory categories, in display order.
const (
	CategoryBakery        = "Bakery"
	CategoryGrainsLegumes = "Grains/Legumes"
	CategoryDairy         = "Dairy"
	CategoryProtein       = "Protein"
	CategoryProduce       = "Produce"
)

// Categories lists the known categories in display order.
var Categories = []string{
	CategoryBakery,
	CategoryGrainsLegumes,
	CategoryDairy,
	CategoryProtein,
	CategoryProduce,
}

// Recipe is one row of the recipe catalog.
type Recipe struct {
	// Category is whitespace-trimmed at load time
	Category string `json:"category"`

	Name        string `json:"name"`
	Ingredients string `json:"ingredients"`
	Cuisine     string `json:"cuisine"`

	// PrepTimeMinutes and Calories are non-negative
	PrepTimeMinutes float64 `json:"prep_time_minutes"`
	Calories        float64 `json:"calories"`
}

// NormalizeCategory trims leading/trailing whitespace. Matching stays
// exact and case-sensitive after trimming.
func NormalizeCategory(s string) string {
	return strings.TrimSpace(s)
}

// IsKnownCategory reports whether c (after normalization) is a canonical category.
func IsKnownCategory(c string) bool {
	c = NormalizeCategory(c)
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

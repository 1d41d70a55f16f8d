package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/ecokitchen/internal/recipe"
)

func sampleRows() []recipe.Recipe {
	return []recipe.Recipe{
		{Category: "Dairy", Name: "Paneer Tikka"},
		{Category: " Dairy ", Name: "Lassi"},
		{Category: "Produce", Name: "Salad"},
		{Category: "Snacks", Name: "Chips"},
		{Category: "dairy", Name: "Lowercase Curd"},
	}
}

func TestNew_NormalizesCategories(t *testing.T) {
	c := New("test.csv", sampleRows())

	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
	if c.Source() != "test.csv" {
		t.Errorf("Source() = %q, want %q", c.Source(), "test.csv")
	}
	for _, r := range c.All() {
		if r.Category != recipe.NormalizeCategory(r.Category) {
			t.Errorf("category %q not normalized", r.Category)
		}
	}
}

func TestNew_CopiesRows(t *testing.T) {
	rows := sampleRows()
	c := New("test.csv", rows)
	rows[0].Name = "mutated"

	require.Equal(t, "Paneer Tikka", c.All()[0].Name)
}

func TestByCategory(t *testing.T) {
	c := New("test.csv", sampleRows())

	tests := []struct {
		category string
		want     int
	}{
		{"Dairy", 2},
		{" Dairy ", 2},
		{"dairy", 1},
		{"Produce", 1},
		{"Bakery", 0},
		{"", 0},
	}
	for _, tt := range tests {
		got := c.ByCategory(tt.category)
		if len(got) != tt.want {
			t.Errorf("ByCategory(%q) len = %d, want %d", tt.category, len(got), tt.want)
		}
		if got == nil {
			t.Errorf("ByCategory(%q) = nil, want empty slice", tt.category)
		}
	}
}

func TestByCategory_ReturnsCopy(t *testing.T) {
	c := New("test.csv", sampleRows())

	first := c.ByCategory("Dairy")
	first[0].Name = "mutated"

	second := c.ByCategory("Dairy")
	require.Equal(t, "Paneer Tikka", second[0].Name)
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog

	require.Equal(t, 0, c.Len())
	require.NotNil(t, c.All())
	require.NotNil(t, c.ByCategory("Dairy"))
	require.Len(t, c.Categories(), len(recipe.Categories))
}

func TestCategories(t *testing.T) {
	c := New("test.csv", sampleRows())

	got := c.Categories()
	want := []CategoryCount{
		{Category: "Bakery", Recipes: 0},
		{Category: "Grains/Legumes", Recipes: 0},
		{Category: "Dairy", Recipes: 2},
		{Category: "Protein", Recipes: 0},
		{Category: "Produce", Recipes: 1},
		{Category: "Snacks", Recipes: 1},
		{Category: "dairy", Recipes: 1},
	}
	require.Equal(t, want, got)
}

package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/ecokitchen/internal/recipe"
)

func TestInit_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "recipes.db")

	database, err := Init(path)
	require.NoError(t, err)
	defer database.Close()

	version, err := GetUserVersion(database)
	require.NoError(t, err)
	require.Equal(t, CurrentSchemaVersion, version)

	var name string
	err = database.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='recipes'").Scan(&name)
	require.NoError(t, err)
	require.Equal(t, "recipes", name)
}

func TestInit_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")

	first, err := Init(path)
	require.NoError(t, err)
	first.Close()

	second, err := Init(path)
	require.NoError(t, err)
	defer second.Close()

	version, err := GetUserVersion(second)
	require.NoError(t, err)
	require.Equal(t, 1, version)
}

func TestReplaceAndListRecipes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "recipes.db")
	database, err := Init(path)
	require.NoError(t, err)
	defer database.Close()

	n, err := ReplaceRecipes(ctx, database, []recipe.Recipe{
		{Category: "Dairy", Name: "Paneer Tikka", Ingredients: "paneer, yogurt", Cuisine: "Indian", PrepTimeMinutes: 30, Calories: 320},
		{Category: " Produce ", Name: "Salad", Cuisine: "Greek", PrepTimeMinutes: 10, Calories: 150.5},
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	got, err := ListRecipes(ctx, database)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Paneer Tikka", got[0].Name)
	require.Equal(t, " Produce ", got[1].Category, "categories are stored verbatim")
	require.InDelta(t, 150.5, got[1].Calories, 0.001)

	// Replace swaps the full contents
	n, err = ReplaceRecipes(ctx, database, []recipe.Recipe{{Category: "Bakery", Name: "Bread Pudding"}})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	got, err = ListRecipes(ctx, database)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Bread Pudding", got[0].Name)
}

func TestReplaceRecipes_RejectsNegativeValuesAtomically(t *testing.T) {
	ctx := context.Background()
	database, err := Init(filepath.Join(t.TempDir(), "recipes.db"))
	require.NoError(t, err)
	defer database.Close()

	_, err = ReplaceRecipes(ctx, database, []recipe.Recipe{{Category: "Dairy", Name: "Ok"}})
	require.NoError(t, err)

	_, err = ReplaceRecipes(ctx, database, []recipe.Recipe{
		{Category: "Dairy", Name: "Fine"},
		{Category: "Dairy", Name: "Bad", Calories: -1},
	})
	require.Error(t, err)

	got, err := ListRecipes(ctx, database)
	require.NoError(t, err)
	require.Len(t, got, 1, "failed replace must roll back")
	require.Equal(t, "Ok", got[0].Name)
}

func TestOpenReadOnly(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "recipes.db")

	writable, err := Init(path)
	require.NoError(t, err)
	_, err = ReplaceRecipes(ctx, writable, []recipe.Recipe{{Category: "Protein", Name: "Omelette"}})
	require.NoError(t, err)
	writable.Close()

	ro, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer ro.Close()

	got, err := ListRecipes(ctx, ro)
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = ro.Exec("DELETE FROM recipes")
	require.Error(t, err, "read-only handle must reject writes")
}

func TestOpenReadOnly_Missing(t *testing.T) {
	_, err := OpenReadOnly(filepath.Join(t.TempDir(), "absent.db"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpenReadOnly_NoSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := OpenReadOnly(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no recipes schema")
}

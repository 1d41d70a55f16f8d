package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hpungsan/ecokitchen/internal/recipe"
)

// ListRecipes returns every catalog row in insertion order.
// Categories are returned as stored; callers normalize.
func ListRecipes(ctx context.Context, db *sql.DB) ([]recipe.Recipe, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT category, name, ingredients, cuisine, prep_time_min, calories_kcal
		FROM recipes
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []recipe.Recipe
	for rows.Next() {
		var r recipe.Recipe
		if err := rows.Scan(&r.Category, &r.Name, &r.Ingredients, &r.Cuisine, &r.PrepTimeMinutes, &r.Calories); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}

	return recipes, nil
}

// ReplaceRecipes atomically swaps the table contents for recipes and
// returns the number of rows written.
func ReplaceRecipes(ctx context.Context, db *sql.DB, recipes []recipe.Recipe) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM recipes"); err != nil {
		return 0, fmt.Errorf("failed to clear recipes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recipes (category, name, ingredients, cuisine, prep_time_min, calories_kcal)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range recipes {
		if _, err := stmt.ExecContext(ctx, r.Category, r.Name, r.Ingredients, r.Cuisine, r.PrepTimeMinutes, r.Calories); err != nil {
			return 0, fmt.Errorf("failed to insert recipe %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit recipes: %w", err)
	}
	return len(recipes), nil
}

package ops

import (
	"context"

	"github.com/hpungsan/ecokitchen/internal/catalog"
	"github.com/hpungsan/ecokitchen/internal/errors"
	"github.com/hpungsan/ecokitchen/internal/logging"
	"github.com/hpungsan/ecokitchen/internal/metrics"
	"github.com/hpungsan/ecokitchen/internal/recipe"
	"github.com/hpungsan/ecokitchen/internal/recommend"
	"github.com/hpungsan/ecokitchen/internal/session"
)

// RecipesInput contains parameters for the RequestRecipes operation.
type RecipesInput struct {
	Category string `json:"category,omitempty"` // default: last classified category
	Limit    int    `json:"limit,omitempty"`    // default: recommend.DefaultLimit
}

// RecipesOutput contains the result of the RequestRecipes operation.
type RecipesOutput struct {
	Category     string          `json:"category"`
	Recipes      []recipe.Recipe `json:"recipes"`
	Fallback     string          `json:"fallback,omitempty"`
	CatalogError string          `json:"catalog_error,omitempty"`
}

// RequestRecipes reveals recipes for the session's last eligible item.
//
// Sessions that are not recipe-eligible fail with RECIPES_LOCKED. An
// unavailable catalog is not an error: the output carries CatalogError and
// no recipes.
func RequestRecipes(ctx context.Context, loader *catalog.Loader, sess *session.Session, input RecipesInput) (*RecipesOutput, error) {
	lastCategory, err := sess.RequestRecipes()
	if err != nil {
		metrics.RecipeRequestsTotal.WithLabelValues(metrics.OutcomeLocked).Inc()
		return nil, err
	}

	category := recipe.NormalizeCategory(input.Category)
	if category == "" {
		category = lastCategory
	}

	out := &RecipesOutput{Category: category, Recipes: []recipe.Recipe{}}

	c, err := loader.Load(ctx)
	if err != nil {
		if !errors.Is(err, errors.ErrCatalogUnavailable) {
			return nil, errors.NewInternal(err)
		}
		metrics.RecipeRequestsTotal.WithLabelValues(metrics.OutcomeCatalogUnavailable).Inc()
		logging.Warn().Err(err).Str("session_id", sess.ID).Msg("recipe catalog unavailable")
		out.CatalogError = CatalogErrorMessage(loader.SourceName())
		out.Fallback = recommend.FallbackMessage
		return out, nil
	}

	out.Recipes = recommend.Recommend(c, category, input.Limit)
	if len(out.Recipes) == 0 {
		out.Fallback = recommend.FallbackMessage
		metrics.RecipeRequestsTotal.WithLabelValues(metrics.OutcomeEmpty).Inc()
	} else {
		metrics.RecipeRequestsTotal.WithLabelValues(metrics.OutcomeServed).Inc()
	}

	return out, nil
}

// CatalogErrorMessage is the user-facing warning for an unavailable catalog.
func CatalogErrorMessage(source string) string {
	if source == "" {
		return "⚠️ Database Error: no recipe catalog configured."
	}
	return "⚠️ Database Error: '" + source + "' not found."
}

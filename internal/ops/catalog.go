package ops

import (
	"context"

	"github.com/hpungsan/ecokitchen/internal/catalog"
)

// CatalogStatsOutput contains the result of the CatalogStats operation.
type CatalogStatsOutput struct {
	Source     string                  `json:"source"`
	Total      int                     `json:"total"`
	Categories []catalog.CategoryCount `json:"categories"`
}

// CatalogStats loads the catalog and reports per-category counts. Unlike
// RequestRecipes it returns CATALOG_UNAVAILABLE to the caller.
func CatalogStats(ctx context.Context, loader *catalog.Loader) (*CatalogStatsOutput, error) {
	c, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogStatsOutput{
		Source:     c.Source(),
		Total:      c.Len(),
		Categories: c.Categories(),
	}, nil
}

package catalog

import (
	"context"
	"sync"

	"github.com/hpungsan/ecokitchen/internal/errors"
	"github.com/hpungsan/ecokitchen/internal/logging"
	"github.com/hpungsan/ecokitchen/internal/metrics"
)

// Loader memoizes the first successful read of its Source. One Loader is
// shared by every session in the process.
//
// Failed reads are not memoized; the next Load retries the source.
type Loader struct {
	src Source

	mu      sync.Mutex
	catalog *Catalog
}

// NewLoader creates a Loader over src. A nil src yields a loader whose Load
// always reports CATALOG_UNAVAILABLE.
func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

// SourceName returns the configured source name, or "" when none is set.
func (l *Loader) SourceName() string {
	if l == nil || l.src == nil {
		return ""
	}
	return l.src.Name()
}

// Load returns the cached catalog, reading the source on first use.
// Errors are *errors.EcoError with code CATALOG_UNAVAILABLE.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	if l == nil || l.src == nil {
		return nil, errors.NewCatalogUnavailable("", nil)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.catalog != nil {
		return l.catalog, nil
	}

	rows, err := l.src.Load(ctx)
	if err != nil {
		metrics.CatalogLoadsTotal.WithLabelValues("failure").Inc()
		return nil, errors.NewCatalogUnavailable(l.src.Name(), err)
	}

	l.catalog = New(l.src.Name(), rows)
	metrics.CatalogLoadsTotal.WithLabelValues("success").Inc()
	metrics.CatalogRecipes.Set(float64(l.catalog.Len()))
	logging.Info().Str("source", l.src.Name()).Int("recipes", l.catalog.Len()).Msg("recipe catalog loaded")

	return l.catalog, nil
}

// Loaded reports whether a catalog is cached.
func (l *Loader) Loaded() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.catalog != nil
}

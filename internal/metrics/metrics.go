package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recipe request outcomes.
const (
	OutcomeServed             = "served"
	OutcomeEmpty              = "empty"
	OutcomeCatalogUnavailable = "catalog_unavailable"
	OutcomeLocked             = "locked"
)

var (
	// ClassificationsTotal counts risk assessments by label.
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecokitchen_classifications_total",
			Help: "Total number of inventory risk classifications by label",
		},
		[]string{"label"},
	)

	// RecipeRequestsTotal counts recipe reveal requests by outcome.
	RecipeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecokitchen_recipe_requests_total",
			Help: "Total number of recipe recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	// CatalogLoadsTotal counts catalog source reads by result (success, failure).
	CatalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecokitchen_catalog_loads_total",
			Help: "Total number of recipe catalog source reads by result",
		},
		[]string{"result"},
	)

	CatalogRecipes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ecokitchen_catalog_recipes",
			Help: "Number of recipes in the loaded catalog",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ecokitchen_active_sessions",
			Help: "Number of live interactive sessions",
		},
	)

	// HTTPRequestDuration tracks web handler latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecokitchen_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

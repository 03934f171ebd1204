// Package http assembles the explorer's HTTP server: router, middleware
// chain, and lifecycle.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/rxndb-explorer/internal/application/explorer"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/rxndb-explorer/internal/interfaces/http/handlers"
	"github.com/turtacn/rxndb-explorer/internal/interfaces/http/middleware"
)

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	Service   *explorer.Service
	Logger    logging.Logger
	Metrics   *prometheus.AppMetrics
	Collector prometheus.MetricsCollector
	Checks    map[string]handlers.ReadinessCheck
}

// NewRouter builds the gin engine with the full middleware chain and every
// route mounted.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	health := handlers.NewHealthHandler(deps.Checks)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	if deps.Collector != nil {
		r.GET("/metrics", gin.WrapH(deps.Collector.Handler()))
	}

	h := handlers.NewExplorerHandler(deps.Service)
	v1 := r.Group("/api/v1")
	{
		v1.GET("/phases", h.Phases)
		v1.GET("/reactions", h.Filter)
		v1.POST("/reactions", h.Filter)
		v1.POST("/reactions/similar", h.FindSimilar)
		v1.GET("/reactions/midpoints", h.Midpoints)
		v1.GET("/groups", h.Groups)
		v1.POST("/reload", h.Reload)
	}
	return r
}

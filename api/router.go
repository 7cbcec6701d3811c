// Package api wires the HTTP surface that downstream consumers (dashboards,
// catalog mergers) call to obtain live price results.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shelfwatch/shelfwatch/api/handler"
	"github.com/shelfwatch/shelfwatch/api/middleware"
	"github.com/shelfwatch/shelfwatch/cache"
	"github.com/shelfwatch/shelfwatch/config"
	"github.com/shelfwatch/shelfwatch/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(o *scraper.Orchestrator, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health is not behind auth.
	v1.GET("/health", handler.Health(startTime))

	// Protected group: auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// The core imposes no batch-wide deadline of its own; the API layer
	// races each whole batch against the configured timeout.
	protected.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Scraper.BatchTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	protected.POST("/prices", handler.Prices(o, cc))

	return r
}

// Package main provides the Messenger bot server entry point.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/misrsweets/sweetbot-go/internal/catalog"
	"github.com/misrsweets/sweetbot-go/internal/config"
	"github.com/misrsweets/sweetbot-go/internal/convstate"
	"github.com/misrsweets/sweetbot-go/internal/logger"
	"github.com/misrsweets/sweetbot-go/internal/metrics"
	"github.com/misrsweets/sweetbot-go/internal/storage"
	"github.com/misrsweets/sweetbot-go/internal/webhook"
)

// routeDeps bundles everything the route handlers need.
type routeDeps struct {
	cfg         *config.Config
	webhook     *webhook.Handler
	db          *storage.DB
	catalog     *catalog.Store
	loadCatalog catalog.LoadFunc
	state       *convstate.Store
	metrics     *metrics.Metrics
	registry    *prometheus.Registry
	logger      *logger.Logger
}

// setupRoutes configures all HTTP routes.
func setupRoutes(router *gin.Engine, deps routeDeps) {
	// Liveness probe: process is up, nothing else
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe: state database answers and the catalog is loaded
	readyHandler := func(c *gin.Context) {
		if err := deps.db.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":        "ready",
			"database":      "connected",
			"catalog_items": deps.catalog.Current().Len(),
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Messenger webhook: verification handshake plus the event feed
	router.GET("/webhook", deps.webhook.Verify)
	router.POST("/webhook", deps.webhook.Receive)

	// Prometheus metrics, behind basic auth when a password is set
	metricsHandler := gin.WrapH(promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))
	if deps.cfg.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			deps.cfg.MetricsUsername: deps.cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}

	// Admin routes, enabled only when a token is configured
	if deps.cfg.AdminToken != "" {
		admin := router.Group("/admin", bearerAuthMiddleware(deps.cfg.AdminToken))
		admin.POST("/reload", reloadHandler(deps))
		admin.GET("/unmatched", unmatchedHandler(deps))
	}
}

// reloadHandler re-reads the catalog feed and swaps the index in place.
// A broken feed keeps the previous catalog and reports 503.
func reloadHandler(deps routeDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := deps.catalog.Reload(c.Request.Context(), deps.loadCatalog)
		if err != nil {
			deps.metrics.RecordCatalogReload("error", 0)
			deps.logger.WithError(err).Error("Catalog reload failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "reload failed",
				"reason": err.Error(),
			})
			return
		}
		deps.metrics.RecordCatalogReload("success", n)
		deps.logger.WithField("items", n).Info("Catalog reloaded")
		c.JSON(http.StatusOK, gin.H{"status": "ok", "items": n})
	}
}

// unmatchedHandler lists recent unmatched queries for review.
func unmatchedHandler(deps routeDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		queries, err := deps.state.RecentUnmatched(c.Request.Context(), 100)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"queries": queries})
	}
}

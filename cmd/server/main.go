// Package main provides the Messenger bot server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/misrsweets/sweetbot-go/internal/bot"
	"github.com/misrsweets/sweetbot-go/internal/catalog"
	"github.com/misrsweets/sweetbot-go/internal/config"
	"github.com/misrsweets/sweetbot-go/internal/convstate"
	"github.com/misrsweets/sweetbot-go/internal/feed"
	"github.com/misrsweets/sweetbot-go/internal/genai"
	"github.com/misrsweets/sweetbot-go/internal/logger"
	"github.com/misrsweets/sweetbot-go/internal/messenger"
	"github.com/misrsweets/sweetbot-go/internal/metrics"
	"github.com/misrsweets/sweetbot-go/internal/reply"
	"github.com/misrsweets/sweetbot-go/internal/sentry"
	"github.com/misrsweets/sweetbot-go/internal/storage"
	"github.com/misrsweets/sweetbot-go/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.Info("Starting sweetbot server")

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, continuing without it")
	}
	if sentry.IsEnabled() {
		defer sentry.Flush(2 * time.Second)
		log.Info("Sentry error tracking enabled")
	}

	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Fatal("Failed to open state database")
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("State database connected")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())
	m := metrics.New(registry)

	catalogStore := catalog.NewStore(log)
	loadCatalog := feed.Loader(cfg.CatalogPath)

	// Initial load: a missing or broken feed is not fatal, the bot
	// starts with an empty catalog and /admin/reload can recover it.
	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if n, err := catalogStore.Reload(startCtx, loadCatalog); err != nil {
		m.RecordCatalogReload("error", 0)
		log.WithError(err).WithField("path", cfg.CatalogPath).
			Warn("Initial catalog load failed, starting empty")
	} else {
		m.RecordCatalogReload("success", n)
		log.WithField("items", n).Info("Catalog loaded")
	}
	startCancel()

	state := convstate.New(
		storage.NewStateRepository(db),
		storage.NewUnmatchedRepository(db),
		cfg.Bot.UnmatchedKeep,
		log,
	)

	composer := reply.NewComposer(cfg.Bot.MenuLinks)

	polisher, err := genai.NewPolisher(genai.Config{
		GroqAPIKey:   cfg.GroqAPIKey,
		GroqModel:    cfg.GroqModel,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIModel:  cfg.OpenAIModel,
		Timeout:      cfg.Bot.PolishTimeout,
		MaxAttempts:  cfg.Bot.PolishMaxAttempts,
	}, log, m)
	if err != nil {
		log.WithError(err).Fatal("Failed to create polisher")
	}
	if polisher.Enabled() {
		log.Info("Reply polishing enabled")
	} else {
		log.Info("No polishing provider configured, replies stay verbatim")
	}

	processor := bot.NewProcessor(cfg.Bot, catalogStore, state, composer, polisher, m, log)

	sender := messenger.NewClient(cfg.PageAccessToken, log, m)

	limiter := bot.NewKeyedLimiter(int(cfg.Bot.UserRateBurst), cfg.Bot.UserRateRefill)
	defer limiter.Stop()

	webhookHandler := webhook.NewHandler(webhook.HandlerConfig{
		VerifyToken:  cfg.VerifyToken,
		Processor:    processor,
		Composer:     composer,
		Sender:       sender,
		Limiter:      limiter,
		Metrics:      m,
		Logger:       log,
		EventTimeout: cfg.Bot.WebhookTimeout,
	})

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))

	setupRoutes(router, routeDeps{
		cfg:         cfg,
		webhook:     webhookHandler,
		db:          db,
		catalog:     catalogStore,
		loadCatalog: loadCatalog,
		state:       state,
		metrics:     m,
		registry:    registry,
		logger:      log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := webhookHandler.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Timeout waiting for in-flight events")
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}

	log.Info("Server stopped")
}

// Package main is the entry point for the Reenove quote server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/infinitydev4/reenove-sub000/internal/ai"
	"github.com/infinitydev4/reenove-sub000/internal/audit"
	"github.com/infinitydev4/reenove-sub000/internal/config"
	"github.com/infinitydev4/reenove-sub000/internal/conversation"
	"github.com/infinitydev4/reenove-sub000/internal/database"
	"github.com/infinitydev4/reenove-sub000/internal/domain"
	"github.com/infinitydev4/reenove-sub000/internal/handler"
	"github.com/infinitydev4/reenove-sub000/internal/intent"
	"github.com/infinitydev4/reenove-sub000/internal/logging"
	"github.com/infinitydev4/reenove-sub000/internal/memory"
	"github.com/infinitydev4/reenove-sub000/internal/metrics"
	"github.com/infinitydev4/reenove-sub000/internal/middleware"
	"github.com/infinitydev4/reenove-sub000/internal/pricing"
	"github.com/infinitydev4/reenove-sub000/internal/ratelimit"
	"github.com/infinitydev4/reenove-sub000/internal/shutdown"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger with runtime level adjustment
	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.Zap()
	defer func() { _ = logger.Sync() }()

	logger.Info("starting reenove server",
		zap.String("version", version),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Environment),
		zap.String("assistant", cfg.Assistant.Strategy),
	)

	// Static tables are checked before the server accepts traffic.
	if err := verifyStaticTables(); err != nil {
		logger.Fatal("static table verification failed", zap.Error(err))
	}

	ctx := context.Background()

	m := metrics.NewMetrics()
	auditLogger := audit.NewLogger(logger)

	// Conversation log: PostgreSQL when enabled, in-process otherwise
	var db *database.DB
	var convLog memory.Log = memory.NewInMemoryLog()
	if cfg.Database.Enabled {
		db, err = database.New(ctx, &cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		// Note: db.Close() is handled by shutdown coordinator

		migrator := database.NewMigrator(db.Pool, logger)
		if err := migrator.Migrate(ctx); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		db.QueryLogger.SetOnQuery(m.RecordDBQuery)
		convLog = memory.NewPostgresLog(db.TxManager)
	}

	// Assistant strategy: Claude-backed generation or scripted phrasing
	assistant, classifier, vision, claudeClient := buildAssistant(cfg, logger)

	// Session store with TTL sweeping
	store := conversation.NewStore(cfg.Session.TTL, cfg.Session.SweepInterval, logger)
	backgroundCtx, stopBackground := context.WithCancel(ctx)
	store.StartSweeper(backgroundCtx)

	orchestrator := conversation.NewOrchestrator(
		store,
		classifier,
		assistant,
		vision,
		convLog,
		cfg.Assistant.MaxImagesPerTurn,
		logger,
	)

	// Handlers
	h := handler.New(orchestrator, logger)
	h.SetAuditLogger(auditLogger)
	h.SetMetrics(m)
	h.SetBusinessEvents(metrics.NewBusinessEventLogger(logger))
	errRateCfg := metrics.DefaultErrorRateConfig()
	errRateCfg.AlertCallback = func(category metrics.ErrorCategory, rate float64) {
		logger.Warn("error rate above threshold",
			zap.String("category", string(category)),
			zap.Float64("errors_per_second", rate),
		)
	}
	h.SetErrorRates(metrics.NewErrorRateTracker(errRateCfg))
	h.SetLogLevelHandler(log)
	if db != nil {
		h.SetHealthChecker(db)
	}
	if claudeClient != nil {
		h.SetAIHealthChecker(claudeClient)
	}

	// HTTP rate limiter, feeding metrics and the audit trail on rejection
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)
	rateLimiter.SetOnLimit(func(ip string) {
		m.RecordRateLimitHit("http")
		auditLogger.RateLimitExceeded(ctx, ip, ip, "", "http")
	})

	correlation := middleware.NewRequestCorrelation(logger)

	// Initialize router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(correlation.Middleware) // First: add correlation IDs
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.Compress(5))
	r.Use(m.Middleware)
	r.Use(middleware.RateLimit(rateLimiter))
	r.Use(middleware.BodySizeLimiterJSON())

	r.Handle("/metrics", m.Handler())

	// Register routes
	h.RegisterRoutes(r)

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Gauge poller: active sessions and pool stats
	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.SetActiveSessions(store.Len())
				if db != nil {
					stat := db.Stats()
					m.UpdateDBConnections(int(stat.TotalConns()), int(stat.AcquiredConns()))
				}
			case <-backgroundCtx.Done():
				return
			}
		}
	}()

	// Initialize shutdown coordinator
	shutdownCoord := shutdown.NewCoordinator(&shutdown.Config{
		Timeout: 30 * time.Second,
	}, logger)
	h.SetReadinessChecker(shutdown.NewReadinessProbe(shutdownCoord))

	// Drain: let in-flight requests complete
	shutdownCoord.RegisterFunc(shutdown.PhaseDrain, "http-server", func(ctx context.Context) error {
		return server.Shutdown(ctx)
	})

	// Stop background workers
	shutdownCoord.RegisterFunc(shutdown.PhaseShutdown, "background-workers", func(ctx context.Context) error {
		stopBackground()
		select {
		case <-pollerDone:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	// Cleanup: close connections and flush buffers
	shutdownCoord.RegisterFunc(shutdown.PhaseCleanup, "database", func(ctx context.Context) error {
		if db != nil {
			db.Close()
		}
		return nil
	})

	auditLogger.ServiceStarted(ctx, version, cfg.Server.Environment)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("received shutdown signal")
	auditLogger.ServiceStopping(ctx, "signal received")

	// Execute graceful shutdown
	if err := shutdownCoord.Shutdown(ctx); err != nil {
		logger.Error("shutdown completed with errors", zap.Error(err))
	}
}

// verifyStaticTables fails fast on category table collisions and
// pricing catalog gaps instead of surfacing them on a live turn.
func verifyStaticTables() error {
	if err := domain.VerifyCategoryTable(); err != nil {
		return err
	}
	return pricing.VerifyCatalog()
}

// newLogger builds the application logger from configuration.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	return logging.New(&logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Environment: cfg.Server.Environment,
	})
}

// buildAssistant wires the assistant strategy. The generative strategy
// shares one rate-limited Claude client between reply generation,
// intent classification, and photo analysis. The scripted strategy
// needs no client at all; the classifier falls back to its lexicon and
// the orchestrator skips photo analysis.
func buildAssistant(cfg *config.Config, logger *zap.Logger) (conversation.Assistant, *intent.Classifier, conversation.PhotoAnalyzer, *ai.ClaudeClient) {
	if cfg.Assistant.Strategy != "generative" {
		return conversation.NewScriptedAssistant(), intent.New(nil, logger), nil, nil
	}

	client := ai.NewClaudeClient(&cfg.Anthropic, logger)

	limiterCfg := ratelimit.DefaultGenerationLimiterConfig()
	limiter := ratelimit.NewGenerationLimiter(limiterCfg, logger)
	logger.Info("initialized generation rate limiter",
		zap.Int("max_per_minute", limiterCfg.MaxRequestsPerMinute),
		zap.Int("max_per_hour", limiterCfg.MaxRequestsPerHour),
		zap.Int("max_per_day", limiterCfg.MaxRequestsPerDay),
		zap.Int("max_concurrent", limiterCfg.MaxConcurrent),
	)
	generator := ai.NewLimitedGenerator(client, limiter)

	return conversation.NewGenerativeAssistant(generator, logger), intent.New(generator, logger), client, client
}

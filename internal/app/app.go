// Package app assembles the statement service: configuration, logging,
// metrics, the parser, and the HTTP router, plus the server lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"soacli/internal/config"
	apperrors "soacli/internal/errors"
	"soacli/internal/infrastructure"
	custommw "soacli/internal/middleware"
	"soacli/internal/services"
	"soacli/internal/soa"
	transport "soacli/internal/transport/http"
)

// AppName identifies the service in logs and health output.
const AppName = "soa-statement-service"

// Version is overridden at build time via -ldflags.
var Version = "dev"

// Application holds the wired components and the HTTP server.
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *infrastructure.Metrics
	Store   *services.Store
	Service *services.StatementService
	Router  chi.Router
	Server  *http.Server
}

// NewApplication builds the full application from configuration.
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	metrics := infrastructure.NewMetrics()
	store := services.NewStore()

	parser := soa.NewParser(logger, soa.Options{
		AmountFallbackMin:    cfg.Parser.AmountFallbackMin,
		MetadataRows:         cfg.Parser.MetadataRows,
		ExtraSectionKeywords: cfg.Parser.ExtraSectionKeywords,
	})

	a := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Store:   store,
		Service: services.NewStatementService(parser, store, metrics, logger),
	}
	a.setupRouter()
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
	return a, nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.HTTPMetrics(a.Metrics))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.Compress(5))

	if a.Config.Security.RateLimit.Enabled {
		r.Use(custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	errorHandler := apperrors.NewErrorHandler(a.Logger, false)
	statements := transport.NewStatementHandler(a.Service, a.Logger, errorHandler, a.Config.Parser.MaxUploadBytes)
	health := transport.NewHealthHandler(Version)

	r.Route("/api", func(r chi.Router) {
		r.With(custommw.Timeout(a.Config.Parser.ParseTimeout, a.Logger)).
			Mount("/statements", statements.Routes())
	})
	r.Get("/healthz", health.HealthCheck)
	r.Handle("/metrics", a.Metrics.Handler())

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.Router = r
}

// Start launches the HTTP server. A listen failure cancels the context so
// Run can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
	return nil
}

// Stop gracefully shuts the server down.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run starts the application and blocks until an interrupt arrives or the
// server fails.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}

// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/figcaption/internal/api"
	"github.com/starford/figcaption/internal/authz"
	"github.com/starford/figcaption/internal/caption"
	"github.com/starford/figcaption/internal/editform"
	"github.com/starford/figcaption/internal/lifecycle"
	"github.com/starford/figcaption/internal/metastore"
	"github.com/starford/figcaption/internal/metrics"
	"github.com/starford/figcaption/internal/sanitize"
	"github.com/starford/figcaption/internal/theme"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{in: os.Stdin, out: os.Stdout, logOut: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// newLogger initializes the structured JSON logger.
func newLogger(app *application) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// services are the caption components wired from one store.
type services struct {
	captions  *caption.Repository
	accessor  *caption.Accessor
	forms     *editform.Service
	page      *theme.Page
	lifecycle *lifecycle.Manager
	metrics   *metrics.Registry
}

func newServices(cfg *Config, store *metastore.Store, logger *slog.Logger) (*services, error) {
	m := metrics.New()

	captions := caption.NewRepository(store, sanitize.PostContent(), cfg.Caption.MetaKey)
	accessor := caption.NewAccessor(captions, cfg.Caption.CSSClass)

	tokens := authz.NewTokens(cfg.Forms.Secret, cfg.Forms.TokenTTL)
	gate := authz.NewGate(tokens, authz.NewRolePolicy(store), logger)
	forms := editform.NewService(captions, gate, tokens, m, logger)

	page, err := theme.NewPage(theme.NewFunctions(accessor, m), "")
	if err != nil {
		return nil, err
	}

	return &services{
		captions:  captions,
		accessor:  accessor,
		forms:     forms,
		page:      page,
		lifecycle: lifecycle.NewManager(store, cfg.Plugin.Version, cfg.Plugin.MinHostVersion, logger),
		metrics:   m,
	}, nil
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	cfg := app.config
	logger := newLogger(app)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize SQLite metadata store.
	store, err := metastore.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init metastore: %w", err)
	}
	defer store.Close()

	svc, err := newServices(cfg, store, logger)
	if err != nil {
		return fmt.Errorf("init services: %w", err)
	}

	logger.Info("Caption storage ready", slog.String("meta_key", svc.captions.Key()))

	// Bring an older configuration record up to date.
	if _, err := svc.lifecycle.Upgrade(ctx); err != nil {
		logger.Warn("upgrade check failed", slog.String("error", err.Error()))
	}

	apiRouter := api.NewRouter(api.Deps{
		Captions:       svc.captions,
		Accessor:       svc.accessor,
		Forms:          svc.forms,
		Page:           svc.page,
		Posts:          store,
		Users:          store,
		Metrics:        svc.metrics,
		AuthEnabled:    cfg.Auth.AuthEnabled(),
		SavesPerMinute: cfg.Throttle.SavesPerMinute,
	})

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := store.Ping(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", svc.metrics.Handler())

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

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

	"github.com/starford/graphol/internal/api"
	"github.com/starford/graphol/internal/index"
	"github.com/starford/graphol/internal/mcpserver"
	"github.com/starford/graphol/internal/metrics"
	"github.com/starford/graphol/internal/ontoservice"
	"github.com/starford/graphol/internal/sse"
	"github.com/starford/graphol/internal/storage"
)

// components holds everything built from the configuration that the serve
// and mcp commands share.
type components struct {
	cfg     *Config
	logger  *slog.Logger
	store   *storage.FS
	db      *index.DB
	broker  *sse.Broker
	metrics *metrics.Translation
	svc     *ontoservice.Service
}

func (c *components) Close() {
	c.broker.Close()
	if err := c.db.Close(); err != nil {
		c.logger.Warn("close index", slog.String("error", err.Error()))
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{logOut: os.Stdout, version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func newLogger(app *application) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// build opens the workspace and the index, wires the service and runs the
// initial sync.
func build(app *application) (*components, error) {
	cfg := app.config
	logger := newLogger(app)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("workspace_path", cfg.Workspace.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("base_iri", cfg.Ontology.BaseIRI),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := os.MkdirAll(cfg.Workspace.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Workspace.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	broker := sse.NewBroker(cfg.Events.OntologyThrottle, sse.WithProgressInterval(cfg.Events.ProgressInterval))
	m := metrics.New()
	compiler := ontoservice.NewCompiler(cfg.Ontology.TranslatorOptions(logger)...)
	svc := ontoservice.NewService(store, db, compiler,
		ontoservice.WithPublisher(broker),
		ontoservice.WithRecorder(m),
		ontoservice.WithLogger(logger),
	)

	if err := index.Sync(db, store, svc.CompileData, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	return &components{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		db:      db,
		broker:  broker,
		metrics: m,
		svc:     svc,
	}, nil
}

// Handler builds the root HTTP router.
func (c *components) Handler() http.Handler {
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
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := c.db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if c.cfg.Metrics.Enabled {
		r.Handle("/metrics", c.metrics.Handler())
	}

	r.Mount("/api", api.NewRouter(c.svc, c.cfg.Auth.AuthEnabled(), c.cfg.Auth.Token, c.broker))
	return r
}

// Run starts the HTTP server and the workspace watcher.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	c, err := build(app)
	if err != nil {
		return err
	}
	defer c.Close()
	logger := c.logger
	cfg := c.cfg

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           c.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Workspace.Watch {
		g.Go(func() error {
			if err := index.Watch(gCtx, c.db, c.store, c.store.Root(), logger, c.svc.CompileData, c.broker.PublishDiagramEvent); err != nil {
				logger.Error("watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

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
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tool surface over stdio.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	c, err := build(app)
	if err != nil {
		return err
	}
	defer c.Close()

	c.logger.Info("MCP server starting", slog.String("version", app.version))
	srv := mcpserver.New(c.svc, c.store, app.version)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ServeStdio() }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

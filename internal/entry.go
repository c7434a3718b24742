// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/kanboard/internal/api"
	"github.com/starford/kanboard/internal/board"
	"github.com/starford/kanboard/internal/boardservice"
	"github.com/starford/kanboard/internal/index"
	"github.com/starford/kanboard/internal/mcpserver"
	"github.com/starford/kanboard/internal/reload"
	"github.com/starford/kanboard/internal/sse"
	pkgconfig "github.com/starford/kanboard/pkg/config"
)

// runtime holds the components shared by the HTTP and MCP entry points.
type runtime struct {
	logger *slog.Logger
	level  *slog.LevelVar
	ctrl   *board.Controller
	db     *index.DB
	svc    *boardservice.Service
}

func (rt *runtime) close() {
	rt.ctrl.Close()
	if err := rt.db.Close(); err != nil {
		rt.logger.Warn("index close failed", slog.String("error", err.Error()))
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// setup builds the logger, board controller, search index and service.
// Log output goes to w.
func setup(cfg *Config, w io.Writer, observers ...board.Observer) (*runtime, error) {
	level := new(slog.LevelVar)
	level.Set(cfg.App.LogLevel)

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("index_path", cfg.Index.Path),
		slog.String("log_level", cfg.App.LogLevel.String()),
		slog.Duration("validation_ttl", cfg.Board.Notice.ValidationTTL),
		slog.Duration("success_ttl", cfg.Board.Notice.SuccessTTL))

	boardOpts := []board.Option{
		board.WithSeed(cfg.Board.SeedBoard()),
		board.WithNoticeTTL(cfg.Board.Notice.ValidationTTL, cfg.Board.Notice.SuccessTTL),
		board.WithLogger(logger),
	}
	for _, fn := range observers {
		boardOpts = append(boardOpts, board.WithObserver(fn))
	}

	ctrl, err := board.New(boardOpts...)
	if err != nil {
		return nil, fmt.Errorf("init board: %w", err)
	}

	// Initialize SQLite index.
	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		ctrl.Close()
		return nil, fmt.Errorf("init index: %w", err)
	}

	svc, err := boardservice.NewService(ctrl, db, logger)
	if err != nil {
		ctrl.Close()
		db.Close()
		return nil, fmt.Errorf("initial index sync: %w", err)
	}

	return &runtime{logger: logger, level: level, ctrl: ctrl, db: db, svc: svc}, nil
}

// watchConfig re-applies the log level whenever the config file changes.
// Other settings need a restart.
func (rt *runtime) watchConfig(ctx context.Context, path string) error {
	return reload.Watch(ctx, path, rt.logger, func() error {
		next := NewDefaultConfig()
		if err := pkgconfig.Load(path, next); err != nil {
			return err
		}
		if prev := rt.level.Level(); prev != next.App.LogLevel {
			rt.level.Set(next.App.LogLevel)
			rt.logger.Info("log level changed",
				slog.String("from", prev.String()),
				slog.String("to", next.App.LogLevel.String()))
		}
		return nil
	})
}

// Run starts the HTTP application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// SSE broker.
	broker := sse.NewBroker(cfg.Index.EventsThrottle)
	defer broker.Close()

	rt, err := setup(cfg, os.Stdout, broker.PublishBoardEvent)
	if err != nil {
		return err
	}
	defer rt.close()
	logger := rt.logger

	apiRouter := api.NewRouter(rt.svc, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := rt.db.Count(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"index unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the config file for log level changes.
	if cfg.Reload.Enabled && app.configPath != "" {
		g.Go(func() error {
			if err := rt.watchConfig(gCtx, app.configPath); err != nil {
				logger.Warn("config watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

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

		// Close the broker first so open SSE streams end and Shutdown can finish.
		broker.Close()

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

// RunMCP serves the board over the MCP stdio transport. Logs go to stderr
// because stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	rt, err := setup(app.config, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.close()

	srv := mcpserver.New(rt.svc)

	watchCtx, cancel := context.WithCancel(ctx)
	g, gCtx := errgroup.WithContext(watchCtx)
	if app.config.Reload.Enabled && app.configPath != "" {
		g.Go(func() error {
			if err := rt.watchConfig(gCtx, app.configPath); err != nil {
				rt.logger.Warn("config watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	rt.logger.Info("MCP server starting on stdio")
	serveErr := srv.ServeStdio()

	cancel()
	_ = g.Wait()

	if serveErr != nil {
		return fmt.Errorf("MCP server error: %w", serveErr)
	}
	return nil
}

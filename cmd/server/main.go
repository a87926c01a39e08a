package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/MatrixWizard/internal/config"
	"github.com/JonMunkholm/MatrixWizard/internal/core"
	"github.com/JonMunkholm/MatrixWizard/internal/logging"
	"github.com/JonMunkholm/MatrixWizard/internal/store"
	"github.com/JonMunkholm/MatrixWizard/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store", cfg.Store.Backend,
		"max_sessions", cfg.Session.MaxActive,
		"grid_size", cfg.Session.GridSize,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()
	st, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		slog.Error("failed to open session store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	service := core.NewService(st, core.Options{
		MaxActive:         cfg.Session.MaxActive,
		MaxWait:           cfg.Session.MaxWait,
		IdleTTL:           cfg.Session.IdleTTL,
		GridSize:          cfg.Session.GridSize,
		FillEmptyWithZero: cfg.Session.FillEmptyWithZero,
	})

	server := web.NewServer(service, cfg)

	// Cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go service.StartReaper(jobCtx, cfg.Session.ReapInterval)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Sessions still in memory are written out so they resume after restart.
		status := service.Status()
		if err := service.Flush(shutdownCtx); err != nil {
			slog.Warn("some sessions were not saved", "error", err)
		} else {
			slog.Info("sessions saved", "count", status.Active)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		cancelJobs()
		return
	}
	<-done
}

// openStore builds the session store selected by cfg. The returned func
// releases its resources.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendFile:
		fs, err := store.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("using file store", "dir", cfg.Dir)
		return fs, func() {}, nil

	case config.BackendPostgres:
		poolConfig, err := pgxpool.ParseConfig(cfg.URL)
		if err != nil {
			return nil, nil, err
		}
		poolConfig.MaxConns = int32(cfg.MaxConns)
		poolConfig.MinConns = int32(cfg.MinConns)
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		if u, err := url.Parse(cfg.URL); err == nil {
			slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
		} else {
			slog.Info("connected to database")
		}

		ps := store.NewPostgresStore(pool)
		if err := ps.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return ps, pool.Close, nil

	default:
		slog.Warn("using in-memory store; sessions are lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	}
}

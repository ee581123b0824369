package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/skill-connect/internal/config"
	"github.com/msomdec/skill-connect/internal/domain"
	"github.com/msomdec/skill-connect/internal/handler"
	"github.com/msomdec/skill-connect/internal/repository/minio"
	"github.com/msomdec/skill-connect/internal/repository/redis"
	"github.com/msomdec/skill-connect/internal/repository/sqlite"
	"github.com/msomdec/skill-connect/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	kv, closeKV, err := openStorage(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer closeKV.Close()
	slog.Info("storage ready", "backend", cfg.Storage.Backend, "key", cfg.Storage.Key)

	store := service.NewProfileStore(kv, service.NewDataURIReader(),
		service.WithStorageKey(cfg.Storage.Key),
		service.WithLogger(logger),
	)
	store.Initialize(context.Background())

	limiter := service.NewUploadLimiter(cfg.Upload.RatePerSecond, cfg.Upload.Burst)
	defer limiter.Stop()

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.NewProfileHandler(store, cfg.Upload.MaxBytes), limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStorage connects the configured backend. The returned closer releases
// its connections.
func openStorage(ctx context.Context, cfg *config.Config) (domain.KVStore, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		kv := redis.NewKVStore(redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			UseTLS:   cfg.Redis.UseTLS,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := kv.Ping(pingCtx); err != nil {
			kv.Close()
			return nil, nil, err
		}
		return kv, kv, nil

	case config.BackendMinIO:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		kv, err := minio.Connect(connectCtx, minio.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return kv, closerFunc(func() error { return nil }), nil

	default:
		db, err := sqlite.New(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		slog.Info("database migrations applied")
		return db.KV(), db, nil
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

package main

import (
	"context"
	"errors"
	"listingBoard/internal/config"
	"listingBoard/internal/handlers"
	"listingBoard/internal/logger"
	"listingBoard/internal/router"
	"listingBoard/internal/storage"
	"listingBoard/internal/storage/memory"
	"listingBoard/internal/storage/mongo"
	"listingBoard/internal/storage/postgres"
	"listingBoard/internal/storage/redis"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slog.SetDefault(logger.New(logger.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON}).With(slog.String("app", cfg.AppName)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var database storage.Database
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := postgres.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			slog.Error("Failed to connect to postgres", slog.Any("err", err))
			os.Exit(1)
		}
		defer db.Close()
		database = db
	default:
		slog.Warn("Using in-memory storage, data is lost on restart")
		database = memory.New()
	}

	var cache storage.Cache
	redisCache, err := redis.New(ctx, redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.TTL,
	})
	if err != nil {
		slog.Warn("Redis unavailable, caching in memory", slog.String("addr", cfg.Redis.Addr), slog.Any("err", err))
		cache = memory.NewCache()
	} else {
		defer redisCache.Close()
		cache = redisCache
	}

	var media storage.MediaStore
	if cfg.Mongo.URI != `` {
		gridfs, err := mongo.New(ctx, cfg.Mongo.URI, cfg.Mongo.DB)
		if err != nil {
			slog.Error("Failed to connect to mongo", slog.Any("err", err))
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			gridfs.Close(closeCtx)
		}()
		media = gridfs
	} else {
		media = memory.NewMediaStore()
	}

	auth := handlers.NewAuth(cfg.Auth.JWTKey, cfg.Auth.TokenTTL, cfg.Auth.DummyTokenTTL)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router.New(database, cache, media, auth, router.WithMediaLimit(cfg.Listing.MediaMaxBytes)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server started", slog.String("addr", cfg.HTTP.Addr), slog.String("backend", cfg.Backend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", slog.Any("err", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", slog.Any("err", err))
		return
	}

	slog.Info("Server stopped")
}

package main

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

	"profilehub/internal/auth"
	"profilehub/internal/config"
	"profilehub/internal/database"
	"profilehub/internal/logger"
	"profilehub/internal/profile"
	"profilehub/internal/server"
	"profilehub/internal/session"
)

const startupTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	logger.SetDefault(log)

	slog.Info("Starting profilehub API",
		"port", cfg.Port,
		"redis_addr", cfg.RedisAddr,
		"mongo_database", cfg.MongoDatabase,
		"session_ttl", cfg.SessionTTL.String(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	slog.Info("Connected to PostgreSQL")

	rdb := session.NewRedisClient(session.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			slog.Error("Failed to close Redis client", "error", err)
		}
	}()
	sessionStore := session.NewRedisStore(rdb)
	if err := sessionStore.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	slog.Info("Connected to Redis")

	mongoClient, err := profile.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect MongoDB", "error", err)
		}
	}()
	profiles := mongoClient.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
	if err := profile.EnsureIndexes(ctx, profiles); err != nil {
		return err
	}
	slog.Info("Connected to MongoDB")

	srv, err := server.New(server.Deps{
		DB:                 db,
		Users:              auth.NewPostgresRepository(db),
		SessionStore:       sessionStore,
		ProfileStore:       profile.NewMongoStore(profiles),
		Hasher:             auth.NewHasher(cfg.BcryptCost),
		SessionTTL:         cfg.SessionTTL,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		return err
	}

	httpServer := server.NewHTTPServer(cfg, srv.RegisterRoutes())

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("API listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	case sig := <-quit:
		slog.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}

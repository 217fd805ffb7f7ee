// Package main is the entry point for the Study Badges Hub API server.
//
// Architecture follows Clean Architecture and DDD:
// - Domain: pure business logic without external dependencies
// - Application: use-case orchestration (Commands/Queries)
// - Infrastructure: repository implementations, caching
// - Interface: HTTP endpoints
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/studyhub/study-badges-hub/config"
	"github.com/studyhub/study-badges-hub/internal/application/command"
	"github.com/studyhub/study-badges-hub/internal/application/query"
	"github.com/studyhub/study-badges-hub/internal/infrastructure/persistence/postgres"
	"github.com/studyhub/study-badges-hub/internal/infrastructure/persistence/redis"
	httpserver "github.com/studyhub/study-badges-hub/internal/interface/http"
	"github.com/studyhub/study-badges-hub/pkg/logger"
	"github.com/studyhub/study-badges-hub/pkg/retry"
)

func main() {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Default().Fatal("failed to load config", logger.Err(err))
	}

	level := logger.LevelInfo
	if cfg.App.Debug {
		level = logger.LevelDebug
	}
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     level,
		AddCaller: true,
	}).With(logger.String("app", cfg.App.Name))

	log.Info("starting",
		logger.String("environment", string(cfg.App.Environment)),
		logger.Bool("debug", cfg.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL with dial-in retries: transient startup races against the
	// database are common in containerized deployments.
	var conn *postgres.Connection
	err = retry.Do(ctx, retry.Config{MaxAttempts: 5, InitialDelay: time.Second}, func(ctx context.Context) error {
		var connErr error
		conn, connErr = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		return connErr
	})
	if err != nil {
		log.Fatal("failed to connect to postgres", logger.Err(err))
	}
	defer conn.Close()
	log.Info("postgres connected")

	// Redis is optional: without it the leaderboard is computed per request.
	var leaderboardCache *redis.LeaderboardCache
	if cfg.Redis.Enabled() {
		var cache *redis.Cache
		err = retry.Do(ctx, retry.Config{MaxAttempts: 5, InitialDelay: time.Second}, func(ctx context.Context) error {
			var cacheErr error
			redisCfg := redis.DefaultConfig()
			redisCfg.URL = cfg.Redis.URL
			cache, cacheErr = redis.NewCache(ctx, redisCfg)
			return cacheErr
		})
		if err != nil {
			log.Warn("redis unavailable, leaderboard cache disabled", logger.Err(err))
		} else {
			defer cache.Close()
			leaderboardCache = redis.NewLeaderboardCache(cache, cfg.Redis.LeaderboardTTL)
			log.Info("redis connected", logger.Duration("leaderboard_ttl", cfg.Redis.LeaderboardTTL))
		}
	}

	// Repositories.
	catalogRepo := postgres.NewBadgeCatalogRepository(conn)
	awardRepo := postgres.NewAwardRepository(conn)
	sessionRepo := postgres.NewSessionRepository(conn)

	// Use cases.
	deps := httpserver.Dependencies{
		UserBadges:        query.NewGetUserBadgesHandler(catalogRepo, awardRepo),
		Leaderboard:       query.NewGetLeaderboardHandler(awardRepo),
		CheckAndAward:     command.NewCheckAndAwardHandler(catalogRepo, awardRepo, sessionRepo, log),
		LeaderboardCache:  leaderboardCache,
		RecentBadgesLimit: cfg.Badges.RecentLimit,
		Log:               log,
	}

	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port

	server, err := httpserver.NewServer(serverCfg, deps)
	if err != nil {
		log.Fatal("failed to create http server", logger.Err(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("http server failed", logger.Err(err))
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", logger.Err(err))
	}

	log.Info("stopped")
}

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/cache"
	"edumaster/web/internal/config"
	"edumaster/web/internal/handlers"
	"edumaster/web/internal/jobs"
	"edumaster/web/internal/log"
	"edumaster/web/internal/metrics"
	"edumaster/web/internal/server"
	"edumaster/web/internal/services"
	"edumaster/web/internal/session"
	"edumaster/web/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Log.Level)

	ctx := context.Background()

	tokenStore, redisClient, err := newTokenStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init token store")
	}

	m := metrics.New()

	client, err := apiclient.New(cfg.API, tokenStore, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init api client")
	}
	client.SetObserver(m)
	api := services.NewSet(client)

	sessions := session.NewService(
		session.NewStore(logger),
		api.Auth,
		tokenStore,
		tokens.NewValidator(cfg.Tokens.ClockSkew),
		logger,
	)
	sessions.Subscribe(m.ObserveSession)

	bootstrapCtx, cancel := context.WithTimeout(ctx, cfg.API.Timeout)
	if err := sessions.Bootstrap(bootstrapCtx); err != nil {
		logger.Warn().Err(err).Msg("session bootstrap failed, starting anonymous")
	}
	cancel()

	handlerSet := handlers.NewHandlerSet(logger, cfg, sessions, api, redisClient)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet, m)

	scheduler := jobs.NewScheduler(cfg.Jobs, sessions, handlerSet.Notifications(), logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, redisClient)
}

// newTokenStore returns the redis client too when the redis backend is
// selected so it can be health-checked and closed.
func newTokenStore(ctx context.Context, cfg *config.AppConfig) (tokens.Store, *redis.Client, error) {
	switch cfg.Tokens.Backend {
	case config.TokenBackendMemory:
		return tokens.NewMemoryStore(), nil, nil
	case config.TokenBackendFile:
		store, err := tokens.NewFileStore(cfg.Tokens.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	case config.TokenBackendRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return tokens.NewRedisStore(client, cfg.Tokens.KeyPrefix), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown token backend %q", cfg.Tokens.Backend)
	}
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop(shutdownCtx)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("gateway exited cleanly")
}

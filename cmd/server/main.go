// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

// Command server runs the IndieDeck recommendation service: swipe-deck
// interaction ingest, hybrid ranked-list generation and the HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/indiedeck/indiedeck/internal/api"
	"github.com/indiedeck/indiedeck/internal/cache"
	"github.com/indiedeck/indiedeck/internal/config"
	"github.com/indiedeck/indiedeck/internal/events"
	"github.com/indiedeck/indiedeck/internal/logging"
	"github.com/indiedeck/indiedeck/internal/store"
	"github.com/indiedeck/indiedeck/internal/supervisor"
	"github.com/indiedeck/indiedeck/internal/supervisor/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()
	logger.Info().Str("version", version).Msg("starting indiedeck")

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	cacheStore, err := buildCacheStore(&cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer cacheStore.Close()

	bundle, err := buildEngine(&cfg.Recommend, st, logger)
	if err != nil {
		return err
	}
	engine := bundle.engine

	loader := cache.NewLoader(cacheStore, engine.Generate, cfg.Cache.TTL, logger)

	// In-process pub/sub: the API publishes, the router persists and
	// invalidates.
	pubSub := events.NewGoChannelPubSub(int(cfg.Events.BufferSize), events.NewLoggerAdapter(logger))
	publisher := events.NewPublisher(pubSub, logger)

	router, err := events.NewRouter(events.RouterConfig{
		RetryCount:           cfg.Events.RetryCount,
		RetryInitialInterval: cfg.Events.RetryInitialInterval,
		CloseTimeout:         cfg.Events.CloseTimeout,
	}, pubSub, pubSub, st, loader, logger)
	if err != nil {
		return fmt.Errorf("build event router: %w", err)
	}

	handlers := api.NewHandlers(loader, publisher, st, engine,
		bundle.content, bundle.collab,
		cfg.Recommend.DefaultLimit, cfg.Recommend.MaxLimit, version)

	httpHandler := api.NewRouter(api.RouterConfig{
		CORSOrigins:       cfg.Server.CORSOrigins,
		RateLimitRequests: cfg.Server.RateLimitRequests,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
	}, handlers)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewTree(supervisor.DefaultTreeConfig(), logger)

	tree.AddEventService(services.NewRouterService(router))
	tree.AddEventService(services.NewTrainerService(engine, st, services.TrainerServiceConfig{
		TrainOnStartup: cfg.Recommend.TrainOnStartup,
		TrainInterval:  cfg.Recommend.TrainInterval,
		Retention:      time.Duration(cfg.Database.RetentionDays) * 24 * time.Hour,
	}, logger))
	tree.AddEventService(services.NewBatchService(st, loader, services.BatchServiceConfig{
		Interval:     cfg.Recommend.BatchInterval,
		ActiveWindow: cfg.Recommend.BatchActiveWindow,
		Limit:        cfg.Recommend.DefaultLimit,
	}, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 15*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", server.Addr).Msg("service tree starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info().Msg("shutdown complete")
	return nil
}

func buildCacheStore(cfg *config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case "badger":
		return cache.NewBadgerStore(cfg.Path)
	case "", "memory":
		return cache.NewMemoryStore(cfg.MaxEntries), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

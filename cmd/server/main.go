// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

// Package main is the entry point for the Memezing engine server.
//
// The engine serves personalized meme template recommendations, folds user
// interaction events into preference profiles, and evaluates content against
// heuristic moderation rules.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, YAML file, environment (Koanf v2)
//  2. Catalog: load the meme template catalog from the YAML seed file
//  3. Store: open the Badger-backed preference store
//  4. Moderation: build the rule evaluator with configured thresholds
//  5. Events: start the Watermill interaction pipeline
//  6. HTTP server: Chi REST API with Prometheus metrics
//
// All long-running components run under a suture supervisor tree; see the
// supervisor package for the layer layout.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config file (config.yaml),
// built-in defaults. JWT_SECRET must be set in production; without it
// the admin moderation endpoints accept unauthenticated requests.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the HTTP
// listener drains in-flight requests, the event router flushes its
// handlers, and the store closes after a final value-log GC pass.
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

	"github.com/memezing/engine/internal/api"
	"github.com/memezing/engine/internal/catalog"
	"github.com/memezing/engine/internal/config"
	"github.com/memezing/engine/internal/events"
	"github.com/memezing/engine/internal/logging"
	"github.com/memezing/engine/internal/moderation"
	"github.com/memezing/engine/internal/store"
	"github.com/memezing/engine/internal/supervisor"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("catalog_path", cfg.Catalog.Path).
		Str("store_path", cfg.Store.Path).
		Bool("store_in_memory", cfg.Store.InMemory).
		Msg("Configuration loaded")

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load catalog")
	}
	logging.Info().Int("items", cat.Len()).Msg("Catalog loaded")

	st, err := store.Open(store.Options{
		Path:       cfg.Store.Path,
		InMemory:   cfg.Store.InMemory,
		GCInterval: cfg.Store.GCInterval,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open preference store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing preference store")
		}
	}()

	evaluator := moderation.DefaultEvaluator()
	if err := evaluator.SetThresholds(cfg.Moderation.Thresholds); err != nil {
		logging.Fatal().Err(err).Msg("Invalid moderation thresholds")
	}

	pipeline, err := events.NewPipeline(events.Config{
		RetryCount:    cfg.Events.RetryCount,
		RetryInterval: cfg.Events.RetryInterval,
		PoisonTopic:   cfg.Events.PoisonTopic,
		CloseTimeout:  cfg.Events.CloseTimeout,
		BufferSize:    cfg.Events.BufferSize,
	}, st)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build event pipeline")
	}
	defer func() {
		if err := pipeline.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event pipeline")
		}
	}()

	auth := api.NewAuthenticator(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	if !auth.Enabled() {
		logging.Warn().Msg("Admin moderation endpoints are UNAUTHENTICATED; set JWT_SECRET in production")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED")
	}

	handlers := api.NewHandlers(cat, st, evaluator, pipeline.Publisher(), cfg.Scoring)
	middleware := api.NewMiddleware(api.MiddlewareConfig{
		CORSOrigins:       cfg.Security.CORSOrigins,
		RateLimitRequests: cfg.Security.RateLimitReqs,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		RateLimitDisabled: cfg.Security.RateLimitDisabled,
	})
	router := api.NewRouter(handlers, middleware, auth)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// sutureslog wants slog, so bridge the zerolog global through the adapter.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(st)
	tree.AddEventsService(pipeline)
	tree.AddAPIService(supervisor.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor closes the channel.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Engine stopped gracefully")
}

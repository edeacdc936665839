// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

// Command web is the entry point for the Client Pulse web backend.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis when configured; fall back to in-memory state.
//  4. Wire the backend gateway and domain handlers.
//  5. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ManileeDev/clientpulse/internal/api"
	"github.com/ManileeDev/clientpulse/internal/configuration"
	"github.com/ManileeDev/clientpulse/internal/feature"
	"github.com/ManileeDev/clientpulse/internal/feedback"
	"github.com/ManileeDev/clientpulse/internal/gateway"
	"github.com/ManileeDev/clientpulse/internal/nav"
	"github.com/ManileeDev/clientpulse/internal/otp"
	"github.com/ManileeDev/clientpulse/internal/platform/config"
	"github.com/ManileeDev/clientpulse/internal/platform/constants"
	redisstore "github.com/ManileeDev/clientpulse/internal/platform/redis"
	"github.com/ManileeDev/clientpulse/internal/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[ClientPulse] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("backend", cfg.BackendBaseURL),
	)

	// Root context for startup and background workers. Cancelled on exit so
	// janitor goroutines stop with the server.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. Browser State ──────────────────────────────────────────────────
	// Redis keeps sessions across restarts; without it state lives in-process.
	var repository session.StateRepository
	checkState := func() error { return nil }

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		repository = session.NewRedisStateRepository(rdb, cfg.SessionTTL)
		checkState = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	} else {
		log.Warn("redis_not_configured", slog.String("fallback", "in-memory state"))
		repository = session.NewMemoryStateRepository()
	}

	store := session.NewStore(repository, log)

	// Session changes are observable; log them for audit trails.
	unsubscribe := store.Subscribe(func(change session.Change) {
		log.Debug("session_changed",
			slog.String("sid", change.SessionID),
			slog.String("role", string(change.Session.Role)),
			slog.Bool("authenticated", change.Session.Authenticated()),
		)
	})
	defer unsubscribe()

	// ── 4. Backend Gateway ────────────────────────────────────────────────
	// The bearer token rides on the request context, put there by the
	// session middleware after restoration.
	client := gateway.NewClient(cfg.BackendBaseURL, session.TokenFromContext, log)
	authAPI := gateway.NewAuthAPI(client)
	feedbackAPI := gateway.NewFeedbackAPI(client)
	featureAPI := gateway.NewFeatureAPI(client)
	configurationAPI := gateway.NewConfigurationAPI(client)
	optionsLoader := gateway.NewFormOptionsLoader(configurationAPI, featureAPI)

	// ── 5. Health Handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckState: checkState,
		CheckBackend: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), constants.BackendRequestTimeout)
			defer cancel()
			return client.Health(ctx)
		},
	}, log)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	flashes := nav.NewFlashes(repository, log)
	registry := otp.NewRegistry(rootCtx, log, nil)

	accountHandler := session.NewHandler(store, authAPI,
		func(sid, email string) { registry.Begin(sid, email) },
		func(ctx context.Context, sid, text string) {
			flashes.Set(ctx, sid, nav.Message{Text: text, Type: nav.TypeSuccess})
		},
	)

	handlers := api.Handlers{
		Liveness:      liveness,
		Readiness:     readiness,
		Account:       accountHandler,
		Verification:  otp.NewHandler(registry, authAPI, flashes),
		Navigation:    nav.NewHandler(flashes),
		Feedback:      feedback.NewHandler(feedbackAPI),
		Feature:       feature.NewHandler(featureAPI),
		Configuration: configuration.NewHandler(configurationAPI, optionsLoader),
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, store, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

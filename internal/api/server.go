// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/web are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ManileeDev/clientpulse/internal/configuration"
	"github.com/ManileeDev/clientpulse/internal/feature"
	"github.com/ManileeDev/clientpulse/internal/feedback"
	"github.com/ManileeDev/clientpulse/internal/nav"
	"github.com/ManileeDev/clientpulse/internal/otp"
	"github.com/ManileeDev/clientpulse/internal/platform/config"
	"github.com/ManileeDev/clientpulse/internal/platform/constants"
	"github.com/ManileeDev/clientpulse/internal/platform/middleware"
	"github.com/ManileeDev/clientpulse/internal/session"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Account handles the session lifecycle (register, login, role, theme).
	Account *session.Handler

	// Verification handles the OTP challenge flow.
	Verification *otp.Handler

	// Navigation serves route sets and one-shot flash messages.
	Navigation *nav.Handler

	// Feedback serves the feedback surface and analytics.
	Feedback *feedback.Handler

	// Feature serves the feature catalogue.
	Feature *feature.Handler

	// Configuration serves reference data and form options.
	Configuration *configuration.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. The session middleware sits after rate
// limiting so every handler below it sees a restored session.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, store *session.Store, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(session.Middleware(store))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/account", h.Account.Routes())
		api.Mount("/verify-otp", h.Verification.Routes())
		api.Mount("/feedbacks", h.Feedback.Routes())
		api.Mount("/features", h.Feature.Routes())
		api.Mount("/configurations", h.Configuration.Routes())
		api.Mount("/", h.Navigation.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}

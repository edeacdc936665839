// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

// Package nav decides which routes a browser session may reach and
// carries one-shot navigation messages between requests.
package nav

import (
	"net/http"

	"github.com/ManileeDev/clientpulse/internal/platform/apperr"
	"github.com/ManileeDev/clientpulse/internal/platform/respond"
	"github.com/ManileeDev/clientpulse/internal/platform/sec"
	"github.com/ManileeDev/clientpulse/internal/session"

	"github.com/go-chi/chi/v5"
)

// # Types

// Link is a single navigable route offered to the current session.
type Link struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// Menu is the full routing surface for one session snapshot.
type Menu struct {
	Role      string `json:"role"`
	HomeRoute string `json:"homeRoute"`
	Links     []Link `json:"links"`
}

// # Route Sets

/*
Links computes the route set for a session snapshot.

Clients browse the public feedback surface and, once authenticated,
their own submissions. Developers get the triage dashboard instead of
the public home. The switch is exhaustive over the role enum; an
invalid role falls back to the client surface.

Parameters:
  - snapshot: the restored browser session.

Returns:
  - Menu: role, home route and ordered link list.
*/
func Links(snapshot session.Session) Menu {
	menu := Menu{
		Role:      string(snapshot.Role),
		HomeRoute: snapshot.Role.DefaultRoute(),
	}

	switch snapshot.Role {
	case sec.RoleDeveloper:
		menu.Links = []Link{
			{Path: "/dashboard", Label: "Dashboard"},
			{Path: "/features", Label: "Features"},
			{Path: "/analytics", Label: "Analytics"},
		}
	case sec.RoleClient:
		fallthrough
	default:
		menu.Links = []Link{
			{Path: "/", Label: "Home"},
			{Path: "/features", Label: "Features"},
			{Path: "/analytics", Label: "Analytics"},
		}
		if snapshot.Authenticated() {
			menu.Links = append(menu.Links, Link{Path: "/my-feedbacks", Label: "My Feedbacks"})
		}
	}

	return menu
}

// # Guards

// RequireAuthenticated rejects requests whose session carries no user.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		snapshot := session.FromContext(request.Context())
		if !snapshot.Authenticated() {
			respond.Error(writer, request, apperr.Unauthorized("please log in to continue"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole rejects sessions whose role differs from the required one.
// Authentication is implied: an anonymous session never holds a
// privileged route.
func RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			snapshot := session.FromContext(request.Context())
			if !snapshot.Authenticated() {
				respond.Error(writer, request, apperr.Unauthorized("please log in to continue"))
				return
			}
			if snapshot.Role != role {
				respond.Error(writer, request, apperr.Forbidden("this area is not available for your role"))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// # HTTP Handler

// Handler exposes the navigation surface.
type Handler struct {
	flashes *Flashes
}

func NewHandler(flashes *Flashes) *Handler {
	return &Handler{flashes: flashes}
}

// Routes wires the navigation endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/nav", handler.Menu)
	router.Get("/flash", handler.Flash)
	return router
}

// Menu handles GET /nav.
func (handler *Handler) Menu(writer http.ResponseWriter, request *http.Request) {
	snapshot := session.FromContext(request.Context())
	respond.OK(writer, Links(snapshot))
}

// Flash handles GET /flash. The message is consumed on read: a second
// call returns null until something sets a new one.
func (handler *Handler) Flash(writer http.ResponseWriter, request *http.Request) {
	sid := session.IDFromContext(request.Context())

	message, ok := handler.flashes.Consume(request.Context(), sid)
	if !ok {
		respond.OK(writer, flashEnvelope{})
		return
	}

	respond.OK(writer, flashEnvelope{
		Message:                 &message,
		DismissAfterSeconds:     secondsOf(message.dismissAfter()),
		LoginPromptDelaySeconds: secondsOf(message.loginPromptDelay()),
	})
}

type flashEnvelope struct {
	Message                 *Message `json:"message"`
	DismissAfterSeconds     int      `json:"dismissAfterSeconds,omitempty"`
	LoginPromptDelaySeconds int      `json:"loginPromptDelaySeconds,omitempty"`
}

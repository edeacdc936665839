// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

/*
Package session implements the browser session store — the single source of
truth for "who is using the app and how."

Each browser context is identified by the cp_sid cookie and owns one
[Session]: the authenticated user (if any), the active role, the bearer
token, and the theme. State persists in a key-value repository so it
survives reloads and service restarts; corrupt persisted state is silently
discarded and the session falls back to unauthenticated defaults.

Architecture:

  - Store: Orchestrates the five mutations (Restore, Login, Logout, SetRole,
    ToggleTheme) and notifies subscribers on every change.
  - StateRepository: Abstracted key-value persistence (Redis or in-memory).
  - Middleware: Issues the session cookie and loads the snapshot into the
    request context.

Mutations happen only through the named operations; nothing else writes
session state.
*/
package session

import (
	"context"

	"github.com/ManileeDev/clientpulse/internal/gateway"
	"github.com/ManileeDev/clientpulse/internal/platform/ctxkey"
	"github.com/ManileeDev/clientpulse/internal/platform/sec"
)

// # Themes

// Theme is the presentation theme persisted per browser.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a persisted string onto the theme set; anything else
// falls back to the light default.
func ParseTheme(value string) Theme {
	if Theme(value) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// # Session Snapshot

// Session is the state of one browser context.
//
// # Invariants
//
//   - Role is always defined, defaulting to client when unauthenticated.
//   - Token is present if and only if User is present.
type Session struct {
	User  *gateway.User `json:"user"`
	Role  sec.Role      `json:"role"`
	Token string        `json:"-"`
	Theme Theme         `json:"theme"`
}

// Anonymous returns the default session: no user, client role, light theme.
func Anonymous() Session {
	return Session{Role: sec.RoleClient, Theme: ThemeLight}
}

// Authenticated reports whether a user is signed in.
func (s Session) Authenticated() bool {
	return s.User != nil
}

// persistedUser is the JSON shape written to the state repository: the full
// user payload with the bearer token folded in, exactly as delivered at login.
type persistedUser struct {
	gateway.User
	Token string `json:"token"`
}

// # Context Plumbing
// The browser-session middleware loads the snapshot once per request; these
// helpers are how downstream layers (handlers, gateway token lookup) see it.

// WithContext attaches a session ID and snapshot to the context.
func WithContext(ctx context.Context, sid string, snapshot Session) context.Context {
	ctx = context.WithValue(ctx, ctxkey.KeySessionID, sid)
	return context.WithValue(ctx, ctxkey.KeySession, snapshot)
}

// FromContext retrieves the session snapshot loaded by the middleware.
// Returns the anonymous session if none was loaded.
func FromContext(ctx context.Context) Session {
	snapshot, ok := ctx.Value(ctxkey.KeySession).(Session)
	if !ok {
		return Anonymous()
	}
	return snapshot
}

// IDFromContext retrieves the browser session identifier.
func IDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(ctxkey.KeySessionID).(string)
	return sid
}

// TokenFromContext resolves the bearer token of the calling session.
// This is the [gateway.TokenFunc] implementation wired in at startup.
func TokenFromContext(ctx context.Context) string {
	return FromContext(ctx).Token
}

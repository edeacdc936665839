// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ManileeDev/clientpulse/internal/gateway"
	"github.com/ManileeDev/clientpulse/internal/platform/apperr"
	"github.com/ManileeDev/clientpulse/internal/platform/constants"
	"github.com/ManileeDev/clientpulse/internal/platform/sec"
)

// # Change Notification

// Change describes one session mutation delivered to subscribers.
type Change struct {
	SessionID string
	Session   Session
}

// # Store

// Store orchestrates all browser session state.
//
// # Failure Semantics
//
// Repository read/write failures are logged and treated as "no persisted
// state": the browser keeps working unauthenticated rather than seeing a
// blocking error.
type Store struct {
	repository StateRepository
	log        *slog.Logger
	now        func() time.Time

	mu        sync.Mutex
	listeners map[int]func(Change)
	nextID    int
}

// NewStore constructs a [Store] over the given repository.
func NewStore(repository StateRepository, logger *slog.Logger) *Store {
	return &Store{
		repository: repository,
		log:        logger,
		now:        time.Now,
		listeners:  make(map[int]func(Change)),
	}
}

// Subscribe registers a callback invoked after every mutation.
// The returned function unsubscribes.
func (store *Store) Subscribe(listener func(Change)) func() {
	store.mu.Lock()
	defer store.mu.Unlock()

	id := store.nextID
	store.nextID++
	store.listeners[id] = listener

	return func() {
		store.mu.Lock()
		defer store.mu.Unlock()
		delete(store.listeners, id)
	}
}

// notify fans a mutation out to all subscribers.
func (store *Store) notify(sid string, snapshot Session) {
	store.mu.Lock()
	callbacks := make([]func(Change), 0, len(store.listeners))
	for _, listener := range store.listeners {
		callbacks = append(callbacks, listener)
	}
	store.mu.Unlock()

	for _, callback := range callbacks {
		callback(Change{SessionID: sid, Session: snapshot})
	}
}

// # Restoration

/*
Restore loads the persisted session and theme for a browser.

Description: Best-effort by contract — malformed persisted user data (parse
failure, missing token, or a bearer JWT whose expiry has passed) is discarded
and the browser continues unauthenticated. No error ever reaches the user.

Parameters:
  - ctx: context.Context
  - sid: Browser session identifier

Returns:
  - Session: Restored or anonymous snapshot (never an error)
*/
func (store *Store) Restore(ctx context.Context, sid string) Session {
	snapshot := Anonymous()

	// Theme first: it applies even to anonymous browsers.
	if raw, err := store.repository.Get(ctx, themeKey(sid)); err == nil {
		snapshot.Theme = ParseTheme(raw)
	} else if !errors.Is(err, ErrNoValue) {
		store.log.WarnContext(ctx, "session_theme_read_failed", slog.Any("error", err))
	}

	raw, err := store.repository.Get(ctx, userKey(sid))
	if err != nil {
		if !errors.Is(err, ErrNoValue) {
			store.log.WarnContext(ctx, "session_user_read_failed", slog.Any("error", err))
		}
		// Anonymous browsers keep their chosen browsing role.
		if raw, err := store.repository.Get(ctx, roleKey(sid)); err == nil {
			if role, ok := sec.ParseRole(raw); ok {
				snapshot.Role = role
			}
		}
		return snapshot
	}

	var persisted persistedUser
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		store.log.WarnContext(ctx, "session_payload_corrupt_discarded", slog.Any("error", err))
		store.discard(ctx, sid)
		return snapshot
	}

	// Token presence is part of the session invariant.
	if persisted.Token == "" || persisted.User.ID == "" {
		store.log.WarnContext(ctx, "session_payload_incomplete_discarded")
		store.discard(ctx, sid)
		return snapshot
	}

	// A JWT past its expiry will only bounce at the backend; drop it now.
	if sec.TokenExpired(persisted.Token, store.now()) {
		store.log.InfoContext(ctx, "session_token_expired_discarded")
		store.discard(ctx, sid)
		return snapshot
	}

	user := persisted.User
	snapshot.User = &user
	snapshot.Role = roleOf(user.Role)
	snapshot.Token = persisted.Token
	return snapshot
}

// discard removes a broken persisted payload; failures are only logged.
func (store *Store) discard(ctx context.Context, sid string) {
	if err := store.repository.Delete(ctx, userKey(sid)); err != nil {
		store.log.WarnContext(ctx, "session_discard_failed", slog.Any("error", err))
	}
}

// # Mutations

/*
Login establishes an authenticated session from a backend login payload.

Description: Sets user and role, persists the full payload (token included)
for restoration, and reports the role's landing route.

Parameters:
  - ctx: context.Context
  - sid: Browser session identifier
  - user: Backend user payload
  - token: Opaque bearer credential

Returns:
  - Session: Fresh snapshot
  - string: Redirect target (client → feedback home, any other role → dashboard)
*/
func (store *Store) Login(ctx context.Context, sid string, user gateway.User, token string) (Session, string) {
	snapshot := store.Restore(ctx, sid)
	snapshot.User = &user
	snapshot.Role = roleOf(user.Role)
	snapshot.Token = token

	raw, err := json.Marshal(persistedUser{User: user, Token: token})
	if err == nil {
		err = store.repository.Set(ctx, userKey(sid), string(raw))
	}
	if err != nil {
		// Login still succeeds for this visit; only restoration is lost.
		store.log.WarnContext(ctx, "session_persist_failed", slog.Any("error", err))
	}

	store.notify(sid, snapshot)
	return snapshot, snapshot.Role.DefaultRoute()
}

/*
Logout clears the authenticated user.

Description: Resets the role to client, removes the persisted payload, and
reports the feedback home as the redirect target. The theme survives.
*/
func (store *Store) Logout(ctx context.Context, sid string) (Session, string) {
	snapshot := store.Restore(ctx, sid)
	snapshot.User = nil
	snapshot.Token = ""
	snapshot.Role = sec.RoleClient

	store.discard(ctx, sid)
	if err := store.repository.Delete(ctx, roleKey(sid)); err != nil {
		store.log.WarnContext(ctx, "session_role_reset_failed", slog.Any("error", err))
	}
	store.notify(sid, snapshot)
	return snapshot, sec.RoleClient.DefaultRoute()
}

/*
SetRole switches the browsing role.

Description: Allowed only when unauthenticated, or when the signed-in user
already holds the requested role — a user can never browse as a role they
don't have.

Returns:
  - Session: Snapshot (unchanged on rejection)
  - string: Redirect target for the requested role
  - error: apperr.Forbidden when the rule rejects the switch
*/
func (store *Store) SetRole(ctx context.Context, sid string, role sec.Role) (Session, string, error) {
	snapshot := store.Restore(ctx, sid)

	if snapshot.User != nil && roleOf(snapshot.User.Role) != role {
		return snapshot, "", apperr.Forbidden("You don't have access to that role")
	}

	snapshot.Role = role
	if err := store.repository.Set(ctx, roleKey(sid), string(role)); err != nil {
		store.log.WarnContext(ctx, "session_role_persist_failed", slog.Any("error", err))
	}

	store.notify(sid, snapshot)
	return snapshot, role.DefaultRoute(), nil
}

/*
ToggleTheme flips between light and dark and persists the choice.
*/
func (store *Store) ToggleTheme(ctx context.Context, sid string) Session {
	snapshot := store.Restore(ctx, sid)
	snapshot.Theme = snapshot.Theme.Toggle()

	if err := store.repository.Set(ctx, themeKey(sid), string(snapshot.Theme)); err != nil {
		store.log.WarnContext(ctx, "session_theme_persist_failed", slog.Any("error", err))
	}

	store.notify(sid, snapshot)
	return snapshot
}

// # Helpers

// roleOf maps a backend role string onto the closed enum. Per the login
// contract, every non-client payload lands on the developer side.
func roleOf(value string) sec.Role {
	if role, ok := sec.ParseRole(value); ok {
		return role
	}
	return sec.RoleDeveloper
}

func userKey(sid string) string {
	return fmt.Sprintf(constants.StateKeyUser, sid)
}

func roleKey(sid string) string {
	return fmt.Sprintf(constants.StateKeyRole, sid)
}

func themeKey(sid string) string {
	return fmt.Sprintf(constants.StateKeyTheme, sid)
}

// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package otp

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ManileeDev/clientpulse/internal/platform/constants"
)

// # Challenge Registry

// Registry holds at most one live challenge per browser session. A
// background janitor reaps challenges abandoned past their lifetime.
type Registry struct {
	mu         sync.Mutex
	challenges map[string]*Challenge
	log        *slog.Logger
	now        func() time.Time
}

/*
NewRegistry creates the challenge registry and starts its janitor.

Parameters:
  - ctx: cancelling this context stops the janitor goroutine.
  - logger: structured logger for sweep diagnostics.
  - clock: time source for cooldowns and expiry; nil means [time.Now].

Returns:
  - *Registry: ready for use.
*/
func NewRegistry(ctx context.Context, logger *slog.Logger, clock func() time.Time) *Registry {
	if clock == nil {
		clock = time.Now
	}

	registry := &Registry{
		challenges: make(map[string]*Challenge),
		log:        logger.With(slog.String("component", "otp_registry")),
		now:        clock,
	}

	go registry.sweep(ctx)

	return registry
}

// Begin replaces any existing challenge for the session with a fresh
// one for the given email.
func (registry *Registry) Begin(sid, email string) *Challenge {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	challenge := NewChallenge(email, registry.now)
	registry.challenges[sid] = challenge
	return challenge
}

// Get returns the live challenge for the session, if any. Expired
// challenges are dropped on access. Access through the returned
// pointer is not serialized; request handlers go through [Registry.Do].
func (registry *Registry) Get(sid string) (*Challenge, bool) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	challenge, ok := registry.challenges[sid]
	if !ok {
		return nil, false
	}
	if challenge.Expired() {
		delete(registry.challenges, sid)
		return nil, false
	}
	return challenge, true
}

// End discards the session's challenge after verification completes.
func (registry *Registry) End(sid string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	delete(registry.challenges, sid)
}

// Do runs fn while holding the registry lock, serializing mutations of
// the session's challenge against concurrent requests.
func (registry *Registry) Do(sid string, fn func(*Challenge)) bool {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	challenge, ok := registry.challenges[sid]
	if !ok || challenge.Expired() {
		delete(registry.challenges, sid)
		return false
	}
	fn(challenge)
	return true
}

// sweep periodically drops expired challenges until ctx is cancelled.
func (registry *Registry) sweep(ctx context.Context) {
	ticker := time.NewTicker(constants.ChallengeSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			registry.mu.Lock()
			swept := 0
			for sid, challenge := range registry.challenges {
				if challenge.Expired() {
					delete(registry.challenges, sid)
					swept++
				}
			}
			registry.mu.Unlock()

			if swept > 0 {
				registry.log.Debug("expired_challenges_swept", slog.Int("count", swept))
			}
		}
	}
}

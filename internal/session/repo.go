// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package session

import "context"

// # Persistence Contract

// StateRepository is the key-value persistence contract for browser state.
//
// It deliberately mirrors the shape of web Storage: opaque string keys,
// string values, best-effort semantics. Implementations exist for Redis
// (production) and in-process memory (development, tests).
type StateRepository interface {
	// Get returns the value at key, or [ErrNoValue] if absent/expired.
	Get(ctx context.Context, key string) (string, error)

	// Set writes the value at key. A TTL configured on the repository
	// bounds how long idle state survives.
	Set(ctx context.Context, key, value string) error

	// Delete removes the value at key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// GetDel atomically reads and removes the value at key — the primitive
	// behind consume-once flash messages. Returns [ErrNoValue] if absent.
	GetDel(ctx context.Context, key string) (string, error)
}

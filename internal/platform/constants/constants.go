// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

/*
Package constants provides centralized, immutable values for the entire service.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Browser State: Cookie configuration and state-repository key taxonomy.
  - Verification: OTP challenge shape and resend cadence.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "clientpulse-web"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// BackendRequestTimeout bounds a single call to the Pulse backend.
	BackendRequestTimeout = 15 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Browser State

const (
	// SessionCookieName identifies the browser context across requests.
	SessionCookieName = "cp_sid"

	// SessionCookiePath scopes the session cookie to the whole site.
	SessionCookiePath = "/"
)

// # Verification Flow

const (
	// OTPLength is the number of digit slots in a verification code.
	OTPLength = 4

	// ResendCooldown is the wait imposed between OTP resend requests.
	ResendCooldown = 60 * time.Second

	// ChallengeTTL is how long an abandoned verification challenge survives.
	ChallengeTTL = 15 * time.Minute

	// ChallengeSweepInterval is how often expired challenges are reaped.
	ChallengeSweepInterval = 1 * time.Minute
)

// # Client Timings
// Fixed presentation timings the thin view layer applies; delivered alongside
// the payloads that need them so the numbers live in exactly one place.

const (
	// ToastDismissAfter is how long a transient notification stays visible.
	ToastDismissAfter = 5 * time.Second

	// LoginPromptDelay is the pause before a flash-triggered login prompt opens.
	LoginPromptDelay = 1 * time.Second

	// VerifiedRedirectDelay is the pause between OTP success and the home redirect.
	VerifiedRedirectDelay = 2 * time.Second
)

// # Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # State Repository Prefixes (Key Taxonomy)

const (
	StateKeyUser  = "session:%s:user"
	StateKeyRole  = "session:%s:role"
	StateKeyTheme = "session:%s:theme"
	StateKeyFlash = "session:%s:flash"
)

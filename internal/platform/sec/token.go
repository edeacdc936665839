// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

// Package sec provides identity primitives for the session layer.
//
// # Architecture
//
// This service never issues or verifies credentials — the Pulse backend owns
// authentication. What lives here is the closed role enum and best-effort
// inspection of the opaque bearer token the backend hands out.
package sec

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenParser never verifies signatures: the signing key belongs to the
// backend. Claims are read purely to decide whether a restored token is
// already past its expiry.
var tokenParser = jwt.NewParser()

// TokenExpiry inspects a stored bearer token and reports its expiry time.
//
// # Behavior
//
//   - Token is a JWT with an exp claim: returns (expiry, true).
//   - Token is opaque or carries no exp claim: returns (zero, false) —
//     the caller must treat it as non-expiring and let the backend decide.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := tokenParser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}

	return expiry.Time, true
}

// TokenExpired reports whether a stored bearer token is a JWT whose expiry
// has already passed. Opaque tokens are never considered expired here.
func TokenExpired(token string, now time.Time) bool {
	expiry, ok := TokenExpiry(token)
	return ok && now.After(expiry)
}

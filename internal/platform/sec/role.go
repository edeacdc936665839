// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package sec

// # User Roles

// Role represents the access-level variant of a browser session.
//
// The set is closed: every dispatch on Role is an exhaustive switch over
// the two variants rather than an open-ended string comparison.
type Role string

const (
	// Submits and browses feedback; the default for unauthenticated sessions
	RoleClient Role = "client"

	// Manages feature records and works from the dashboard
	RoleDeveloper Role = "developer"
)

// ParseRole maps a string onto the closed role set.
// Anything outside the set is rejected; callers decide whether that means
// "default to client" (restore) or "validation error" (registration input).
func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleClient:
		return RoleClient, true
	case RoleDeveloper:
		return RoleDeveloper, true
	default:
		return "", false
	}
}

// Valid reports whether the role is one of the two known variants.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// # Default Routes

// DefaultRoute returns the landing route for a role: the feedback home for
// clients, the dashboard for developers.
func (r Role) DefaultRoute() string {
	switch r {
	case RoleDeveloper:
		return "/dashboard"
	case RoleClient:
		return "/"
	default:
		// Unknown roles never survive ParseRole; treat as the client home.
		return "/"
	}
}

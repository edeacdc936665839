// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package session

import (
	"net/http"

	"github.com/ManileeDev/clientpulse/internal/platform/constants"
	"github.com/ManileeDev/clientpulse/pkg/uuid"
)

// # Browser Session Middleware

// Middleware identifies the calling browser and loads its session.
//
// # Flow
//  1. Read the cp_sid cookie; mint a fresh UUIDv7 identifier if absent.
//  2. Restore the persisted session snapshot (best-effort, never fails).
//  3. Inject identifier and snapshot into the request context.
//
// Every request downstream of this middleware can rely on
// [FromContext] and [IDFromContext].
func Middleware(store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			sid := ""
			if cookie, err := request.Cookie(constants.SessionCookieName); err == nil {
				sid = cookie.Value
			}

			// First visit: issue the identifier cookie.
			if sid == "" {
				sid = uuid.New()
				http.SetCookie(writer, &http.Cookie{
					Name:     constants.SessionCookieName,
					Value:    sid,
					Path:     constants.SessionCookiePath,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			snapshot := store.Restore(request.Context(), sid)
			ctx := WithContext(request.Context(), sid, snapshot)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

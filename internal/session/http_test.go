// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package session_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManileeDev/clientpulse/internal/gateway"
	"github.com/ManileeDev/clientpulse/internal/session"
)

// accountHarness wires the account handler against a scripted backend,
// recording the hook invocations main would wire to the OTP registry
// and the flash store.
type accountHarness struct {
	handler    http.Handler
	store      *session.Store
	challenges []string
	flashed    []string
	sid        string
}

func newAccountHarness(t *testing.T, backend http.HandlerFunc) *accountHarness {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := session.NewStore(session.NewMemoryStateRepository(), logger)
	client := gateway.NewClient(server.URL, session.TokenFromContext, logger)

	harness := &accountHarness{store: store, sid: "sid-1"}
	harness.handler = session.NewHandler(store, gateway.NewAuthAPI(client),
		func(sid, email string) { harness.challenges = append(harness.challenges, email) },
		func(ctx context.Context, sid, text string) { harness.flashed = append(harness.flashed, text) },
	).Routes()

	return harness
}

func (harness *accountHarness) do(method, target, body string) *httptest.ResponseRecorder {
	var payload io.Reader
	if body != "" {
		payload = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, target, payload)

	snapshot := harness.store.Restore(request.Context(), harness.sid)
	request = request.WithContext(session.WithContext(request.Context(), harness.sid, snapshot))

	recorder := httptest.NewRecorder()
	harness.handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestAccountHTTP_RegisterOpensChallenge verifies that a signup whose code was
emailed routes the browser into the verification flow.
*/
func TestAccountHTTP_RegisterOpensChallenge(t *testing.T) {
	harness := newAccountHarness(t, func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/signup", request.URL.Path)
		writer.Write([]byte(`{"success":true,"otpSent":true,"message":"OTP sent to your email"}`))
	})

	recorder := harness.do(http.MethodPost, "/register",
		`{"fullname":"Manilee","email":"manilee@example.com","password":"long-enough-pw","role":"client"}`)

	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), `"verifyRoute":"/verify-otp"`)
	assert.Equal(t, []string{"manilee@example.com"}, harness.challenges)
}

/*
TestAccountHTTP_RegisterValidation verifies that invalid payloads are
rejected locally, before any backend call.
*/
func TestAccountHTTP_RegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short_password", `{"fullname":"Manilee","email":"manilee@example.com","password":"short","role":"client"}`},
		{"bad_email", `{"fullname":"Manilee","email":"nope","password":"long-enough-pw","role":"client"}`},
		{"bad_role", `{"fullname":"Manilee","email":"manilee@example.com","password":"long-enough-pw","role":"admin"}`},
		{"malformed_json", `{"fullname":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			harness := newAccountHarness(t, func(http.ResponseWriter, *http.Request) {
				t.Error("backend must not be called for invalid input")
			})

			recorder := harness.do(http.MethodPost, "/register", tt.body)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Empty(t, harness.challenges)
		})
	}
}

/*
TestAccountHTTP_LoginInstallsSession verifies the login path: session
installed, role-specific redirect answered, success flash queued.
*/
func TestAccountHTTP_LoginInstallsSession(t *testing.T) {
	harness := newAccountHarness(t, func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/login", request.URL.Path)
		writer.Write([]byte(`{
			"success": true,
			"user": {"_id":"user-1","name":"Manilee","email":"manilee@example.com","role":"developer"},
			"token": "opaque-token",
			"message": "Logged In Successfully"
		}`))
	})

	recorder := harness.do(http.MethodPost, "/login",
		`{"email":"manilee@example.com","password":"long-enough-pw"}`)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var result struct {
		Data struct {
			Redirect string `json:"redirect"`
			Role     string `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
	assert.Equal(t, "/dashboard", result.Data.Redirect)
	assert.Equal(t, "developer", result.Data.Role)

	assert.Equal(t, []string{"Logged in successfully!"}, harness.flashed)

	// The session store now restores the authenticated user.
	restored := harness.store.Restore(context.Background(), harness.sid)
	require.True(t, restored.Authenticated())
	assert.Equal(t, "opaque-token", restored.Token)
}

/*
TestAccountHTTP_LoginRejection verifies that bad credentials surface the
backend message and leave the session anonymous.
*/
func TestAccountHTTP_LoginRejection(t *testing.T) {
	harness := newAccountHarness(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		writer.Write([]byte(`{"success":false,"message":"Invalid Credentials"}`))
	})

	recorder := harness.do(http.MethodPost, "/login",
		`{"email":"manilee@example.com","password":"wrong-password"}`)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid Credentials")
	assert.False(t, harness.store.Restore(context.Background(), harness.sid).Authenticated())
	assert.Empty(t, harness.flashed)
}

/*
TestAccountHTTP_LogoutAndTheme verifies the remaining session endpoints end
to end.
*/
func TestAccountHTTP_LogoutAndTheme(t *testing.T) {
	harness := newAccountHarness(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte(`{
			"success": true,
			"user": {"_id":"user-1","name":"Manilee","email":"manilee@example.com","role":"client"},
			"token": "opaque-token"
		}`))
	})

	harness.do(http.MethodPost, "/login", `{"email":"manilee@example.com","password":"long-enough-pw"}`)

	recorder := harness.do(http.MethodPost, "/theme", "")
	assert.Contains(t, recorder.Body.String(), `"theme":"dark"`)

	recorder = harness.do(http.MethodPost, "/logout", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"redirect":"/"`)

	// Theme survives logout, the user does not.
	restored := harness.store.Restore(context.Background(), harness.sid)
	assert.False(t, restored.Authenticated())
	assert.Equal(t, session.ThemeDark, restored.Theme)
}

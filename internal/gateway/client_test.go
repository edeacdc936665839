// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package gateway_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManileeDev/clientpulse/internal/gateway"
	"github.com/ManileeDev/clientpulse/internal/platform/apperr"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestClient_BearerAttachment verifies that the per-call token resolver drives
the Authorization header: present when the session holds a token, absent
otherwise.
*/
func TestClient_BearerAttachment(t *testing.T) {
	var seenAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seenAuth = request.Header.Get("Authorization")
		writer.Write([]byte(`{"success":true}`))
	}))
	defer backend.Close()

	token := ""
	client := gateway.NewClient(backend.URL, func(context.Context) string { return token }, discardLogger())

	require.NoError(t, client.Health(context.Background()))
	assert.Empty(t, seenAuth)

	token = "opaque-token"
	require.NoError(t, client.Health(context.Background()))
	assert.Equal(t, "Bearer opaque-token", seenAuth)
}

/*
TestClient_UpstreamRejection verifies that a structured backend rejection
surfaces its message verbatim with the backend's status code.
*/
func TestClient_UpstreamRejection(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		writer.Write([]byte(`{"success":false,"message":"Invalid Credentials"}`))
	}))
	defer backend.Close()

	client := gateway.NewClient(backend.URL, nil, discardLogger())
	auth := gateway.NewAuthAPI(client)

	_, err := auth.Login(context.Background(), gateway.Credentials{Email: "a@b.com", Password: "wrong"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UPSTREAM_REJECTED", ae.Code)
	assert.Equal(t, "Invalid Credentials", ae.Message)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

/*
TestClient_RejectionWithoutMessage verifies the generic fallback when the
backend rejects without a usable message.
*/
func TestClient_RejectionWithoutMessage(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
		writer.Write([]byte(`<html>gateway timeout</html>`))
	}))
	defer backend.Close()

	client := gateway.NewClient(backend.URL, nil, discardLogger())

	err := client.Health(context.Background())
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Something went wrong", ae.Message)
}

/*
TestClient_TransportFailure verifies that an unreachable backend collapses to
the single generic BadGateway error, never a raw transport message.
*/
func TestClient_TransportFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	backend.Close() // deliberately dead

	client := gateway.NewClient(backend.URL, nil, discardLogger())

	err := client.Health(context.Background())
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "BACKEND_UNREACHABLE", ae.Code)
	assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)
	assert.NotContains(t, ae.Message, "connection refused")
}

/*
TestAuthAPI_ValidateOTP verifies the numeric conversion the backend expects.
*/
func TestAuthAPI_ValidateOTP(t *testing.T) {
	var seenBody string
	backend := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		raw, _ := io.ReadAll(request.Body)
		seenBody = string(raw)
		writer.Write([]byte(`{"success":true,"message":"OTP verified"}`))
	}))
	defer backend.Close()

	client := gateway.NewClient(backend.URL, nil, discardLogger())
	auth := gateway.NewAuthAPI(client)

	result, err := auth.ValidateOTP(context.Background(), "manilee@example.com", "0417")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.JSONEq(t, `{"email":"manilee@example.com","otp":417}`, seenBody)

	_, err = auth.ValidateOTP(context.Background(), "manilee@example.com", "12x4")
	assert.Error(t, err)
}

/*
TestResentOK covers both backend conventions for a successful resend.
*/
func TestResentOK(t *testing.T) {
	tests := []struct {
		name   string
		result *gateway.StatusResult
		want   bool
	}{
		{"success_flag", &gateway.StatusResult{Success: true}, true},
		{"legacy_message", &gateway.StatusResult{Message: "OTP has been generated"}, true},
		{"plain_failure", &gateway.StatusResult{Message: "User not found"}, false},
		{"nil_result", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gateway.ResentOK(tt.result))
		})
	}
}

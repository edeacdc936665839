// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package api_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManileeDev/clientpulse/internal/api"
)

func probeReadiness(t *testing.T, deps api.HealthDependencies) *httptest.ResponseRecorder {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, readiness := api.NewHealthHandlers(deps, logger)

	recorder := httptest.NewRecorder()
	readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	return recorder
}

/*
TestReadiness_AllDependenciesHealthy verifies the happy 200 "ready" answer.
*/
func TestReadiness_AllDependenciesHealthy(t *testing.T) {
	recorder := probeReadiness(t, api.HealthDependencies{
		CheckState:   func() error { return nil },
		CheckBackend: func() error { return nil },
	})

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"ready"`)
}

/*
TestReadiness_Degraded verifies that a failing dependency turns the probe
into a single 503 response naming the broken check.
*/
func TestReadiness_Degraded(t *testing.T) {
	recorder := probeReadiness(t, api.HealthDependencies{
		CheckState:   func() error { return nil },
		CheckBackend: func() error { return errors.New("connect timeout") },
	})

	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))

	var envelope struct {
		Data struct {
			Status string `json:"status"`
			Checks []struct {
				Name  string `json:"name"`
				IsOK  bool   `json:"ok"`
				Error string `json:"error"`
			} `json:"checks"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	assert.Equal(t, "degraded", envelope.Data.Status)
	require.Len(t, envelope.Data.Checks, 2)
	assert.True(t, envelope.Data.Checks[0].IsOK)
	assert.False(t, envelope.Data.Checks[1].IsOK)
	assert.Equal(t, "connect timeout", envelope.Data.Checks[1].Error)
}

// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package otp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManileeDev/clientpulse/internal/gateway"
	"github.com/ManileeDev/clientpulse/internal/nav"
	"github.com/ManileeDev/clientpulse/internal/otp"
	"github.com/ManileeDev/clientpulse/internal/session"
)

// verifyHarness wires the handler against a scripted backend and one
// browser session.
type verifyHarness struct {
	handler  http.Handler
	registry *otp.Registry
	flashes  *nav.Flashes
	clock    *fakeClock
	sid      string
}

func newVerifyHarness(t *testing.T, backend http.HandlerFunc) *verifyHarness {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := gateway.NewClient(server.URL, nil, logger)
	flashes := nav.NewFlashes(session.NewMemoryStateRepository(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	clock := &fakeClock{current: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	registry := otp.NewRegistry(ctx, logger, clock.now)

	return &verifyHarness{
		handler:  otp.NewHandler(registry, gateway.NewAuthAPI(client), flashes).Routes(),
		registry: registry,
		flashes:  flashes,
		clock:    clock,
		sid:      "sid-1",
	}
}

// do issues a request as the harness browser session.
func (harness *verifyHarness) do(method, target, body string) *httptest.ResponseRecorder {
	var payload io.Reader
	if body != "" {
		payload = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, target, payload)
	request = request.WithContext(session.WithContext(request.Context(), harness.sid, session.Anonymous()))

	recorder := httptest.NewRecorder()
	harness.handler.ServeHTTP(recorder, request)
	return recorder
}

func (harness *verifyHarness) typeCode(t *testing.T, code string) {
	t.Helper()
	for index, digit := range strings.Split(code, "") {
		body := fmt.Sprintf(`{"index":%d,"value":%q}`, index, digit)
		recorder := harness.do(http.MethodPost, "/input", body)
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	}
}

/*
TestVerifyHTTP_NoChallengeRedirects verifies that a browser with nothing to
verify is pointed back home.
*/
func TestVerifyHTTP_NoChallengeRedirects(t *testing.T) {
	harness := newVerifyHarness(t, func(http.ResponseWriter, *http.Request) {})

	recorder := harness.do(http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"redirect":"/"`)
}

/*
TestVerifyHTTP_SubmitSuccess walks the full happy path: type four digits,
submit, get the delayed home redirect and the login-prompting flash.
*/
func TestVerifyHTTP_SubmitSuccess(t *testing.T) {
	harness := newVerifyHarness(t, func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/validate-otp", request.URL.Path)
		writer.Write([]byte(`{"success":true,"message":"OTP verified"}`))
	})
	harness.registry.Begin(harness.sid, "manilee@example.com")

	harness.typeCode(t, "4217")

	recorder := harness.do(http.MethodPost, "/submit", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data struct {
			Redirect             string `json:"redirect"`
			RedirectAfterSeconds int    `json:"redirectAfterSeconds"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "/", envelope.Data.Redirect)
	assert.Equal(t, 2, envelope.Data.RedirectAfterSeconds)

	// Challenge is gone; the next state read redirects.
	_, live := harness.registry.Get(harness.sid)
	assert.False(t, live)

	// The success flash invites the user to log in.
	message, ok := harness.flashes.Consume(context.Background(), harness.sid)
	require.True(t, ok)
	assert.True(t, message.ShowLogin)
	assert.Contains(t, message.Text, "Account created successfully!")
}

/*
TestVerifyHTTP_SubmitRejection verifies that a wrong code surfaces the
backend's message and keeps the digits for correction.
*/
func TestVerifyHTTP_SubmitRejection(t *testing.T) {
	harness := newVerifyHarness(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadRequest)
		writer.Write([]byte(`{"success":false,"message":"Invalid OTP"}`))
	})
	harness.registry.Begin(harness.sid, "manilee@example.com")
	harness.typeCode(t, "0000")

	recorder := harness.do(http.MethodPost, "/submit", "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid OTP")

	// Digits stay in place.
	state := harness.do(http.MethodGet, "/", "")
	assert.Contains(t, state.Body.String(), `"digits":["0","0","0","0"]`)
}

/*
TestVerifyHTTP_SubmitIncomplete verifies the submit gate on a partial code.
*/
func TestVerifyHTTP_SubmitIncomplete(t *testing.T) {
	harness := newVerifyHarness(t, func(writer http.ResponseWriter, request *http.Request) {
		t.Error("backend must not be called for an incomplete code")
	})
	harness.registry.Begin(harness.sid, "manilee@example.com")
	harness.do(http.MethodPost, "/input", `{"index":0,"value":"4"}`)

	recorder := harness.do(http.MethodPost, "/submit", "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

/*
TestVerifyHTTP_ResendCooldown verifies that resend is a silent no-op while
the countdown runs.
*/
func TestVerifyHTTP_ResendCooldown(t *testing.T) {
	backendCalls := 0
	harness := newVerifyHarness(t, func(writer http.ResponseWriter, request *http.Request) {
		backendCalls++
		writer.Write([]byte(`{"success":true,"message":"OTP has been generated"}`))
	})
	harness.registry.Begin(harness.sid, "manilee@example.com")

	recorder := harness.do(http.MethodPost, "/resend", "")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Zero(t, backendCalls)
	assert.Contains(t, recorder.Body.String(), `"canResend":false`)
}

/*
TestVerifyHTTP_ResendAfterCooldown verifies that an elapsed countdown lets
resend request a fresh code, restart the timer and clear the entered digits.
*/
func TestVerifyHTTP_ResendAfterCooldown(t *testing.T) {
	backendCalls := 0
	harness := newVerifyHarness(t, func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/generate-otp", request.URL.Path)
		backendCalls++
		writer.Write([]byte(`{"success":true,"message":"OTP has been generated"}`))
	})
	harness.registry.Begin(harness.sid, "manilee@example.com")
	harness.typeCode(t, "4217")

	harness.clock.advance(61 * time.Second)

	recorder := harness.do(http.MethodPost, "/resend", "")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, backendCalls)

	// The timer restarts and the slots are emptied for the new code.
	body := recorder.Body.String()
	assert.Contains(t, body, `"digits":["","","",""]`)
	assert.Contains(t, body, `"canResend":false`)
	assert.Contains(t, body, `"resendInSeconds":60`)
}

/*
TestVerifyHTTP_ConcurrentEntry drives typing, state reads, submits and
resends from parallel requests against one session. Challenge access must
stay serialized, so the run is clean under the race detector and the
challenge survives intact.
*/
func TestVerifyHTTP_ConcurrentEntry(t *testing.T) {
	harness := newVerifyHarness(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadRequest)
		writer.Write([]byte(`{"success":false,"message":"Invalid OTP"}`))
	})
	harness.registry.Begin(harness.sid, "manilee@example.com")

	var group sync.WaitGroup
	group.Add(3)

	go func() {
		defer group.Done()
		for i := 0; i < 50; i++ {
			for index := 0; index < 4; index++ {
				harness.do(http.MethodPost, "/input", fmt.Sprintf(`{"index":%d,"value":"7"}`, index))
			}
		}
	}()
	go func() {
		defer group.Done()
		for i := 0; i < 50; i++ {
			harness.do(http.MethodPost, "/submit", "")
			harness.do(http.MethodGet, "/", "")
		}
	}()
	go func() {
		defer group.Done()
		for i := 0; i < 50; i++ {
			harness.do(http.MethodPost, "/resend", "")
			harness.do(http.MethodPost, "/backspace", `{"index":3}`)
		}
	}()

	group.Wait()

	state := harness.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, state.Code)
	assert.Contains(t, state.Body.String(), `"email":"manilee@example.com"`)
}

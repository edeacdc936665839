// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package otp

import (
	"encoding/json"
	"net/http"

	"github.com/ManileeDev/clientpulse/internal/gateway"
	"github.com/ManileeDev/clientpulse/internal/nav"
	"github.com/ManileeDev/clientpulse/internal/platform/apperr"
	"github.com/ManileeDev/clientpulse/internal/platform/constants"
	"github.com/ManileeDev/clientpulse/internal/platform/respond"
	"github.com/ManileeDev/clientpulse/internal/platform/validate"
	"github.com/ManileeDev/clientpulse/internal/session"

	"github.com/go-chi/chi/v5"
)

// # HTTP Handler

// Handler exposes the verification challenge over HTTP. Every endpoint
// operates on the challenge bound to the calling browser session.
type Handler struct {
	registry *Registry
	auth     gateway.AuthAPI
	flashes  *nav.Flashes
}

func NewHandler(registry *Registry, auth gateway.AuthAPI, flashes *nav.Flashes) *Handler {
	return &Handler{
		registry: registry,
		auth:     auth,
		flashes:  flashes,
	}
}

// Routes wires the verification endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.State)
	router.Post("/input", handler.Input)
	router.Post("/backspace", handler.Backspace)
	router.Post("/submit", handler.Submit)
	router.Post("/resend", handler.Resend)
	return router
}

// stateView is the challenge as rendered to the verification page.
type stateView struct {
	Email           string   `json:"email"`
	Digits          []string `json:"digits"`
	Focus           int      `json:"focus"`
	CanSubmit       bool     `json:"canSubmit"`
	CanResend       bool     `json:"canResend"`
	ResendInSeconds int      `json:"resendInSeconds"`
}

type redirectView struct {
	Redirect             string `json:"redirect"`
	RedirectAfterSeconds int    `json:"redirectAfterSeconds,omitempty"`
}

func viewOf(challenge *Challenge) stateView {
	return stateView{
		Email:           challenge.Email(),
		Digits:          challenge.Digits(),
		Focus:           challenge.Focus(),
		CanSubmit:       challenge.CanSubmit(),
		CanResend:       challenge.CanResend(),
		ResendInSeconds: challenge.Remaining(),
	}
}

// State handles GET /verify-otp. A browser with no pending challenge
// is sent back to the home page.
func (handler *Handler) State(writer http.ResponseWriter, request *http.Request) {
	sid := session.IDFromContext(request.Context())

	var view stateView
	ok := handler.registry.Do(sid, func(challenge *Challenge) {
		view = viewOf(challenge)
	})
	if !ok {
		respond.OK(writer, redirectView{Redirect: "/"})
		return
	}

	respond.OK(writer, view)
}

// Input handles POST /verify-otp/input, typing into one digit slot.
func (handler *Handler) Input(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Index int    `json:"index"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := validate.New().
		Range("index", input.Index, 0, constants.OTPLength-1)
	if input.Value != "" {
		validator.Digit("value", input.Value)
	}
	if validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	handler.withChallenge(writer, request, func(challenge *Challenge) {
		challenge.Input(input.Index, input.Value)
	})
}

// Backspace handles POST /verify-otp/backspace.
func (handler *Handler) Backspace(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := validate.New().
		Range("index", input.Index, 0, constants.OTPLength-1)
	if validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	handler.withChallenge(writer, request, func(challenge *Challenge) {
		challenge.Backspace(input.Index)
	})
}

/*
Submit handles POST /verify-otp/submit.

The joined code is forwarded to the backend. On acceptance the
challenge ends, a success flash with a login prompt is queued, and the
browser is sent home after a short confirmation pause. On rejection the
backend's own message is surfaced and the entered digits stay in place
for correction.
*/
func (handler *Handler) Submit(writer http.ResponseWriter, request *http.Request) {
	sid := session.IDFromContext(request.Context())

	// Email and code are snapshotted under the registry lock so a
	// concurrent keystroke cannot tear the submitted code.
	var email, code string
	var complete bool
	ok := handler.registry.Do(sid, func(challenge *Challenge) {
		complete = challenge.CanSubmit()
		if complete {
			email = challenge.Email()
			code = challenge.Code()
		}
	})
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Verification challenge"))
		return
	}

	if !complete {
		respond.Error(writer, request, apperr.ValidationError("Please enter the complete code"))
		return
	}

	result, err := handler.auth.ValidateOTP(request.Context(), email, code)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !result.Success {
		respond.Error(writer, request, apperr.Upstream(http.StatusBadRequest, result.Message))
		return
	}

	handler.registry.End(sid)
	handler.flashes.Set(request.Context(), sid, nav.Message{
		Text:      "Account created successfully! Please log in with your credentials.",
		Type:      nav.TypeSuccess,
		ShowLogin: true,
	})

	respond.OK(writer, redirectView{
		Redirect:             "/",
		RedirectAfterSeconds: int(constants.VerifiedRedirectDelay.Seconds()),
	})
}

/*
Resend handles POST /verify-otp/resend.

While the cooldown runs the request is a silent no-op, mirroring the
disabled resend control. Otherwise a new code is requested and the
cooldown restarts with the digit slots cleared for the fresh code.
*/
func (handler *Handler) Resend(writer http.ResponseWriter, request *http.Request) {
	sid := session.IDFromContext(request.Context())

	// The cooldown check, restart and state snapshot all happen under
	// the registry lock. The countdown restarts before the network
	// call; a failed resend keeps the fresh timer.
	var email string
	var cooling bool
	var view stateView
	ok := handler.registry.Do(sid, func(challenge *Challenge) {
		if !challenge.CanResend() {
			cooling = true
			view = viewOf(challenge)
			return
		}
		challenge.ResetCooldown()
		email = challenge.Email()
		view = viewOf(challenge)
	})
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Verification challenge"))
		return
	}

	if cooling {
		respond.OK(writer, view)
		return
	}

	result, err := handler.auth.GenerateOTP(request.Context(), email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !gateway.ResentOK(result) {
		respond.Error(writer, request, apperr.Upstream(http.StatusBadRequest, result.Message))
		return
	}

	respond.OK(writer, view)
}

// withChallenge applies fn to the session's challenge under the
// registry lock and renders the resulting state.
func (handler *Handler) withChallenge(writer http.ResponseWriter, request *http.Request, fn func(*Challenge)) {
	sid := session.IDFromContext(request.Context())

	var view stateView
	ok := handler.registry.Do(sid, func(challenge *Challenge) {
		fn(challenge)
		view = viewOf(challenge)
	})
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Verification challenge"))
		return
	}

	respond.OK(writer, view)
}

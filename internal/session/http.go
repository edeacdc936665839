// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package session

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ManileeDev/clientpulse/internal/gateway"
	"github.com/ManileeDev/clientpulse/internal/platform/apperr"
	"github.com/ManileeDev/clientpulse/internal/platform/respond"
	"github.com/ManileeDev/clientpulse/internal/platform/sec"
	"github.com/ManileeDev/clientpulse/internal/platform/validate"

	"github.com/go-chi/chi/v5"
)

// # HTTP Handler

// Handler exposes the account lifecycle: registration, login, logout,
// role selection and theme preference.
//
// The verification and flash hooks are injected as functions so this
// package stays free of the navigation and OTP packages, which import
// it for the session types.
type Handler struct {
	store *Store
	auth  gateway.AuthAPI

	// beginChallenge opens the OTP flow after a signup that emailed a code.
	beginChallenge func(sid, email string)
	// flashSuccess queues a one-shot success message for the next page view.
	flashSuccess func(ctx context.Context, sid, text string)
}

func NewHandler(
	store *Store,
	auth gateway.AuthAPI,
	beginChallenge func(sid, email string),
	flashSuccess func(ctx context.Context, sid, text string),
) *Handler {
	return &Handler{
		store:          store,
		auth:           auth,
		beginChallenge: beginChallenge,
		flashSuccess:   flashSuccess,
	}
}

// Routes wires the account endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/session", handler.Current)
	router.Post("/register", handler.Register)
	router.Post("/login", handler.Login)
	router.Post("/logout", handler.Logout)
	router.Post("/role", handler.SelectRole)
	router.Post("/theme", handler.ToggleTheme)
	return router
}

// sessionView is the snapshot rendered to the client shell.
type sessionView struct {
	User          *gateway.User `json:"user"`
	Role          string        `json:"role"`
	Theme         string        `json:"theme"`
	Authenticated bool          `json:"authenticated"`
}

type redirectSessionView struct {
	sessionView
	Redirect string `json:"redirect,omitempty"`
}

func viewOf(snapshot Session) sessionView {
	return sessionView{
		User:          snapshot.User,
		Role:          string(snapshot.Role),
		Theme:         string(snapshot.Theme),
		Authenticated: snapshot.Authenticated(),
	}
}

// Current handles GET /session, the restore call the shell makes on load.
func (handler *Handler) Current(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, viewOf(FromContext(request.Context())))
}

/*
Register handles POST /register.

A valid signup is forwarded to the backend. When the backend confirms
it emailed a verification code, a challenge opens for this browser and
the response points at the verification page.
*/
func (handler *Handler) Register(writer http.ResponseWriter, request *http.Request) {
	var input gateway.SignupInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := validate.New().
		Required("fullname", input.FullName).
		Required("email", input.Email).
		Email("email", input.Email).
		MinLen("password", input.Password, 8).
		OneOf("role", input.Role, string(sec.RoleClient), string(sec.RoleDeveloper))
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.auth.Signup(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !result.Success {
		respond.Error(writer, request, apperr.Upstream(http.StatusBadRequest, result.Message))
		return
	}

	response := struct {
		Message     string `json:"message"`
		VerifyRoute string `json:"verifyRoute,omitempty"`
	}{Message: result.Message}

	if result.OTPSent {
		sid := IDFromContext(request.Context())
		handler.beginChallenge(sid, input.Email)
		response.VerifyRoute = "/verify-otp"
	}

	respond.Created(writer, response)
}

/*
Login handles POST /login.

Successful credentials install the user into the browser session and
answer with the role's landing route, so a developer lands on the
dashboard and a client on the public home.
*/
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	var input gateway.Credentials
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := validate.New().
		Required("email", input.Email).
		Email("email", input.Email).
		Required("password", input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.auth.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !result.Success || result.Token == "" {
		respond.Error(writer, request, apperr.Upstream(http.StatusUnauthorized, result.Message))
		return
	}

	sid := IDFromContext(request.Context())
	snapshot, redirect := handler.store.Login(request.Context(), sid, result.User, result.Token)
	handler.flashSuccess(request.Context(), sid, "Logged in successfully!")

	respond.OK(writer, redirectSessionView{
		sessionView: viewOf(snapshot),
		Redirect:    redirect,
	})
}

// Logout handles POST /logout. The role resets to the public client
// surface; the theme preference survives.
func (handler *Handler) Logout(writer http.ResponseWriter, request *http.Request) {
	sid := IDFromContext(request.Context())
	snapshot, redirect := handler.store.Logout(request.Context(), sid)

	respond.OK(writer, redirectSessionView{
		sessionView: viewOf(snapshot),
		Redirect:    redirect,
	})
}

/*
SelectRole handles POST /role, the anonymous surface switcher.

An authenticated session is pinned to its account role; asking for the
other surface is refused rather than silently ignored.
*/
func (handler *Handler) SelectRole(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	role, ok := sec.ParseRole(input.Role)
	if !ok {
		respond.Error(writer, request, validate.RequiredError("role", "Must be client or developer"))
		return
	}

	sid := IDFromContext(request.Context())
	snapshot, redirect, err := handler.store.SetRole(request.Context(), sid, role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, redirectSessionView{
		sessionView: viewOf(snapshot),
		Redirect:    redirect,
	})
}

// ToggleTheme handles POST /theme, flipping between light and dark.
func (handler *Handler) ToggleTheme(writer http.ResponseWriter, request *http.Request) {
	sid := IDFromContext(request.Context())
	snapshot := handler.store.ToggleTheme(request.Context(), sid)
	respond.OK(writer, viewOf(snapshot))
}

// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

// Package feedback serves the feedback surface: public listings, the
// signed-in user's own submissions, triage actions for developers, and
// the aggregated analytics view.
package feedback

import (
	"encoding/json"
	"net/http"

	"github.com/ManileeDev/clientpulse/internal/analytics"
	"github.com/ManileeDev/clientpulse/internal/gateway"
	"github.com/ManileeDev/clientpulse/internal/nav"
	"github.com/ManileeDev/clientpulse/internal/platform/respond"
	"github.com/ManileeDev/clientpulse/internal/platform/sec"
	"github.com/ManileeDev/clientpulse/internal/platform/validate"
	"github.com/ManileeDev/clientpulse/internal/session"

	"github.com/go-chi/chi/v5"
)

// # HTTP Handler

// Handler proxies feedback operations to the backend, enriching them
// with the calling session's identity.
type Handler struct {
	feedbacks gateway.FeedbackAPI
}

func NewHandler(feedbacks gateway.FeedbackAPI) *Handler {
	return &Handler{feedbacks: feedbacks}
}

// Routes wires the feedback endpoints. Status changes and deletion are
// developer triage actions; submitting requires a signed-in client.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.List)
	router.Get("/analytics", handler.Analytics)
	router.Get("/{id}", handler.Get)

	router.Group(func(authenticated chi.Router) {
		authenticated.Use(nav.RequireAuthenticated)
		authenticated.Get("/mine", handler.Mine)
		authenticated.Post("/", handler.Create)
		authenticated.Put("/{id}", handler.Update)
	})

	router.Group(func(developers chi.Router) {
		developers.Use(nav.RequireRole(sec.RoleDeveloper))
		developers.Patch("/{id}/status", handler.UpdateStatus)
		developers.Delete("/{id}", handler.Delete)
	})

	return router
}

// List handles GET /feedbacks, the public listing.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	entries, err := handler.feedbacks.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entries)
}

// Mine handles GET /feedbacks/mine, the session user's submissions.
func (handler *Handler) Mine(writer http.ResponseWriter, request *http.Request) {
	snapshot := session.FromContext(request.Context())

	entries, err := handler.feedbacks.ListByUser(request.Context(), snapshot.User.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entries)
}

// Get handles GET /feedbacks/{id}.
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	entry, err := handler.feedbacks.Get(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entry)
}

// Analytics handles GET /feedbacks/analytics, aggregating the full
// corpus into the summary figures.
func (handler *Handler) Analytics(writer http.ResponseWriter, request *http.Request) {
	entries, err := handler.feedbacks.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, analytics.Summarize(entries))
}

/*
Create handles POST /feedbacks.

The submitter's identity comes from the session, never from the
payload, so a browser cannot file feedback as someone else.
*/
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	snapshot := session.FromContext(request.Context())
	input.ClientID = snapshot.User.ID
	input.ClientName = snapshot.User.Name

	result, err := handler.feedbacks.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, result)
}

// Update handles PUT /feedbacks/{id}.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	snapshot := session.FromContext(request.Context())
	input.ClientID = snapshot.User.ID
	input.ClientName = snapshot.User.Name

	result, err := handler.feedbacks.Update(request.Context(), chi.URLParam(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// UpdateStatus handles PATCH /feedbacks/{id}/status, the triage action.
func (handler *Handler) UpdateStatus(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}
	if err := validate.New().Required("status", input.Status).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.feedbacks.UpdateStatus(request.Context(), chi.URLParam(request, "id"), input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// Delete handles DELETE /feedbacks/{id}.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.feedbacks.Delete(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// decodeInput parses and validates the create/update payload.
func decodeInput(request *http.Request) (gateway.FeedbackInput, error) {
	var input gateway.FeedbackInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		return input, validate.ErrInvalidJSON
	}

	validator := validate.New().
		Required("title", input.Title).
		MaxLen("title", input.Title, 120).
		Required("description", input.Description).
		Required("category", input.Category).
		Required("priority", input.Priority).
		Range("rating", input.Rating, 1, 5)
	if err := validator.Err(); err != nil {
		return input, err
	}

	return input, nil
}

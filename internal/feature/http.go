// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

// Package feature serves the feature catalogue: a public listing with
// category filtering, and authoring actions for developers.
package feature

import (
	"encoding/json"
	"net/http"

	"github.com/ManileeDev/clientpulse/internal/gateway"
	"github.com/ManileeDev/clientpulse/internal/nav"
	"github.com/ManileeDev/clientpulse/internal/platform/respond"
	"github.com/ManileeDev/clientpulse/internal/platform/sec"
	"github.com/ManileeDev/clientpulse/internal/platform/validate"

	"github.com/go-chi/chi/v5"
)

// # HTTP Handler

// Handler proxies feature-record operations to the backend.
type Handler struct {
	features gateway.FeatureAPI
}

func NewHandler(features gateway.FeatureAPI) *Handler {
	return &Handler{features: features}
}

// Routes wires the feature endpoints. Reads are public; authoring is a
// developer-only surface.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.List)
	router.Get("/{id}", handler.Get)

	router.Group(func(developers chi.Router) {
		developers.Use(nav.RequireRole(sec.RoleDeveloper))
		developers.Post("/", handler.Create)
		developers.Put("/{id}", handler.Update)
	})

	return router
}

// List handles GET /features. An optional ?category= query narrows the
// listing to one category.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	var (
		entries []gateway.Feature
		err     error
	)

	if category := request.URL.Query().Get("category"); category != "" {
		entries, err = handler.features.ListByCategory(request.Context(), category)
	} else {
		entries, err = handler.features.List(request.Context())
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}

// Get handles GET /features/{id}.
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	entry, err := handler.features.Get(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entry)
}

// Create handles POST /features.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.features.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, result)
}

// Update handles PUT /features/{id}.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.features.Update(request.Context(), chi.URLParam(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// decodeInput parses and validates the authoring payload.
func decodeInput(request *http.Request) (gateway.FeatureInput, error) {
	var input gateway.FeatureInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		return input, validate.ErrInvalidJSON
	}

	validator := validate.New().
		Required("name", input.Name).
		MaxLen("name", input.Name, 120).
		Required("description", input.Description).
		Required("category", input.Category).
		Required("priority", input.Priority)
	if err := validator.Err(); err != nil {
		return input, err
	}

	return input, nil
}

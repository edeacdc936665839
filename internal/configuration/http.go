// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

// Package configuration serves the reference-data endpoints the forms
// consume: option collections and the composed form-options bundle.
package configuration

import (
	"net/http"
	"strconv"

	"github.com/ManileeDev/clientpulse/internal/gateway"
	"github.com/ManileeDev/clientpulse/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

// # HTTP Handler

// Handler exposes the backend configuration collections plus the
// aggregated form-options bundle.
type Handler struct {
	configurations gateway.ConfigurationAPI
	loader         gateway.FormOptionsLoader
}

func NewHandler(configurations gateway.ConfigurationAPI, loader gateway.FormOptionsLoader) *Handler {
	return &Handler{configurations: configurations, loader: loader}
}

// Routes wires the configuration endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.All)
	router.Get("/feedback-categories", handler.FeedbackCategories)
	router.Get("/feature-categories", handler.FeatureCategories)
	router.Get("/priority-options", handler.PriorityOptions)
	router.Get("/rating-options", handler.RatingOptions)
	router.Get("/form-options", handler.FormOptions)
	return router
}

// All handles GET /configurations, passing the raw backend document
// through untouched.
func (handler *Handler) All(writer http.ResponseWriter, request *http.Request) {
	document, err := handler.configurations.All(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, document)
}

// FeedbackCategories handles GET /configurations/feedback-categories.
func (handler *Handler) FeedbackCategories(writer http.ResponseWriter, request *http.Request) {
	options, err := handler.configurations.FeedbackCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, options)
}

// FeatureCategories handles GET /configurations/feature-categories.
func (handler *Handler) FeatureCategories(writer http.ResponseWriter, request *http.Request) {
	options, err := handler.configurations.FeatureCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, options)
}

// PriorityOptions handles GET /configurations/priority-options.
func (handler *Handler) PriorityOptions(writer http.ResponseWriter, request *http.Request) {
	options, err := handler.configurations.PriorityOptions(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, options)
}

// RatingOptions handles GET /configurations/rating-options.
func (handler *Handler) RatingOptions(writer http.ResponseWriter, request *http.Request) {
	options, err := handler.configurations.RatingOptions(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, options)
}

// FormOptions handles GET /configurations/form-options, the bundle a
// feedback form loads before becoming interactive. It never errors:
// collections the backend cannot serve come from the static defaults.
// ?features=true also includes the feature list for linking.
func (handler *Handler) FormOptions(writer http.ResponseWriter, request *http.Request) {
	includeFeatures, _ := strconv.ParseBool(request.URL.Query().Get("features"))
	respond.OK(writer, handler.loader.Load(request.Context(), includeFeatures))
}

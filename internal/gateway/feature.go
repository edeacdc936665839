// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package gateway

import (
	"context"
	"time"
)

// # Feature Payloads

// Feature is one product feature record.
type Feature struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	Version        string    `json:"version,omitempty"`
	EstimatedHours int       `json:"estimatedHours,omitempty"`
	ActualHours    int       `json:"actualHours,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FeatureInput is the create/update payload for a feature record.
type FeatureInput struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Priority       string   `json:"priority"`
	Status         string   `json:"status,omitempty"`
	Version        string   `json:"version,omitempty"`
	EstimatedHours int      `json:"estimatedHours,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// featureListEnvelope decodes {success, features:[…]}.
type featureListEnvelope struct {
	Success  bool      `json:"success"`
	Features []Feature `json:"features"`
	Message  string    `json:"message"`
}

// featureEnvelope decodes {success, feature:{…}}.
type featureEnvelope struct {
	Success bool    `json:"success"`
	Feature Feature `json:"feature"`
	Message string  `json:"message"`
}

// # Feature API

// FeatureAPI groups the backend's feature-record operations.
type FeatureAPI struct {
	client *Client
}

// NewFeatureAPI constructs a [FeatureAPI] over the shared client.
func NewFeatureAPI(client *Client) FeatureAPI {
	return FeatureAPI{client: client}
}

// List fetches every feature record. GET /features
func (api FeatureAPI) List(ctx context.Context) ([]Feature, error) {
	envelope := &featureListEnvelope{}
	if err := api.client.get(ctx, "/features", envelope); err != nil {
		return nil, err
	}
	return envelope.Features, nil
}

// Get fetches a single feature. GET /features/:id
func (api FeatureAPI) Get(ctx context.Context, id string) (*Feature, error) {
	envelope := &featureEnvelope{}
	if err := api.client.get(ctx, "/features/"+id, envelope); err != nil {
		return nil, err
	}
	return &envelope.Feature, nil
}

// ListByCategory fetches features in one category. GET /features/category/:category
func (api FeatureAPI) ListByCategory(ctx context.Context, category string) ([]Feature, error) {
	envelope := &featureListEnvelope{}
	if err := api.client.get(ctx, "/features/category/"+category, envelope); err != nil {
		return nil, err
	}
	return envelope.Features, nil
}

// Create adds a feature record. POST /features
func (api FeatureAPI) Create(ctx context.Context, input FeatureInput) (*StatusResult, error) {
	result := &StatusResult{}
	if err := api.client.post(ctx, "/features", input, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Update replaces a feature record. PUT /features/:id
func (api FeatureAPI) Update(ctx context.Context, id string, input FeatureInput) (*StatusResult, error) {
	result := &StatusResult{}
	if err := api.client.put(ctx, "/features/"+id, input, result); err != nil {
		return nil, err
	}
	return result, nil
}

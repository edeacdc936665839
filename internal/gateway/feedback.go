// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package gateway

import (
	"context"
	"time"
)

// # Feedback Payloads

// Feedback is one feedback record as the backend stores it.
type Feedback struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Rating      int       `json:"rating"`
	Status      string    `json:"status"`
	ClientID    string    `json:"clientId"`
	ClientName  string    `json:"clientName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FeedbackInput is the create/update payload. ClientID and ClientName are
// filled from the calling session, never from the browser payload.
type FeedbackInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Rating      int    `json:"rating"`
	ClientID    string `json:"clientId,omitempty"`
	ClientName  string `json:"clientName,omitempty"`
}

// feedbackListEnvelope decodes {success, feedback:[…]}.
type feedbackListEnvelope struct {
	Success  bool       `json:"success"`
	Feedback []Feedback `json:"feedback"`
	Message  string     `json:"message"`
}

// feedbackEnvelope decodes {success, feedback:{…}}.
type feedbackEnvelope struct {
	Success  bool     `json:"success"`
	Feedback Feedback `json:"feedback"`
	Message  string   `json:"message"`
}

// # Feedback API

// FeedbackAPI groups the backend's feedback operations.
type FeedbackAPI struct {
	client *Client
}

// NewFeedbackAPI constructs a [FeedbackAPI] over the shared client.
func NewFeedbackAPI(client *Client) FeedbackAPI {
	return FeedbackAPI{client: client}
}

// List fetches every feedback record. GET /feedback
func (api FeedbackAPI) List(ctx context.Context) ([]Feedback, error) {
	envelope := &feedbackListEnvelope{}
	if err := api.client.get(ctx, "/feedback", envelope); err != nil {
		return nil, err
	}
	return envelope.Feedback, nil
}

// ListByUser fetches the records one user submitted. GET /feedback/user/:userId
func (api FeedbackAPI) ListByUser(ctx context.Context, userID string) ([]Feedback, error) {
	envelope := &feedbackListEnvelope{}
	if err := api.client.get(ctx, "/feedback/user/"+userID, envelope); err != nil {
		return nil, err
	}
	return envelope.Feedback, nil
}

// Get fetches a single record. GET /feedback/:id
func (api FeedbackAPI) Get(ctx context.Context, id string) (*Feedback, error) {
	envelope := &feedbackEnvelope{}
	if err := api.client.get(ctx, "/feedback/"+id, envelope); err != nil {
		return nil, err
	}
	return &envelope.Feedback, nil
}

// Create submits a new record. POST /feedback
func (api FeedbackAPI) Create(ctx context.Context, input FeedbackInput) (*StatusResult, error) {
	result := &StatusResult{}
	if err := api.client.post(ctx, "/feedback", input, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Update replaces a record's contents. PUT /feedback/:id
func (api FeedbackAPI) Update(ctx context.Context, id string, input FeedbackInput) (*StatusResult, error) {
	result := &StatusResult{}
	if err := api.client.put(ctx, "/feedback/"+id, input, result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus moves a record through the triage workflow. PUT /feedback/:id/status
func (api FeedbackAPI) UpdateStatus(ctx context.Context, id, status string) (*StatusResult, error) {
	result := &StatusResult{}
	payload := struct {
		Status string `json:"status"`
	}{Status: status}

	if err := api.client.put(ctx, "/feedback/"+id+"/status", payload, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a record. DELETE /feedback/:id
func (api FeedbackAPI) Delete(ctx context.Context, id string) (*StatusResult, error) {
	result := &StatusResult{}
	if err := api.client.delete(ctx, "/feedback/"+id, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

/*
Package gateway implements the typed client for the remote Pulse REST backend.

Every piece of business logic — validation of record contents, persistence,
OTP generation and checking, authorization — lives behind this boundary. The
gateway's job is transport only: JSON codec, bearer attachment, and
normalization of backend failures into the [apperr] taxonomy.

Architecture:

  - Client: Shared HTTP plumbing (base URL, timeouts, token lookup).
  - AuthAPI / FeedbackAPI / FeatureAPI / ConfigurationAPI: Typed operation sets.
  - Errors: Structured rejections surface the backend message verbatim;
    transport failures collapse to a single generic BadGateway.

Calls are bound to the caller's context, so an abandoned browser request
cancels its upstream call.
*/
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ManileeDev/clientpulse/internal/platform/apperr"
	"github.com/ManileeDev/clientpulse/internal/platform/constants"
)

// # Contracts & Types

// TokenFunc resolves the bearer token for an outgoing call, if any.
//
// It is resolved per call — never cached — so a logout between two requests
// is honored immediately. The session layer supplies the implementation.
type TokenFunc func(ctx context.Context) string

// StatusResult is the minimal `{success, message}` envelope the backend
// answers for state-changing operations.
type StatusResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Client holds the shared HTTP plumbing for all typed API sets.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenFunc
	log        *slog.Logger
}

// NewClient constructs a gateway [Client] for the given backend base URL.
//
// # Parameters
//   - baseURL: Backend root, e.g. "http://localhost:5000/api".
//   - token: Bearer token resolver; nil means unauthenticated calls only.
//   - logger: Structured logger for transport failures.
func NewClient(baseURL string, token TokenFunc, logger *slog.Logger) *Client {
	if token == nil {
		token = func(context.Context) string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: constants.BackendRequestTimeout,
		},
		token: token,
		log:   logger,
	}
}

// # Request Execution

/*
do executes one backend call and decodes the response into out.

Description: Marshals body (if any), attaches Content-Type and the bearer
token when the context carries one, and normalizes every failure mode into
the [apperr] taxonomy.

Parameters:
  - ctx: context.Context (cancellation propagates to the backend call)
  - method: HTTP verb
  - path: Backend path relative to the base URL ("/feedback", "/login")
  - body: Request payload, marshaled as JSON when non-nil
  - out: Response destination, skipped when nil

Returns:
  - error: apperr.Upstream (structured rejection, message verbatim),
    apperr.BadGateway (transport/decoding failure), or nil
*/
func (client *Client) do(ctx context.Context, method, path string, body any, out any) error {

	// Encode the request payload
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperr.Internal(fmt.Errorf("gateway_marshal_failed: %w", err))
		}
		payload = bytes.NewReader(raw)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, payload)
	if err != nil {
		return apperr.Internal(fmt.Errorf("gateway_build_request_failed: %w", err))
	}

	request.Header.Set("Content-Type", "application/json")

	// Attach the bearer credential when the calling session holds one
	if token := client.token(ctx); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		client.log.WarnContext(ctx, "backend_unreachable",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return apperr.BadGateway(err)
	}
	defer func() { _ = response.Body.Close() }()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return apperr.BadGateway(fmt.Errorf("gateway_read_body_failed: %w", err))
	}

	// Non-2xx: the backend answers {success:false, message}; that message is
	// shown to the user exactly as received.
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var rejection StatusResult
		_ = json.Unmarshal(raw, &rejection)
		return apperr.Upstream(response.StatusCode, rejection.Message)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return apperr.BadGateway(fmt.Errorf("gateway_decode_failed: %w", err))
		}
	}

	return nil
}

// get issues a GET request.
func (client *Client) get(ctx context.Context, path string, out any) error {
	return client.do(ctx, http.MethodGet, path, nil, out)
}

// post issues a POST request with a JSON body.
func (client *Client) post(ctx context.Context, path string, body, out any) error {
	return client.do(ctx, http.MethodPost, path, body, out)
}

// put issues a PUT request with a JSON body.
func (client *Client) put(ctx context.Context, path string, body, out any) error {
	return client.do(ctx, http.MethodPut, path, body, out)
}

// delete issues a DELETE request.
func (client *Client) delete(ctx context.Context, path string, out any) error {
	return client.do(ctx, http.MethodDelete, path, nil, out)
}

// # Health

// Health pings the backend's health endpoint.
// Used by the readiness probe to report backend reachability.
func (client *Client) Health(ctx context.Context) error {
	return client.get(ctx, "/health", nil)
}

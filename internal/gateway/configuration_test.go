// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManileeDev/clientpulse/internal/gateway"
)

/*
TestFormOptionsLoader_BackendValues verifies the happy path: backend
collections mapped to presentation options, with the rating scale sorted
best-first regardless of backend order.
*/
func TestFormOptionsLoader_BackendValues(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/configurations/feedback-categories":
			writer.Write([]byte(`{"success":true,"categories":[
				{"value":"bug_report","name":"Bug Report","description":"Report a bug"}
			]}`))
		case "/configurations/priority-options":
			writer.Write([]byte(`{"success":true,"priorities":[
				{"value":"high","name":"High","metadata":{"color":"#EF4444"}},
				{"value":"low","name":"Low","metadata":{}}
			]}`))
		case "/configurations/rating-options":
			writer.Write([]byte(`{"success":true,"ratings":[
				{"value":1,"name":"Very Poor","metadata":{"icon":"Star"}},
				{"value":5,"name":"Excellent","metadata":{"icon":"Heart","color":"#10B981"}}
			]}`))
		default:
			http.NotFound(writer, request)
		}
	}))
	defer backend.Close()

	client := gateway.NewClient(backend.URL, nil, discardLogger())
	loader := gateway.NewFormOptionsLoader(gateway.NewConfigurationAPI(client), gateway.NewFeatureAPI(client))

	options := loader.Load(context.Background(), false)

	assert.False(t, options.Fallback)

	require.Len(t, options.Categories, 1)
	assert.Equal(t, "Bug Report", options.Categories[0].Label)

	require.Len(t, options.Priorities, 2)
	assert.Equal(t, "#EF4444", options.Priorities[0].Color)
	// Missing metadata color falls back to the neutral default.
	assert.Equal(t, "#6B7280", options.Priorities[1].Color)

	require.Len(t, options.Ratings, 2)
	assert.Equal(t, 5, options.Ratings[0].Value)
	assert.Equal(t, 1, options.Ratings[1].Value)
}

/*
TestFormOptionsLoader_FallbackOnOutage verifies the degradation contract:
with the configuration service down, Load still returns a complete option
set from the static defaults and flags it.
*/
func TestFormOptionsLoader_FallbackOnOutage(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
		writer.Write([]byte(`{"success":false,"message":"configuration service down"}`))
	}))
	defer backend.Close()

	client := gateway.NewClient(backend.URL, nil, discardLogger())
	loader := gateway.NewFormOptionsLoader(gateway.NewConfigurationAPI(client), gateway.NewFeatureAPI(client))

	options := loader.Load(context.Background(), false)

	assert.True(t, options.Fallback)
	assert.Len(t, options.Categories, 5)
	assert.Len(t, options.Priorities, 3)

	require.Len(t, options.Ratings, 5)
	assert.Equal(t, 5, options.Ratings[0].Value)
	assert.Equal(t, "Excellent", options.Ratings[0].Label)
	assert.Equal(t, "Heart", options.Ratings[0].Icon)
	assert.Equal(t, 1, options.Ratings[4].Value)
}

/*
TestFormOptionsLoader_FeatureListOptional verifies that the feature fetch is
only issued when asked for and tolerates failure without flagging fallback.
*/
func TestFormOptionsLoader_FeatureListOptional(t *testing.T) {
	featureCalls := 0
	backend := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/features":
			featureCalls++
			writer.Write([]byte(`{"success":true,"features":[{"_id":"f1","name":"Dark Mode"}]}`))
		case "/configurations/feedback-categories":
			writer.Write([]byte(`{"success":true,"categories":[{"value":"general","name":"General"}]}`))
		case "/configurations/priority-options":
			writer.Write([]byte(`{"success":true,"priorities":[{"value":"low","name":"Low","metadata":{}}]}`))
		case "/configurations/rating-options":
			writer.Write([]byte(`{"success":true,"ratings":[{"value":3,"name":"Okay","metadata":{}}]}`))
		default:
			http.NotFound(writer, request)
		}
	}))
	defer backend.Close()

	client := gateway.NewClient(backend.URL, nil, discardLogger())
	loader := gateway.NewFormOptionsLoader(gateway.NewConfigurationAPI(client), gateway.NewFeatureAPI(client))

	options := loader.Load(context.Background(), false)
	assert.Zero(t, featureCalls)
	assert.Empty(t, options.Features)

	options = loader.Load(context.Background(), true)
	assert.Equal(t, 1, featureCalls)
	require.Len(t, options.Features, 1)
	assert.Equal(t, "Dark Mode", options.Features[0].Name)
}

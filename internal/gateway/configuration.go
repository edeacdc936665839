// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package gateway

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// # Configuration Payloads
// The backend keeps select-box reference data (categories, priorities,
// rating scale) as configuration collections.

// OptionMetadata carries presentation hints attached to an option.
type OptionMetadata struct {
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// CategoryOption is one entry of a category collection.
type CategoryOption struct {
	Value       string `json:"value"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PriorityOption is one entry of the priority collection.
type PriorityOption struct {
	Value    string         `json:"value"`
	Name     string         `json:"name"`
	Metadata OptionMetadata `json:"metadata"`
}

// RatingOption is one entry of the rating scale.
type RatingOption struct {
	Value    int            `json:"value"`
	Name     string         `json:"name"`
	Metadata OptionMetadata `json:"metadata"`
}

// # Configuration API

// ConfigurationAPI groups the backend's reference-data reads.
type ConfigurationAPI struct {
	client *Client
}

// NewConfigurationAPI constructs a [ConfigurationAPI] over the shared client.
func NewConfigurationAPI(client *Client) ConfigurationAPI {
	return ConfigurationAPI{client: client}
}

// All fetches the raw configuration document. GET /configurations
func (api ConfigurationAPI) All(ctx context.Context) (json.RawMessage, error) {
	var envelope struct {
		Success        bool            `json:"success"`
		Configurations json.RawMessage `json:"configurations"`
	}
	if err := api.client.get(ctx, "/configurations", &envelope); err != nil {
		return nil, err
	}
	return envelope.Configurations, nil
}

// FeedbackCategories fetches the feedback category set.
func (api ConfigurationAPI) FeedbackCategories(ctx context.Context) ([]CategoryOption, error) {
	var envelope struct {
		Success    bool             `json:"success"`
		Categories []CategoryOption `json:"categories"`
	}
	if err := api.client.get(ctx, "/configurations/feedback-categories", &envelope); err != nil {
		return nil, err
	}
	return envelope.Categories, nil
}

// FeatureCategories fetches the feature category set.
func (api ConfigurationAPI) FeatureCategories(ctx context.Context) ([]CategoryOption, error) {
	var envelope struct {
		Success    bool             `json:"success"`
		Categories []CategoryOption `json:"categories"`
	}
	if err := api.client.get(ctx, "/configurations/feature-categories", &envelope); err != nil {
		return nil, err
	}
	return envelope.Categories, nil
}

// PriorityOptions fetches the priority scale.
func (api ConfigurationAPI) PriorityOptions(ctx context.Context) ([]PriorityOption, error) {
	var envelope struct {
		Success    bool             `json:"success"`
		Priorities []PriorityOption `json:"priorities"`
	}
	if err := api.client.get(ctx, "/configurations/priority-options", &envelope); err != nil {
		return nil, err
	}
	return envelope.Priorities, nil
}

// RatingOptions fetches the rating scale.
func (api ConfigurationAPI) RatingOptions(ctx context.Context) ([]RatingOption, error) {
	var envelope struct {
		Success bool           `json:"success"`
		Ratings []RatingOption `json:"ratings"`
	}
	if err := api.client.get(ctx, "/configurations/rating-options", &envelope); err != nil {
		return nil, err
	}
	return envelope.Ratings, nil
}

// # Form Options Loader
// A form never renders its interactive state until every reference fetch has
// settled; a fetch that rejects is replaced by the static fallback values so
// the form still works when the configuration service is down.

// SelectOption is a presentation-ready select-box entry.
type SelectOption struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// RatingChoice is a presentation-ready rating-scale entry, sorted high to low.
type RatingChoice struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// FormOptions bundles everything a feedback form needs to become interactive.
type FormOptions struct {
	Categories []SelectOption `json:"categories"`
	Priorities []SelectOption `json:"priorities"`
	Ratings    []RatingChoice `json:"ratings"`
	Features   []Feature      `json:"features,omitempty"`

	// Fallback is true when at least one collection came from the static
	// defaults instead of the backend.
	Fallback bool `json:"fallback"`
}

// FormOptionsLoader composes the concurrent reference-data fetches.
type FormOptionsLoader struct {
	configurations ConfigurationAPI
	features       FeatureAPI
}

// NewFormOptionsLoader constructs a [FormOptionsLoader].
func NewFormOptionsLoader(configurations ConfigurationAPI, features FeatureAPI) FormOptionsLoader {
	return FormOptionsLoader{configurations: configurations, features: features}
}

/*
Load fetches categories, priorities, and the rating scale concurrently, plus
the feature list when includeFeatures is set.

Description: The fetches are issued together and the call returns only when
all have settled. A collection whose fetch rejects falls back to the static
defaults — Load itself never fails, mirroring the form contract that options
are always available.
*/
func (loader FormOptionsLoader) Load(ctx context.Context, includeFeatures bool) *FormOptions {
	var (
		group      sync.WaitGroup
		categories []CategoryOption
		priorities []PriorityOption
		ratings    []RatingOption
		features   []Feature

		categoriesErr, prioritiesErr, ratingsErr, featuresErr error
	)

	group.Add(3)
	go func() {
		defer group.Done()
		categories, categoriesErr = loader.configurations.FeedbackCategories(ctx)
	}()
	go func() {
		defer group.Done()
		priorities, prioritiesErr = loader.configurations.PriorityOptions(ctx)
	}()
	go func() {
		defer group.Done()
		ratings, ratingsErr = loader.configurations.RatingOptions(ctx)
	}()

	if includeFeatures {
		group.Add(1)
		go func() {
			defer group.Done()
			features, featuresErr = loader.features.List(ctx)
		}()
	}

	group.Wait()

	options := &FormOptions{}

	if categoriesErr != nil || len(categories) == 0 {
		options.Categories = fallbackCategories()
		options.Fallback = options.Fallback || categoriesErr != nil
	} else {
		for _, category := range categories {
			options.Categories = append(options.Categories, SelectOption{
				Value:       category.Value,
				Label:       category.Name,
				Description: category.Description,
			})
		}
	}

	if prioritiesErr != nil || len(priorities) == 0 {
		options.Priorities = fallbackPriorities()
		options.Fallback = options.Fallback || prioritiesErr != nil
	} else {
		for _, priority := range priorities {
			color := priority.Metadata.Color
			if color == "" {
				color = defaultOptionColor
			}
			options.Priorities = append(options.Priorities, SelectOption{
				Value: priority.Value,
				Label: priority.Name,
				Color: color,
			})
		}
	}

	if ratingsErr != nil || len(ratings) == 0 {
		options.Ratings = fallbackRatings()
		options.Fallback = options.Fallback || ratingsErr != nil
	} else {
		for _, rating := range ratings {
			color := rating.Metadata.Color
			if color == "" {
				color = defaultOptionColor
			}
			options.Ratings = append(options.Ratings, RatingChoice{
				Value: rating.Value,
				Label: rating.Name,
				Icon:  rating.Metadata.Icon,
				Color: color,
			})
		}
		// Rating scale renders best option first
		sort.Slice(options.Ratings, func(i, j int) bool {
			return options.Ratings[i].Value > options.Ratings[j].Value
		})
	}

	if includeFeatures && featuresErr == nil {
		options.Features = features
	}

	return options
}

// # Static Fallbacks
// Mirrors the defaults the product shipped with before the configuration
// collections existed; kept so a configuration outage degrades, not breaks.

const defaultOptionColor = "#6B7280"

func fallbackCategories() []SelectOption {
	return []SelectOption{
		{Value: "bug_report", Label: "Bug Report", Description: "Report a bug or issue"},
		{Value: "feature_request", Label: "Feature Request", Description: "Suggest a new feature"},
		{Value: "ui_ux", Label: "UI/UX Feedback", Description: "Interface and user experience"},
		{Value: "performance", Label: "Performance", Description: "Speed, loading, or performance issues"},
		{Value: "general", Label: "General Feedback", Description: "Other feedback or suggestions"},
	}
}

func fallbackPriorities() []SelectOption {
	return []SelectOption{
		{Value: "low", Label: "Low", Color: "#10B981"},
		{Value: "medium", Label: "Medium", Color: "#F59E0B"},
		{Value: "high", Label: "High", Color: "#EF4444"},
	}
}

func fallbackRatings() []RatingChoice {
	return []RatingChoice{
		{Value: 5, Label: "Excellent", Icon: "Heart", Color: "#10B981"},
		{Value: 4, Label: "Good", Icon: "ThumbsUp", Color: "#3B82F6"},
		{Value: 3, Label: "Okay", Icon: "Meh", Color: "#F59E0B"},
		{Value: 2, Label: "Poor", Icon: "ThumbsDown", Color: "#EF4444"},
		{Value: 1, Label: "Very Poor", Icon: "Star", Color: "#7F1D1D"},
	}
}

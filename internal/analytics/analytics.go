// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

// Package analytics aggregates the feedback corpus into the summary
// figures shown on the analytics page.
package analytics

import (
	"math"

	"github.com/ManileeDev/clientpulse/internal/gateway"
)

// # Types

// Distribution buckets ratings by sentiment. Poor absorbs everything
// at two stars or below.
type Distribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Okay      int `json:"okay"`
	Poor      int `json:"poor"`
}

// Summary is the aggregated view over all feedback entries.
type Summary struct {
	Total         int            `json:"total"`
	AverageRating float64        `json:"averageRating"`
	HighRatings   int            `json:"highRatings"`
	LowRatings    int            `json:"lowRatings"`
	Distribution  Distribution   `json:"distribution"`
	ByCategory    map[string]int `json:"byCategory"`
	ByStatus      map[string]int `json:"byStatus"`
}

// # Aggregation

/*
Summarize computes the analytics figures for a feedback list.

The average is rounded to one decimal place, matching the page's
display precision. High means four stars or more, low two or fewer.

Parameters:
  - entries: the full feedback list from the backend.

Returns:
  - Summary: all counters zeroed when the list is empty.
*/
func Summarize(entries []gateway.Feedback) Summary {
	summary := Summary{
		ByCategory: make(map[string]int),
		ByStatus:   make(map[string]int),
	}

	total := 0
	for _, entry := range entries {
		summary.Total++
		total += entry.Rating

		switch {
		case entry.Rating >= 5:
			summary.Distribution.Excellent++
		case entry.Rating == 4:
			summary.Distribution.Good++
		case entry.Rating == 3:
			summary.Distribution.Okay++
		default:
			summary.Distribution.Poor++
		}

		if entry.Rating >= 4 {
			summary.HighRatings++
		}
		if entry.Rating <= 2 {
			summary.LowRatings++
		}

		if entry.Category != "" {
			summary.ByCategory[entry.Category]++
		}
		if entry.Status != "" {
			summary.ByStatus[entry.Status]++
		}
	}

	if summary.Total > 0 {
		average := float64(total) / float64(summary.Total)
		summary.AverageRating = math.Round(average*10) / 10
	}

	return summary
}

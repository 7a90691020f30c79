// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for ideation-engine.
package types

import "time"

// RankedIdea is one candidate idea as scored by the ranking stage.
type RankedIdea struct {
	// Idea is the full idea text.
	Idea string `json:"idea" yaml:"idea"`

	// Relevance scores how directly the idea addresses the problem (1-10).
	Relevance float64 `json:"relevance" yaml:"relevance"`

	// Plausibility scores how feasible the idea is to build (1-10).
	Plausibility float64 `json:"plausibility" yaml:"plausibility"`

	// Reasoning is the model's short justification for the scores. Optional.
	Reasoning string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
}

// Combined returns the combined score (relevance + plausibility, range 2-20).
func (i RankedIdea) Combined() float64 {
	return i.Relevance + i.Plausibility
}

// Round records one completed run of the three-stage chain.
type Round struct {
	// Problem is the target problem statement.
	Problem string `json:"problem" yaml:"problem"`

	// Mechanisms is the sampled primer subset used for this round.
	Mechanisms []string `json:"mechanisms" yaml:"mechanisms"`

	// Connection is the stage-1 cross-domain observation.
	Connection string `json:"connection" yaml:"connection"`

	// Model is the model identifier that produced the round.
	Model string `json:"model" yaml:"model"`

	// Ideas are the ranked ideas, best first.
	Ideas []RankedIdea `json:"ideas" yaml:"ideas"`

	// Timestamp is when the round finished.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chain runs the three-stage ideation prompt chain: connection,
// ideation, ranking. Each stage is one request/response exchange with the
// inference service, and each stage's output feeds the next.
// Implements: prd002-chain (R1-R4).
package chain

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"
)

// rankingTemperature is fixed low to favor consistent structured output.
const rankingTemperature = 0.2

// ideationBoost is added to the base temperature for the ideation stage
// to favor more exploratory output.
const ideationBoost = 0.1

// Completer abstracts the inference service so tests can supply a mock.
// Per Strategy pattern (prd002-chain R1.2).
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is one chat exchange: a system role message, a user
// role message, and per-request sampling settings.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64

	// JSONObject hints that the response must be a single structured
	// JSON value. Only the ranking stage sets it.
	JSONObject bool
}

// Result holds the three textual stage outputs of one round.
type Result struct {
	Connection string
	Ideation   string
	RankingRaw string
}

// Runner drives the three stages in sequence.
type Runner struct {
	Backend Completer

	// Temperature is the base sampling temperature (stage 1). Stage 2
	// runs ideationBoost above it, capped at 1.0.
	Temperature float64

	// MaxRetries is the number of retry attempts per stage call (default 3).
	MaxRetries int
}

// Run executes connection, ideation, and ranking against one sampled
// mechanism subset and one problem statement. Progress markers for each
// stage are written to w.
func (r *Runner) Run(ctx context.Context, problem string, mechanisms []string, w io.Writer) (*Result, error) {
	maxRetries := r.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	fmt.Fprintln(w, "[1/3] finding a cross-domain connection...")
	connection, err := r.call(ctx, CompletionRequest{
		System:      connectionSystem,
		User:        mustRender(connectionPromptTmpl, connectionInput{Mechanisms: mechanisms}),
		Temperature: r.Temperature,
	}, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("connection stage: %w", err)
	}

	fmt.Fprintln(w, "[2/3] generating candidate ideas...")
	ideation, err := r.call(ctx, CompletionRequest{
		System: ideationSystem,
		User: mustRender(ideationPromptTmpl, ideationInput{
			Problem:    problem,
			Connection: connection,
			Mechanisms: mechanisms,
		}),
		Temperature: math.Min(r.Temperature+ideationBoost, 1.0),
	}, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("ideation stage: %w", err)
	}

	fmt.Fprintln(w, "[3/3] scoring and ranking ideas...")
	ranking, err := r.call(ctx, CompletionRequest{
		System:      rankingSystem,
		User:        mustRender(rankingPromptTmpl, rankingInput{Ideas: ideation}),
		Temperature: rankingTemperature,
		JSONObject:  true,
	}, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("ranking stage: %w", err)
	}

	return &Result{
		Connection: connection,
		Ideation:   ideation,
		RankingRaw: ranking,
	}, nil
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// call invokes the backend with exponential backoff on transient errors.
func (r *Runner) call(ctx context.Context, req CompletionRequest, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		out, err := r.Backend.Complete(ctx, req)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package primer loads the mechanism pool and draws random subsets from it.
// Implements: prd001-primer (R1-R3).
package primer

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"go.yaml.in/yaml/v3"
)

// Sentinel errors for the distinct primer failure categories. Callers
// distinguish them with errors.Is.
var (
	// ErrNotFound reports a missing primer file.
	ErrNotFound = errors.New("primer file not found")

	// ErrParse reports a primer file that is not valid YAML.
	ErrParse = errors.New("primer file is not valid YAML")

	// ErrSchema reports a primer file whose top-level value is not a
	// list of strings.
	ErrSchema = errors.New("primer file must contain a top-level list of strings")

	// ErrSampleSize reports a sample request the pool cannot satisfy.
	ErrSampleSize = errors.New("invalid sample size")
)

// Load reads path and parses it as a YAML document containing a top-level
// list of mechanism strings. Order is preserved and duplicates are allowed.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading primer %s: %w", path, err)
	}

	// Decode into a generic node first so a non-list document can be
	// reported as a schema problem rather than a YAML type error.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrSchema, doc)
	}

	pool := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d is %T", ErrSchema, i, item)
		}
		pool = append(pool, s)
	}

	return pool, nil
}

// Sample returns k distinct elements of pool chosen uniformly at random
// without replacement, in randomized order. The random source is injected
// so tests can fix the subset. k outside [1, len(pool)] is an explicit
// ErrSampleSize rather than a silent clamp.
func Sample(pool []string, k int, rng *rand.Rand) ([]string, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrSampleSize, k)
	}
	if k > len(pool) {
		return nil, fmt.Errorf("%w: requested %d from a pool of %d", ErrSampleSize, k, len(pool))
	}

	picked := make([]string, len(pool))
	copy(picked, pool)
	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:k], nil
}

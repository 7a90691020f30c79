// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank parses the ranking stage's output tolerantly, filters
// invalid entries, and orders ideas by combined score.
// Implements: prd003-ranking (R1-R4).
package rank

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

const defaultTopN = 3

// wrapperFields are the object fields that may hold the idea list when the
// model wraps its array in an envelope, checked in order.
var wrapperFields = []string{"ideas", "results", "result"}

// Result is the outcome of ranking one raw payload. Exactly one of Ideas
// and Diagnostic is populated.
type Result struct {
	// Ideas is the top-N valid ideas, best first.
	Ideas []types.RankedIdea

	// Diagnostic carries a human-readable failure description embedding
	// the raw payload when no valid ideas could be recovered. Malformed
	// model output is surfaced this way rather than as an error.
	Diagnostic string
}

// Rank parses raw as JSON, tolerating several shapes the model produces:
// a bare array, an object wrapping the array in an "ideas", "results", or
// "result" field, or a lone idea object. Entries without a textual idea
// and finite numeric relevance/plausibility scores are dropped. Survivors
// are sorted descending by combined score (ties keep their original
// order) and the top topN are returned. Rank never fails: unusable input
// yields a diagnostic Result instead.
func Rank(raw string, topN int) Result {
	if topN <= 0 {
		topN = defaultTopN
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Result{Diagnostic: fmt.Sprintf("could not parse ranking output: %v\nraw output:\n%s", err, raw)}
	}

	ideas := filter(normalize(doc))
	if len(ideas) == 0 {
		return Result{Diagnostic: fmt.Sprintf("ranking output contained no scoreable ideas\nraw output:\n%s", raw)}
	}

	sort.SliceStable(ideas, func(i, j int) bool {
		return ideas[i].Combined() > ideas[j].Combined()
	})

	if len(ideas) > topN {
		ideas = ideas[:topN]
	}
	return Result{Ideas: ideas}
}

// normalize reduces the accepted payload shapes to a flat candidate list.
// A lone object is treated as a one-element list, matching the tool's
// long-standing leniency.
func normalize(doc any) []any {
	switch v := doc.(type) {
	case []any:
		return v
	case map[string]any:
		for _, field := range wrapperFields {
			if list, ok := v[field].([]any); ok {
				return list
			}
		}
		return []any{v}
	default:
		return nil
	}
}

// filter keeps entries with a non-empty idea string and finite numeric
// relevance and plausibility.
func filter(entries []any) []types.RankedIdea {
	var ideas []types.RankedIdea
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		idea, ok := obj["idea"].(string)
		if !ok || idea == "" {
			continue
		}
		relevance, ok := finiteNumber(obj["relevance"])
		if !ok {
			continue
		}
		plausibility, ok := finiteNumber(obj["plausibility"])
		if !ok {
			continue
		}
		reasoning, _ := obj["reasoning"].(string)

		ideas = append(ideas, types.RankedIdea{
			Idea:         idea,
			Relevance:    relevance,
			Plausibility: plausibility,
			Reasoning:    reasoning,
		})
	}
	return ideas
}

// finiteNumber extracts a finite float64 from a decoded JSON value.
func finiteNumber(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Display formats the result for console output: one string per ranked
// idea embedding the combined score out of 20 and any reasoning, or the
// lone diagnostic.
func (r Result) Display() []string {
	if r.Diagnostic != "" {
		return []string{r.Diagnostic}
	}

	lines := make([]string, 0, len(r.Ideas))
	for _, idea := range r.Ideas {
		line := fmt.Sprintf("%s (score %g/20)", idea.Idea, idea.Combined())
		if idea.Reasoning != "" {
			line += "\n   " + idea.Reasoning
		}
		lines = append(lines, line)
	}
	return lines
}

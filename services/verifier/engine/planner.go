// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"strconv"
	"strings"
	"time"
)

// maxPlannedQueries caps how many search queries one question produces.
const maxPlannedQueries = 2

// Clock abstracts time for deterministic planner tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// QueryPlanner turns a question into a small, ordered set of search queries.
// The first query is always the raw question; a recency-biased variant
// appends the current and previous calendar years.
type QueryPlanner struct {
	clock Clock
}

// NewQueryPlanner returns a planner using wall-clock time.
func NewQueryPlanner() *QueryPlanner {
	return &QueryPlanner{clock: realClock{}}
}

// NewQueryPlannerWithClock returns a planner with an injected clock.
func NewQueryPlannerWithClock(c Clock) *QueryPlanner {
	return &QueryPlanner{clock: c}
}

// Plan returns the deduplicated query list for question. The raw question
// always comes first, and the result never exceeds maxPlannedQueries.
func (p *QueryPlanner) Plan(question string) []string {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}

	year := p.clock.Now().Year()
	recency := strings.TrimSpace(question) + " " + yearPair(year)

	queries := []string{question, recency}
	seen := make(map[string]struct{}, len(queries))
	out := make([]string, 0, maxPlannedQueries)
	for _, q := range queries {
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
		if len(out) == maxPlannedQueries {
			break
		}
	}
	return out
}

func yearPair(year int) string {
	return strconv.Itoa(year-1) + " " + strconv.Itoa(year)
}

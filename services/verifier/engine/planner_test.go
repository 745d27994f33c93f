// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestQueryPlanner_Plan(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	planner := NewQueryPlannerWithClock(clock)

	tests := []struct {
		name     string
		question string
		want     []string
	}{
		{
			name:     "raw question first then recency variant",
			question: "Who won the World Cup?",
			want: []string{
				"Who won the World Cup?",
				"Who won the World Cup? 2024 2025",
			},
		},
		{
			name:     "whitespace trimmed",
			question: "  what is Go?  ",
			want: []string{
				"what is Go?",
				"what is Go? 2024 2025",
			},
		},
		{
			name:     "empty question yields no queries",
			question: "   ",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := planner.Plan(tt.question)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxPlannedQueries)
		})
	}
}

func TestQueryPlanner_PlanIsDeterministic(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)}
	planner := NewQueryPlannerWithClock(clock)

	first := planner.Plan("How tall is Mount Everest?")
	second := planner.Plan("How tall is Mount Everest?")
	assert.Equal(t, first, second)
}

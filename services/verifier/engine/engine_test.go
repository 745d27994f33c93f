// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthlens/truthlens/services/llm"
	"github.com/truthlens/truthlens/services/search"
	"github.com/truthlens/truthlens/services/verifier/datatypes"
)

// splitLLM answers the generation call with an answer and every later call
// with a verification verdict, mimicking the two roles one backend plays.
type splitLLM struct {
	fakeLLM
	answer  string
	verdict string
	genErr  error
	calls   int
}

func (s *splitLLM) Chat(ctx context.Context, messages []llm.Message, params llm.GenerationParams) (*llm.ChatResult, error) {
	s.calls++
	if s.calls == 1 {
		if s.genErr != nil {
			return nil, s.genErr
		}
		return &llm.ChatResult{Content: s.answer, Citations: s.chatCitations}, nil
	}
	return &llm.ChatResult{Content: s.verdict}, nil
}

func newTestEngine(client llm.Client, provider search.Provider) *Engine {
	return NewEngine(
		llm.NewAnswerGenerator(client),
		NewQueryPlannerWithClock(fixedClock{}),
		NewSourceAggregator(provider, nil),
		NewClaimVerifier(client, 3, nil),
		nil,
	)
}

func TestEngine_GenerateAndVerify(t *testing.T) {
	client := &splitLLM{
		answer: "Water boils at 100C at sea level.",
		verdict: `{
			"overall_confidence": 95,
			"claims": [{"text": "Water boils at 100C at sea level", "status": "verified", "reason": "supported", "sources": ["https://a"]}]
		}`,
	}
	provider := &fakeProvider{
		results: map[string][]search.Result{},
	}
	provider.results["At what temperature does water boil?"] = []search.Result{
		{Title: "Boiling point", Snippet: "Water boils at 100C at 1 atm", URL: "https://a"},
	}

	eng := newTestEngine(client, provider)
	result, err := eng.GenerateAndVerify(context.Background(), "At what temperature does water boil?")

	require.NoError(t, err)
	assert.Equal(t, "Water boils at 100C at sea level.", result.Answer)
	assert.Equal(t, 95, result.Verification.OverallConfidence)
	assert.Equal(t, datatypes.RiskLow, result.Risk.RiskLevel)
	require.NotEmpty(t, result.Sources)
	assert.Equal(t, "https://a", result.Sources[0].URL)
	assert.NotEmpty(t, result.SearchQueries)
	assert.Equal(t, "At what temperature does water boil?", result.SearchQueries[0])
}

func TestEngine_GenerationFailureAborts(t *testing.T) {
	client := &splitLLM{genErr: errors.New("auth failed")}
	eng := newTestEngine(client, &fakeProvider{})

	_, err := eng.GenerateAndVerify(context.Background(), "q")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
}

func TestEngine_VerifyExistingAnswerSkipsGeneration(t *testing.T) {
	// every Chat call is a verifier call here
	client := &fakeLLM{chatContent: `{"overall_confidence": 40, "claims": []}`}
	eng := newTestEngine(client, &fakeProvider{})

	result, err := eng.VerifyExistingAnswer(context.Background(), "q", "the moon is made of cheese")

	require.NoError(t, err)
	assert.Equal(t, 1, client.chatCalls, "no generation call expected")
	assert.Equal(t, "the moon is made of cheese", result.Answer)
	assert.Equal(t, datatypes.RiskHigh, result.Risk.RiskLevel)
}

func TestEngine_CitationFallbackFromGeneration(t *testing.T) {
	client := &splitLLM{
		answer:  "Answer with inline citations.",
		verdict: `{"overall_confidence": 90, "claims": []}`,
	}
	client.chatCitations = []string{"https://cited-1", "https://cited-2"}

	// search finds nothing
	eng := newTestEngine(client, &fakeProvider{})

	result, err := eng.GenerateAndVerify(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, result.Sources, 2)
	assert.Equal(t, "https://cited-1", result.Sources[0].URL)
}

func TestEngine_EmptySourcesStillVerifies(t *testing.T) {
	client := &splitLLM{
		answer:  "Some answer.",
		verdict: `{"overall_confidence": 30, "claims": [{"text": "Some answer", "status": "unsupported", "reason": "no sources", "sources": []}]}`,
	}
	eng := newTestEngine(client, &fakeProvider{})

	result, err := eng.GenerateAndVerify(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, result.Sources)
	assert.Equal(t, datatypes.RiskHigh, result.Risk.RiskLevel)
}

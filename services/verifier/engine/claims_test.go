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
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthlens/truthlens/services/llm"
	"github.com/truthlens/truthlens/services/search"
	"github.com/truthlens/truthlens/services/verifier/datatypes"
)

// fakeLLM implements llm.Client with a canned chat response.
type fakeLLM struct {
	chatContent   string
	chatCitations []string
	chatErr       error
	lastMessages  []llm.Message
	lastParams    llm.GenerationParams
	chatCalls     int
}

func (f *fakeLLM) Model() string { return "fake-model" }

func (f *fakeLLM) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (string, error) {
	result, err := f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, params)
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

func (f *fakeLLM) Chat(ctx context.Context, messages []llm.Message, params llm.GenerationParams) (*llm.ChatResult, error) {
	f.chatCalls++
	f.lastMessages = messages
	f.lastParams = params
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return &llm.ChatResult{Content: f.chatContent, Citations: f.chatCitations}, nil
}

const validVerdict = `{
  "overall_confidence": 95,
  "claims": [
    {"text": "Water boils at 100C at sea level", "status": "verified", "reason": "directly stated", "sources": ["https://a"]}
  ]
}`

func TestClaimVerifier_ParsesVerdict(t *testing.T) {
	client := &fakeLLM{chatContent: validVerdict}
	verifier := NewClaimVerifier(client, 3, nil)

	verification, err := verifier.Verify(context.Background(),
		"At what temperature does water boil?",
		"Water boils at 100C at sea level.",
		[]search.Result{{Title: "Boiling point", Snippet: "100C at 1 atm", URL: "https://a"}})

	require.NoError(t, err)
	assert.Equal(t, 95, verification.OverallConfidence)
	require.Len(t, verification.Claims, 1)
	assert.Equal(t, datatypes.StatusVerified, verification.Claims[0].Status)

	assert.True(t, f32(client.lastParams.Temperature) < 0.3, "verifier should run cold")
	assert.True(t, client.lastParams.JSONMode)
}

func f32(p *float32) float32 {
	if p == nil {
		return 0
	}
	return *p
}

func TestClaimVerifier_StripsCodeFences(t *testing.T) {
	client := &fakeLLM{chatContent: "```json\n" + validVerdict + "\n```"}
	verifier := NewClaimVerifier(client, 3, nil)

	verification, err := verifier.Verify(context.Background(), "q", "a", nil)
	require.NoError(t, err)
	assert.Equal(t, 95, verification.OverallConfidence)
}

func TestClaimVerifier_UnparseableOutputFallsBack(t *testing.T) {
	client := &fakeLLM{chatContent: "I could not produce JSON, sorry."}
	verifier := NewClaimVerifier(client, 3, nil)

	answer := strings.Repeat("x", 300)
	verification, err := verifier.Verify(context.Background(), "q", answer, nil)

	require.NoError(t, err, "parse failure must degrade, not error")
	assert.Equal(t, 50, verification.OverallConfidence)
	require.Len(t, verification.Claims, 1)
	claim := verification.Claims[0]
	assert.Equal(t, datatypes.StatusUncertain, claim.Status)
	assert.LessOrEqual(t, len(claim.Text), 203)
	assert.Contains(t, claim.Reason, "error")
}

func TestFallbackVerification_TruncatesOnRuneBoundary(t *testing.T) {
	answer := strings.Repeat("水", 300)

	verification := FallbackVerification(answer)

	require.Len(t, verification.Claims, 1)
	text := verification.Claims[0].Text
	assert.True(t, utf8.ValidString(text), "truncation must not split a rune")
	assert.Equal(t, 203, utf8.RuneCountInString(text), "200 answer runes plus ellipsis")
	assert.True(t, strings.HasSuffix(text, "..."))
}

func TestClaimVerifier_TransportErrorIsHard(t *testing.T) {
	client := &fakeLLM{chatErr: errors.New("connection refused")}
	verifier := NewClaimVerifier(client, 3, nil)

	_, err := verifier.Verify(context.Background(), "q", "a", nil)

	var verErr *VerificationError
	require.ErrorAs(t, err, &verErr)
}

func TestClaimVerifier_ConfidenceClamped(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"above range", `{"overall_confidence": 150, "claims": []}`, 100},
		{"below range", `{"overall_confidence": -10, "claims": []}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeLLM{chatContent: tt.content}
			verifier := NewClaimVerifier(client, 3, nil)
			verification, err := verifier.Verify(context.Background(), "q", "a", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, verification.OverallConfidence)
		})
	}
}

func TestClaimVerifier_UnknownStatusCoerced(t *testing.T) {
	client := &fakeLLM{chatContent: `{
		"overall_confidence": 70,
		"claims": [{"text": "c", "status": "plausible", "reason": "r", "sources": []}]
	}`}
	verifier := NewClaimVerifier(client, 3, nil)

	verification, err := verifier.Verify(context.Background(), "q", "a", nil)
	require.NoError(t, err)
	require.Len(t, verification.Claims, 1)
	assert.Equal(t, datatypes.StatusUncertain, verification.Claims[0].Status)
}

func TestFormatSources(t *testing.T) {
	t.Run("empty set is stated explicitly", func(t *testing.T) {
		assert.Equal(t, "No sources available.", formatSources(nil, 3))
	})

	t.Run("caps at max and numbers from one", func(t *testing.T) {
		sources := []search.Result{
			{Title: "T1", Snippet: "S1", URL: "https://1"},
			{Title: "T2", Snippet: "S2", URL: "https://2"},
			{Title: "T3", Snippet: "S3", URL: "https://3"},
			{Title: "T4", Snippet: "S4", URL: "https://4"},
		}
		formatted := formatSources(sources, 3)
		assert.Contains(t, formatted, "[Source 1]")
		assert.Contains(t, formatted, "[Source 3]")
		assert.NotContains(t, formatted, "[Source 4]")
	})

	t.Run("missing fields get placeholders", func(t *testing.T) {
		formatted := formatSources([]search.Result{{}}, 3)
		assert.Contains(t, formatted, "Title: Unknown")
		assert.Contains(t, formatted, "URL: No URL")
		assert.Contains(t, formatted, "Content: No content")
	})
}

func TestClaimVerifier_PromptCarriesQuestionAnswerSources(t *testing.T) {
	client := &fakeLLM{chatContent: validVerdict}
	verifier := NewClaimVerifier(client, 3, nil)

	_, err := verifier.Verify(context.Background(),
		"What is the capital of France?",
		"Paris is the capital of France.",
		[]search.Result{{Title: "France", Snippet: "Paris is the capital", URL: "https://fr"}})
	require.NoError(t, err)

	require.Len(t, client.lastMessages, 2)
	assert.Equal(t, "system", client.lastMessages[0].Role)
	user := client.lastMessages[1].Content
	assert.Contains(t, user, "What is the capital of France?")
	assert.Contains(t, user, "Paris is the capital of France.")
	assert.Contains(t, user, "https://fr")
}

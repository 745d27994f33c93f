// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/truthlens/truthlens/services/llm"
	"github.com/truthlens/truthlens/services/search"
	"github.com/truthlens/truthlens/services/verifier/datatypes"
)

// DefaultMaxVerifierSources caps how many sources are formatted into the
// verifier prompt.
const DefaultMaxVerifierSources = 3

// verifierSystemPrompt constrains the model to adjudication only. The JSON
// contract and the confidence formula live in the prompt because the model,
// not the service, computes overall confidence.
const verifierSystemPrompt = `You are a strict fact-checking AI. Your job is to verify claims against provided sources.

CRITICAL RULES:
- You must NOT generate new information
- You ONLY assess whether claims are supported by the given sources
- Never hallucinate or assume sources exist
- When evidence is weak or missing, mark as "uncertain" or "unsupported"

For each factual claim in the answer, determine:
1. Is it directly supported by sources? → "verified"
2. Is it partially supported or unclear? → "uncertain"
3. Does it contradict sources? → "contradicted"
4. Is information potentially outdated (before 2024)? → "outdated"
5. No source addresses this claim? → "unsupported"

You MUST respond with valid JSON in this exact format:
{
  "overall_confidence": 0-100,
  "claims": [
    {
      "text": "specific claim from the answer",
      "status": "verified|uncertain|outdated|unsupported|contradicted",
      "reason": "brief explanation",
      "sources": ["source title or URL if applicable"]
    }
  ]
}

Status definitions:
- verified: Strong evidence from sources
- uncertain: Weak or ambiguous evidence
- outdated: Information from before 2024 or explicitly marked as old
- unsupported: No source addresses this claim
- contradicted: Sources disagree with the claim

Calculate overall_confidence as:
- Start at 100
- Subtract 5 for each "uncertain" claim
- Subtract 15 for each "outdated" claim
- Subtract 20 for each "unsupported" claim
- Subtract 30 for each "contradicted" claim
- Minimum score is 0`

// FallbackMetrics counts degraded verdicts. Implemented by the
// observability package; nil disables recording.
type FallbackMetrics interface {
	RecordFallbackVerification()
}

// ClaimVerifier asks an LLM to adjudicate an answer's factual claims against
// a source set and parses the structured verdict.
type ClaimVerifier struct {
	client     llm.Client
	maxSources int
	logger     *slog.Logger
	metrics    FallbackMetrics
}

// NewClaimVerifier builds a verifier over client. maxSources <= 0 falls back
// to DefaultMaxVerifierSources.
func NewClaimVerifier(client llm.Client, maxSources int, logger *slog.Logger) *ClaimVerifier {
	if maxSources <= 0 {
		maxSources = DefaultMaxVerifierSources
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ClaimVerifier{client: client, maxSources: maxSources, logger: logger}
}

// WithMetrics attaches a fallback verdict counter.
func (v *ClaimVerifier) WithMetrics(m FallbackMetrics) *ClaimVerifier {
	v.metrics = m
	return v
}

// Verify adjudicates answer against sources. Unparseable model output
// degrades to a fallback verdict (confidence 50, one uncertain claim) and is
// never an error; a transport failure returns a VerificationError.
//
// An empty source set is passed through as "No sources available." so the
// verifier marks claims unsupported or uncertain rather than the pipeline
// refusing to run.
func (v *ClaimVerifier) Verify(ctx context.Context, question, answer string, sources []search.Result) (datatypes.Verification, error) {
	userPrompt := fmt.Sprintf(`
Original Question: %s

Answer to Verify:
%s

Available Sources:
%s

Analyze the answer and return your verification results as valid JSON.
`, question, answer, formatSources(sources, v.maxSources))

	temp := float32(0.2)
	maxTokens := 2000
	result, err := v.client.Chat(ctx, []llm.Message{
		{Role: "system", Content: verifierSystemPrompt},
		{Role: "user", Content: userPrompt},
	}, llm.GenerationParams{
		Temperature: &temp,
		MaxTokens:   &maxTokens,
		JSONMode:    true,
	})
	if err != nil {
		return datatypes.Verification{}, &VerificationError{Err: err}
	}

	verification, ok := parseVerification(result.Content)
	if !ok {
		v.logger.Warn("verifier returned unparseable output, using fallback verdict",
			"output_len", len(result.Content))
		if v.metrics != nil {
			v.metrics.RecordFallbackVerification()
		}
		return FallbackVerification(answer), nil
	}
	return verification, nil
}

// parseVerification decodes the model's JSON verdict, tolerating markdown
// code fences around the payload.
func parseVerification(raw string) (datatypes.Verification, bool) {
	raw = stripCodeFence(strings.TrimSpace(raw))

	var verification datatypes.Verification
	if err := json.Unmarshal([]byte(raw), &verification); err != nil {
		return datatypes.Verification{}, false
	}
	verification.Normalize()
	return verification, true
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// FallbackVerification is the degraded verdict used when the verifier's
// output cannot be parsed. Confidence 50 lands in the medium risk tier,
// signaling the caller that nothing was actually checked.
func FallbackVerification(answer string) datatypes.Verification {
	text := answer
	if runes := []rune(text); len(runes) > 200 {
		text = string(runes[:200]) + "..."
	}
	return datatypes.Verification{
		OverallConfidence: 50,
		Claims: []datatypes.Claim{
			{
				Text:    text,
				Status:  datatypes.StatusUncertain,
				Reason:  "Verification system encountered an error",
				Sources: []string{},
			},
		},
	}
}

func formatSources(sources []search.Result, max int) string {
	if len(sources) == 0 {
		return "No sources available."
	}
	if len(sources) > max {
		sources = sources[:max]
	}

	var b strings.Builder
	for i, s := range sources {
		title := s.Title
		if title == "" {
			title = "Unknown"
		}
		snippet := s.Snippet
		if snippet == "" {
			snippet = "No content"
		}
		url := s.URL
		if url == "" {
			url = "No URL"
		}
		fmt.Fprintf(&b, "[Source %d]\nTitle: %s\nURL: %s\nContent: %s\n\n", i+1, title, url, snippet)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

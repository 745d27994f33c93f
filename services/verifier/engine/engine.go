// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/truthlens/truthlens/services/llm"
	"github.com/truthlens/truthlens/services/search"
	"github.com/truthlens/truthlens/services/verifier/datatypes"
)

var tracer = otel.Tracer("truthlens.verifier.engine")

// Result is the complete outcome of one pipeline run.
type Result struct {
	Question      string
	Answer        string
	Verification  datatypes.Verification
	Risk          datatypes.RiskAssessment
	Sources       []search.Result
	SearchQueries []string
}

// Engine runs the verification pipeline: generate (optionally), plan
// queries, gather sources, verify claims, score risk. Each run is
// independent; the engine holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	generator  *llm.AnswerGenerator
	planner    *QueryPlanner
	aggregator *SourceAggregator
	verifier   *ClaimVerifier
	logger     *slog.Logger
}

// NewEngine assembles the pipeline from its stages.
func NewEngine(generator *llm.AnswerGenerator, planner *QueryPlanner, aggregator *SourceAggregator, verifier *ClaimVerifier, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		generator:  generator,
		planner:    planner,
		aggregator: aggregator,
		verifier:   verifier,
		logger:     logger,
	}
}

// GenerateAndVerify answers the question and then fact-checks that answer.
// A generation failure aborts the run with a GenerationError. Once an answer
// exists the run always produces a verdict: search failures degrade to fewer
// sources and verifier parse failures degrade to the fallback verdict.
func (e *Engine) GenerateAndVerify(ctx context.Context, question string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "engine.GenerateAndVerify",
		trace.WithAttributes(attribute.Int("question.len", len(question))))
	defer span.End()

	answer, citations, err := e.generator.GenerateAnswer(ctx, question)
	if err != nil {
		span.RecordError(err)
		return nil, &GenerationError{Err: err}
	}
	e.logger.Debug("answer generated", "answer_len", len(answer), "citations", len(citations))

	return e.verify(ctx, question, answer, citations)
}

// VerifyExistingAnswer fact-checks a caller-supplied answer. No generation
// happens, so no generation citations exist for the aggregator fallback.
func (e *Engine) VerifyExistingAnswer(ctx context.Context, question, answer string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "engine.VerifyExistingAnswer",
		trace.WithAttributes(attribute.Int("answer.len", len(answer))))
	defer span.End()

	return e.verify(ctx, question, answer, nil)
}

func (e *Engine) verify(ctx context.Context, question, answer string, citations []string) (*Result, error) {
	queries := e.planner.Plan(question)

	var citationFallback CitationSource
	if len(citations) > 0 {
		citationFallback = func() []search.Result {
			results := make([]search.Result, 0, len(citations))
			for _, url := range citations {
				results = append(results, search.Result{
					Title:   "Citation",
					Snippet: "Source cited during answer generation",
					URL:     url,
				})
			}
			return results
		}
	}

	sources := e.aggregator.Gather(ctx, queries, citationFallback)
	e.logger.Info("sources aggregated",
		"queries", len(queries),
		"sources", len(sources))

	verification, err := e.verifier.Verify(ctx, question, answer, sources)
	if err != nil {
		return nil, err
	}

	return &Result{
		Question:      question,
		Answer:        answer,
		Verification:  verification,
		Risk:          ScoreRisk(verification),
		Sources:       sources,
		SearchQueries: queries,
	}, nil
}

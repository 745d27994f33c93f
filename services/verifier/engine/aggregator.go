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
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/truthlens/truthlens/services/search"
)

const (
	// aggregatorWorkers bounds concurrent search queries.
	aggregatorWorkers = 3

	// perQueryTimeout bounds each individual query, not the whole batch.
	perQueryTimeout = 15 * time.Second

	// maxResultsPerQuery is passed through to the provider.
	maxResultsPerQuery = 3
)

// CitationSource converts generation-time citation URLs into search results
// when every search query came back empty. Perplexity-style backends that
// cite sources inline satisfy this with the URLs captured at generation.
type CitationSource func() []search.Result

// SearchMetrics receives per-query outcomes. Implemented by the
// observability package; nil disables recording.
type SearchMetrics interface {
	RecordSearchQuery(provider string, ok bool)
}

// SourceAggregator fans queries out to a search provider and merges the
// results into one deduplicated source set. Individual query failures are
// soft: they are logged and skipped, never propagated.
type SourceAggregator struct {
	provider search.Provider
	logger   *slog.Logger
	metrics  SearchMetrics
	timeout  time.Duration
}

// NewSourceAggregator builds an aggregator over provider.
func NewSourceAggregator(provider search.Provider, logger *slog.Logger) *SourceAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SourceAggregator{provider: provider, logger: logger, timeout: perQueryTimeout}
}

// WithMetrics attaches a per-query outcome recorder.
func (a *SourceAggregator) WithMetrics(m SearchMetrics) *SourceAggregator {
	a.metrics = m
	return a
}

// WithPerQueryTimeout overrides the per-query deadline. d <= 0 keeps the
// default.
func (a *SourceAggregator) WithPerQueryTimeout(d time.Duration) *SourceAggregator {
	if d > 0 {
		a.timeout = d
	}
	return a
}

// Gather runs every query concurrently (bounded by aggregatorWorkers, each
// under the per-query timeout) and merges the results, keeping the first
// occurrence of each URL and dropping results with no URL at all. Results
// from successful queries are collected whole before merging, so ordering
// within a query is preserved and merge order follows query completion. If
// all queries fail or return nothing and citations yields fallback sources,
// those pass through the same dedup before being returned. An empty result
// is success, not an error: verification proceeds on whatever evidence
// exists.
func (a *SourceAggregator) Gather(ctx context.Context, queries []string, citations CitationSource) []search.Result {
	type batch struct {
		query   string
		results []search.Result
	}

	var (
		mu      sync.Mutex
		batches []batch
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(aggregatorWorkers)
	for _, query := range queries {
		query := query
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(gctx, a.timeout)
			defer cancel()

			results, err := a.provider.Search(qctx, query, maxResultsPerQuery)
			if a.metrics != nil {
				a.metrics.RecordSearchQuery(a.provider.Name(), err == nil)
			}
			if err != nil {
				a.logger.Warn("search query failed",
					"provider", a.provider.Name(),
					"query", query,
					"error", err)
				return nil
			}
			mu.Lock()
			batches = append(batches, batch{query: query, results: results})
			mu.Unlock()
			return nil
		})
	}
	// workers never return errors; Wait only synchronizes
	_ = g.Wait()

	var flat []search.Result
	for _, b := range batches {
		flat = append(flat, b.results...)
	}
	merged := dedupeByURL(flat)

	if len(merged) == 0 && citations != nil {
		if fallback := dedupeByURL(citations()); len(fallback) > 0 {
			a.logger.Info("search returned no results, using generation citations",
				"count", len(fallback))
			return fallback
		}
	}
	return merged
}

// dedupeByURL keeps the first occurrence of each URL and drops results that
// have no URL: a source the verifier cannot point at is not evidence.
func dedupeByURL(results []search.Result) []search.Result {
	seen := make(map[string]struct{}, len(results))
	var out []search.Result
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

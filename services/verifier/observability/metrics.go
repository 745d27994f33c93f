// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the verification
// pipeline. Metrics are exposed via the /metrics endpoint; all operations
// are thread-safe via Prometheus's internal locking.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/truthlens/truthlens/services/verifier/datatypes"
)

const metricsNamespace = "truthlens"

const pipelineSubsystem = "pipeline"

// PipelineMetrics holds all Prometheus metrics for verification runs.
// Initialize once at startup via InitMetrics; registering twice panics.
type PipelineMetrics struct {
	// RequestsTotal counts verification requests by endpoint and status.
	// Labels: endpoint (verify, verify_existing), status (success, error)
	RequestsTotal *prometheus.CounterVec

	// DurationSeconds measures end-to-end pipeline duration.
	// Labels: endpoint
	DurationSeconds *prometheus.HistogramVec

	// SearchQueriesTotal counts search queries by provider and outcome.
	// Labels: provider, outcome (ok, error)
	SearchQueriesTotal *prometheus.CounterVec

	// SourcesAggregated measures how many sources each run gathered.
	SourcesAggregated prometheus.Histogram

	// ClaimsTotal counts adjudicated claims by status.
	// Labels: status (verified, uncertain, outdated, unsupported, contradicted)
	ClaimsTotal *prometheus.CounterVec

	// RiskLevelsTotal counts completed runs by assessed risk level.
	// Labels: level (low, medium, high)
	RiskLevelsTotal *prometheus.CounterVec

	// FallbackVerificationsTotal counts runs that degraded to the fallback
	// verdict because the verifier's output was unparseable.
	FallbackVerificationsTotal prometheus.Counter

	// PolicyRejectionsTotal counts requests rejected by the input scan.
	// Labels: classification
	PolicyRejectionsTotal *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance, set by InitMetrics.
var DefaultMetrics *PipelineMetrics

// InitMetrics creates and registers all pipeline metrics against the
// Prometheus default registry.
func InitMetrics() *PipelineMetrics {
	DefaultMetrics = &PipelineMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "requests_total",
				Help:      "Total verification requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		DurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "duration_seconds",
				Help:      "End-to-end verification pipeline duration in seconds",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"endpoint"},
		),

		SearchQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "search_queries_total",
				Help:      "Total search queries by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),

		SourcesAggregated: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "sources_aggregated",
				Help:      "Number of deduplicated sources gathered per run",
				Buckets:   []float64{0, 1, 2, 3, 4, 6, 9},
			},
		),

		ClaimsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "claims_total",
				Help:      "Total adjudicated claims by status",
			},
			[]string{"status"},
		),

		RiskLevelsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "risk_levels_total",
				Help:      "Completed verification runs by risk level",
			},
			[]string{"level"},
		),

		FallbackVerificationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "fallback_verifications_total",
				Help:      "Runs that used the degraded fallback verdict",
			},
		),

		PolicyRejectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "policy_rejections_total",
				Help:      "Requests rejected by the sensitive data scan",
			},
			[]string{"classification"},
		),
	}
	return DefaultMetrics
}

// Endpoint labels the two verification entry points.
type Endpoint string

const (
	EndpointVerify         Endpoint = "verify"
	EndpointVerifyExisting Endpoint = "verify_existing"
)

// RecordRequest records a completed request and its duration.
func (m *PipelineMetrics) RecordRequest(endpoint Endpoint, success bool, elapsed time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(string(endpoint), status).Inc()
	m.DurationSeconds.WithLabelValues(string(endpoint)).Observe(elapsed.Seconds())
}

// RecordSearchQuery records one search query's outcome.
func (m *PipelineMetrics) RecordSearchQuery(provider string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.SearchQueriesTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordFallbackVerification counts one degraded verdict.
func (m *PipelineMetrics) RecordFallbackVerification() {
	m.FallbackVerificationsTotal.Inc()
}

// RecordPolicyRejection counts one request blocked by the input scan.
func (m *PipelineMetrics) RecordPolicyRejection(classification string) {
	m.PolicyRejectionsTotal.WithLabelValues(classification).Inc()
}

// RecordOutcome records the per-run source and claim tallies.
func (m *PipelineMetrics) RecordOutcome(sources int, risk datatypes.RiskAssessment) {
	m.SourcesAggregated.Observe(float64(sources))
	for status, count := range risk.StatusCounts {
		if count > 0 {
			m.ClaimsTotal.WithLabelValues(string(status)).Add(float64(count))
		}
	}
	m.RiskLevelsTotal.WithLabelValues(string(risk.RiskLevel)).Inc()
}

// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the core data model of the verification service.
package datatypes

import (
	"encoding/json"
	"fmt"
)

// ClaimStatus is the closed set of verdicts a claim can carry.
//
// Parsing coerces any value outside this set to StatusUncertain so that
// malformed model output can never leak arbitrary strings into risk tallies.
type ClaimStatus string

const (
	// StatusVerified: strong, direct support from a source.
	StatusVerified ClaimStatus = "verified"

	// StatusUncertain: weak or ambiguous evidence.
	StatusUncertain ClaimStatus = "uncertain"

	// StatusOutdated: information from before 2024 or explicitly stale.
	StatusOutdated ClaimStatus = "outdated"

	// StatusUnsupported: no source addresses the claim.
	StatusUnsupported ClaimStatus = "unsupported"

	// StatusContradicted: a source disagrees with the claim.
	StatusContradicted ClaimStatus = "contradicted"
)

// AllClaimStatuses lists the five verdict kinds in display order.
var AllClaimStatuses = []ClaimStatus{
	StatusVerified,
	StatusUncertain,
	StatusOutdated,
	StatusUnsupported,
	StatusContradicted,
}

// ParseClaimStatus normalizes a raw status string, coercing anything outside
// the five defined kinds to StatusUncertain.
func ParseClaimStatus(s string) ClaimStatus {
	switch ClaimStatus(s) {
	case StatusVerified, StatusUncertain, StatusOutdated, StatusUnsupported, StatusContradicted:
		return ClaimStatus(s)
	default:
		return StatusUncertain
	}
}

// UnmarshalJSON coerces unknown status values instead of rejecting the
// whole verification payload.
func (c *ClaimStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("claim status must be a string: %w", err)
	}
	*c = ParseClaimStatus(s)
	return nil
}

// Claim is a single factual assertion extracted from the answer and
// adjudicated against the retrieved sources.
type Claim struct {
	// Text is a verbatim excerpt of the answer.
	Text string `json:"text"`

	// Status is the verdict for this claim.
	Status ClaimStatus `json:"status"`

	// Reason is the verifier's brief explanation.
	Reason string `json:"reason"`

	// Sources lists supporting source titles or URLs, if any.
	Sources []string `json:"sources"`
}

// Verification is the structured verdict for one answer against one source
// set. It is produced once and never mutated, only recomputed.
type Verification struct {
	// OverallConfidence is 0-100 per the verifier prompt's scoring formula.
	OverallConfidence int `json:"overall_confidence"`

	// Claims holds the per-claim verdicts.
	Claims []Claim `json:"claims"`
}

// Normalize clamps OverallConfidence into [0,100] and guarantees Claims is
// non-nil. Called once after parsing model output.
func (v *Verification) Normalize() {
	if v.OverallConfidence < 0 {
		v.OverallConfidence = 0
	}
	if v.OverallConfidence > 100 {
		v.OverallConfidence = 100
	}
	if v.Claims == nil {
		v.Claims = []Claim{}
	}
}

// RiskLevel is the coarse hallucination-risk bucket shown to end users.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskAssessment is a pure derived view of a Verification. It has no
// independent lifecycle and is recomputed on demand.
type RiskAssessment struct {
	Confidence   int                 `json:"confidence"`
	RiskLevel    RiskLevel           `json:"risk_level"`
	RiskColor    string              `json:"risk_color"`
	RiskEmoji    string              `json:"risk_emoji"`
	RiskMessage  string              `json:"risk_message"`
	StatusCounts map[ClaimStatus]int `json:"status_counts"`
	TotalClaims  int                 `json:"total_claims"`
}

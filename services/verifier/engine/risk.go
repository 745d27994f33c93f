// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import "github.com/truthlens/truthlens/services/verifier/datatypes"

// ScoreRisk derives a risk assessment from a verification. It is a pure
// function of its input: same verification, same assessment, no clock, no
// I/O. Confidence >= 80 is low risk, >= 50 medium, below that high.
func ScoreRisk(v datatypes.Verification) datatypes.RiskAssessment {
	counts := make(map[datatypes.ClaimStatus]int, len(datatypes.AllClaimStatuses))
	for _, status := range datatypes.AllClaimStatuses {
		counts[status] = 0
	}
	for _, claim := range v.Claims {
		// ParseClaimStatus already ran at decode time, but direct struct
		// construction can still carry arbitrary values
		counts[datatypes.ParseClaimStatus(string(claim.Status))]++
	}

	assessment := datatypes.RiskAssessment{
		Confidence:   v.OverallConfidence,
		StatusCounts: counts,
		TotalClaims:  len(v.Claims),
	}

	switch {
	case v.OverallConfidence >= 80:
		assessment.RiskLevel = datatypes.RiskLow
		assessment.RiskColor = "green"
		assessment.RiskEmoji = "✅"
		assessment.RiskMessage = "High confidence - Claims are well-supported"
	case v.OverallConfidence >= 50:
		assessment.RiskLevel = datatypes.RiskMedium
		assessment.RiskColor = "yellow"
		assessment.RiskEmoji = "⚠️"
		assessment.RiskMessage = "Medium confidence - Some claims need verification"
	default:
		assessment.RiskLevel = datatypes.RiskHigh
		assessment.RiskColor = "red"
		assessment.RiskEmoji = "❌"
		assessment.RiskMessage = "Low confidence - Multiple unsupported claims"
	}
	return assessment
}

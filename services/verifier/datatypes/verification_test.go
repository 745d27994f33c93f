// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClaimStatus(t *testing.T) {
	tests := []struct {
		in   string
		want ClaimStatus
	}{
		{"verified", StatusVerified},
		{"uncertain", StatusUncertain},
		{"outdated", StatusOutdated},
		{"unsupported", StatusUnsupported},
		{"contradicted", StatusContradicted},
		{"plausible", StatusUncertain},
		{"VERIFIED", StatusUncertain},
		{"", StatusUncertain},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseClaimStatus(tt.in), "input %q", tt.in)
	}
}

func TestClaimStatus_UnmarshalCoercion(t *testing.T) {
	var claim Claim
	err := json.Unmarshal([]byte(`{"text": "c", "status": "fabricated", "reason": "r", "sources": []}`), &claim)
	require.NoError(t, err)
	assert.Equal(t, StatusUncertain, claim.Status)
}

func TestClaimStatus_UnmarshalRejectsNonString(t *testing.T) {
	var claim Claim
	err := json.Unmarshal([]byte(`{"text": "c", "status": 5}`), &claim)
	assert.Error(t, err)
}

func TestVerification_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Verification
		want int
	}{
		{"clamps high", Verification{OverallConfidence: 120}, 100},
		{"clamps low", Verification{OverallConfidence: -5}, 0},
		{"keeps valid", Verification{OverallConfidence: 73}, 73},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			assert.Equal(t, tt.want, tt.in.OverallConfidence)
			assert.NotNil(t, tt.in.Claims)
		})
	}
}

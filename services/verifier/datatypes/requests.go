// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "github.com/truthlens/truthlens/services/search"

// VerifyRequest asks the service to generate an answer and verify it.
type VerifyRequest struct {
	Question string `json:"question" binding:"required"`
}

// VerifyExistingRequest asks the service to verify a caller-supplied answer
// without generating one.
type VerifyExistingRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// VerificationResponse is the full pipeline result returned to callers.
type VerificationResponse struct {
	ID            string          `json:"id"`
	Question      string          `json:"question"`
	Answer        string          `json:"answer"`
	Verification  Verification    `json:"verification"`
	Risk          RiskAssessment  `json:"risk"`
	Sources       []search.Result `json:"sources"`
	SearchQueries []string        `json:"search_queries"`
	CreatedAt     string          `json:"created_at"`
}

// ErrorResponse is the uniform error envelope for the HTTP surface.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package engine implements the verification pipeline: query planning,
// concurrent source aggregation, claim verification, and risk scoring.
package engine

import "fmt"

// GenerationError is a hard failure: the answer backend was unreachable or
// returned garbage, so the pipeline cannot proceed.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("answer generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// VerificationError is a hard failure of the verifier transport itself,
// as opposed to unparseable verifier output, which degrades to a fallback
// verdict instead.
type VerificationError struct {
	Err error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("claim verification failed: %v", e.Err)
}

func (e *VerificationError) Unwrap() error { return e.Err }

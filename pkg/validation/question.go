// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation normalizes and bounds user-supplied input before it
// enters the pipeline.
package validation

import (
	"errors"
	"strings"
	"unicode"
)

// MaxQuestionLength bounds the question so prompt budgets stay predictable.
const MaxQuestionLength = 2000

var (
	ErrEmptyQuestion   = errors.New("question must not be empty")
	ErrQuestionTooLong = errors.New("question exceeds maximum length")
)

// SanitizeQuestion trims whitespace, strips control characters, and enforces
// length bounds. Returns the cleaned question or an error describing the
// rejection.
func SanitizeQuestion(question string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, question)
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return "", ErrEmptyQuestion
	}
	if len(cleaned) > MaxQuestionLength {
		return "", ErrQuestionTooLong
	}
	return cleaned, nil
}

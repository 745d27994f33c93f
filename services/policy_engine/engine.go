// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package policy_engine screens inbound text for sensitive data before it is
// sent to external LLM and search backends. Questions and answers carrying
// credentials or PII are rejected at the edge rather than leaked to third
// parties.
package policy_engine

import (
	"fmt"
	"strings"

	"github.com/truthlens/truthlens/services/policy_engine/enforcement"
	"gopkg.in/yaml.v3"
)

// PolicyEngine holds the compiled classification rules and scans request
// text against them. It is immutable after construction and safe for
// concurrent use.
type PolicyEngine struct {
	Classifiers []Classification
}

// NewPolicyEngine loads the pattern definitions embedded in the binary,
// compiles their regexes, and sorts classifications by priority.
//
// Returns an error if the embedded YAML is malformed or contains invalid
// regex, which is a build defect rather than a runtime condition.
func NewPolicyEngine() (*PolicyEngine, error) {
	var classificationFile ClassificationFile
	if err := yaml.Unmarshal(enforcement.DataClassificationPatterns, &classificationFile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal the embedded policy file: %w", err)
	}

	if err := classificationFile.CompileRegexes(); err != nil {
		return nil, fmt.Errorf("failed to compile a regex %w", err)
	}
	classificationFile.SortByPriority()

	return &PolicyEngine{Classifiers: classificationFile.Classifications}, nil
}

// Classify returns the name of the highest-priority classification that
// matches the text, or "public" if none do. Used where only a yes/no gate is
// needed and the per-match detail of ScanText would be wasted.
func (e *PolicyEngine) Classify(data []byte) string {
	for _, classifier := range e.Classifiers {
		for _, re := range classifier.CompiledPatterns {
			if re.Match(data) {
				return classifier.Name
			}
		}
	}
	return "public"
}

// ScanText audits text line by line against every pattern and reports each
// match. Intended for the request path, where the caller needs enough detail
// to explain a rejection without echoing the sensitive value back.
func (e *PolicyEngine) ScanText(content string) []Finding {
	var findings []Finding
	lines := strings.Split(content, "\n")
	for lineNum, line := range lines {
		for _, classifier := range e.Classifiers {
			for _, pattern := range classifier.Patterns {
				match := pattern.compiledPattern.FindString(line)
				if match != "" {
					findings = append(findings, Finding{
						LineNumber:         lineNum + 1,
						MatchedContent:     strings.TrimSpace(match),
						ClassificationName: classifier.Name,
						PatternId:          pattern.Id,
						PatternDescription: pattern.Description,
						Confidence:         pattern.Confidence,
					})
				}
			}
		}
	}
	return findings
}

// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers provides HTTP request handlers for the verification
// service.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/truthlens/truthlens/pkg/validation"
	"github.com/truthlens/truthlens/services/policy_engine"
	"github.com/truthlens/truthlens/services/verifier/datatypes"
	"github.com/truthlens/truthlens/services/verifier/engine"
	"github.com/truthlens/truthlens/services/verifier/history"
	"github.com/truthlens/truthlens/services/verifier/observability"
)

// Deps bundles the long-lived collaborators the handlers close over.
type Deps struct {
	Engine  *engine.Engine
	Policy  *policy_engine.PolicyEngine
	Store   *history.Store
	Metrics *observability.PipelineMetrics
}

// HandleVerify generates an answer to the question and fact-checks it.
//
// POST /v1/verify {"question": "..."}
func HandleVerify(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.VerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		question, err := validation.SanitizeQuestion(req.Question)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if rejected(c, deps, question) {
			return
		}

		start := time.Now()
		result, err := deps.Engine.GenerateAndVerify(c.Request.Context(), question)
		if err != nil {
			deps.Metrics.RecordRequest(observability.EndpointVerify, false, time.Since(start))
			respondPipelineError(c, err)
			return
		}
		deps.Metrics.RecordRequest(observability.EndpointVerify, true, time.Since(start))

		c.JSON(http.StatusOK, finishRun(deps, result))
	}
}

// HandleVerifyExisting fact-checks a caller-supplied answer.
//
// POST /v1/verify/existing {"question": "...", "answer": "..."}
func HandleVerifyExisting(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.VerifyExistingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		question, err := validation.SanitizeQuestion(req.Question)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if rejected(c, deps, question) || rejected(c, deps, req.Answer) {
			return
		}

		start := time.Now()
		result, err := deps.Engine.VerifyExistingAnswer(c.Request.Context(), question, req.Answer)
		if err != nil {
			deps.Metrics.RecordRequest(observability.EndpointVerifyExisting, false, time.Since(start))
			respondPipelineError(c, err)
			return
		}
		deps.Metrics.RecordRequest(observability.EndpointVerifyExisting, true, time.Since(start))

		c.JSON(http.StatusOK, finishRun(deps, result))
	}
}

// rejected scans text for sensitive data and writes a 400 when the scan
// matches. The matched content itself is never echoed back.
func rejected(c *gin.Context, deps *Deps, text string) bool {
	findings := deps.Policy.ScanText(text)
	if len(findings) == 0 {
		return false
	}
	top := findings[0]
	slog.Warn("request blocked by sensitive data scan",
		"classification", top.ClassificationName,
		"pattern", top.PatternId,
		"findings", len(findings))
	deps.Metrics.RecordPolicyRejection(top.ClassificationName)
	c.JSON(http.StatusBadRequest, gin.H{
		"error":          "Request contains sensitive data and was not processed",
		"classification": top.ClassificationName,
	})
	return true
}

// finishRun assigns the run an ID, archives it, and records outcome metrics.
// A failed archive write is logged but never fails the request.
func finishRun(deps *Deps, result *engine.Result) *datatypes.VerificationResponse {
	response := &datatypes.VerificationResponse{
		ID:            uuid.NewString(),
		Question:      result.Question,
		Answer:        result.Answer,
		Verification:  result.Verification,
		Risk:          result.Risk,
		Sources:       result.Sources,
		SearchQueries: result.SearchQueries,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	deps.Metrics.RecordOutcome(len(result.Sources), result.Risk)

	if deps.Store != nil {
		if err := deps.Store.Put(response); err != nil {
			slog.Error("Failed to archive verification", "id", response.ID, "error", err)
		}
	}
	return response
}

func respondPipelineError(c *gin.Context, err error) {
	var genErr *engine.GenerationError
	var verErr *engine.VerificationError
	switch {
	case errors.As(err, &genErr):
		slog.Error("Answer generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": genErr.Error()})
	case errors.As(err, &verErr):
		slog.Error("Claim verification failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": verErr.Error()})
	default:
		slog.Error("Verification pipeline failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServiceConfig is the non-secret runtime configuration exposed over HTTP.
// API keys are never included.
type ServiceConfig struct {
	LLMProvider    string `json:"llm_provider"`
	MainModel      string `json:"main_model"`
	VerifierModel  string `json:"verifier_model"`
	SearchProvider string `json:"search_provider"`
	MaxSources     int    `json:"max_sources"`
}

// HandleHealthCheck reports liveness plus the active backend selection.
//
// GET /health
func HandleHealthCheck(cfg ServiceConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"config": gin.H{
				"llm_provider":    cfg.LLMProvider,
				"main_model":      cfg.MainModel,
				"verifier_model":  cfg.VerifierModel,
				"search_provider": cfg.SearchProvider,
			},
		})
	}
}

// HandleGetConfig returns the redacted runtime configuration.
//
// GET /v1/config
func HandleGetConfig(cfg ServiceConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cfg)
	}
}

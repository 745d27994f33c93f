// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/truthlens/truthlens/services/verifier/history"
)

// HandleListVerifications returns recent archived runs, newest first.
//
// GET /v1/verifications?limit=N
func HandleListVerifications(store *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 500 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 500"})
				return
			}
			limit = parsed
		}

		records, err := store.List(limit)
		if err != nil {
			slog.Error("Failed to list verifications", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"verifications": records, "count": len(records)})
	}
}

// HandleGetVerification returns one archived run by id.
//
// GET /v1/verifications/:id
func HandleGetVerification(store *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		record, err := store.Get(id)
		if err != nil {
			if errors.Is(err, history.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Verification not found"})
				return
			}
			slog.Error("Failed to load verification", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

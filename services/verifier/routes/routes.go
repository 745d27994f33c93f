// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package routes wires the HTTP surface of the verification service.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/truthlens/truthlens/services/verifier/handlers"
)

// SetupRoutes registers all endpoints on a new gin engine.
func SetupRoutes(deps *handlers.Deps, cfg handlers.ServiceConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("truthlens-verifier"))

	router.GET("/health", handlers.HandleHealthCheck(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.POST("/verify", handlers.HandleVerify(deps))
		v1.POST("/verify/existing", handlers.HandleVerifyExisting(deps))
		v1.GET("/config", handlers.HandleGetConfig(cfg))
		v1.GET("/verifications", handlers.HandleListVerifications(deps.Store))
		v1.GET("/verifications/:id", handlers.HandleGetVerification(deps.Store))
	}

	return router
}

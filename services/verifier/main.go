// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/truthlens/truthlens/services/llm"
	"github.com/truthlens/truthlens/services/policy_engine"
	"github.com/truthlens/truthlens/services/search"
	"github.com/truthlens/truthlens/services/verifier/engine"
	"github.com/truthlens/truthlens/services/verifier/handlers"
	"github.com/truthlens/truthlens/services/verifier/history"
	"github.com/truthlens/truthlens/services/verifier/observability"
	"github.com/truthlens/truthlens/services/verifier/routes"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "truthlens-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("truthlens-verifier")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func maxVerifierSources() int {
	raw := os.Getenv("MAX_VERIFIER_SOURCES")
	if raw == "" {
		return engine.DefaultMaxVerifierSources
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		slog.Warn("MAX_VERIFIER_SOURCES is invalid, using default",
			"value", raw, "default", engine.DefaultMaxVerifierSources)
		return engine.DefaultMaxVerifierSources
	}
	return n
}

func main() {
	port := os.Getenv("VERIFIER_PORT")
	if port == "" {
		port = "12310"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	policyEngine, err := policy_engine.NewPolicyEngine()
	if err != nil {
		log.Fatalf("FATAL: Could not initialize the Policy Engine %v", err)
	}

	llmClient, err := llm.NewClientFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	provider, err := search.NewProviderFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize search provider: %v", err)
	}

	historyPath := os.Getenv("HISTORY_DB_PATH")
	if historyPath == "" {
		historyPath = "/var/lib/truthlens/history"
	}
	store, err := history.Open(historyPath, history.DefaultTTL, logger)
	if err != nil {
		log.Fatalf("Failed to open history store: %v", err)
	}
	defer store.Close()

	metrics := observability.InitMetrics()

	maxSources := maxVerifierSources()
	pipeline := engine.NewEngine(
		llm.NewAnswerGenerator(llmClient),
		engine.NewQueryPlanner(),
		engine.NewSourceAggregator(provider, logger).WithMetrics(metrics),
		engine.NewClaimVerifier(llmClient, maxSources, logger).WithMetrics(metrics),
		logger,
	)

	deps := &handlers.Deps{
		Engine:  pipeline,
		Policy:  policyEngine,
		Store:   store,
		Metrics: metrics,
	}
	cfg := handlers.ServiceConfig{
		LLMProvider:    os.Getenv("LLM_BACKEND_TYPE"),
		MainModel:      llmClient.Model(),
		VerifierModel:  llmClient.Model(),
		SearchProvider: provider.Name(),
		MaxSources:     maxSources,
	}

	router := routes.SetupRoutes(deps, cfg)
	log.Println("Starting the verifier server on port ", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"os"

	"cloud.google.com/go/storage"
	"github.com/spf13/cobra"

	"github.com/truthlens/truthlens/pkg/logging"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess  = 0 // Operation completed successfully
	CLIExitFindings = 1 // Verification flagged medium or high risk
	CLIExitError    = 2 // Operation failed
)

var (
	serverURL  string
	jsonOutput bool
	answerFlag string

	logger *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "truthlens",
		Short: "A cli to fact-check LLM answers against live web sources",
		Long: `TruthLens generates answers with an LLM and cross-checks every
factual claim against web search results, reporting a per-claim
verdict and an overall hallucination risk.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newCLILogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Close()
			}
		},
	}

	verifyCmd = &cobra.Command{
		Use:   "verify [question]",
		Short: "Generate an answer to the question and fact-check it",
		Args:  cobra.MinimumNArgs(1),
		Run:   runVerifyCommand, // Defined in cmd_verify.go
	}

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Verify that API keys and provider settings are configured",
		Run:   runCheckCommand, // Defined in cmd_check.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:12310",
		"Base URL of the TruthLens verifier service")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output machine-readable JSON instead of formatted text")

	verifyCmd.Flags().StringVar(&answerFlag, "answer", "",
		"Verify this existing answer instead of generating one")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(checkCmd)
}

// newCLILogger builds the CLI logger: file logging under ~/.truthlens/logs,
// quiet stderr unless TRUTHLENS_DEBUG is set, and optional GCS export when
// TRUTHLENS_LOG_BUCKET names a bucket.
func newCLILogger() *logging.Logger {
	cfg := logging.Config{
		Level:   logging.LevelInfo,
		LogDir:  "~/.truthlens/logs",
		Service: "cli",
		Quiet:   true,
	}
	if os.Getenv("TRUTHLENS_DEBUG") != "" {
		cfg.Level = logging.LevelDebug
		cfg.Quiet = false
	}

	if bucket := os.Getenv("TRUTHLENS_LOG_BUCKET"); bucket != "" {
		client, err := storage.NewClient(context.Background())
		if err == nil {
			cfg.Exporter = logging.NewGCSExporter(client, bucket, "logs", "cli")
		}
	}
	return logging.New(cfg)
}

// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type checkResult struct {
	LLMProvider    string   `json:"llm_provider"`
	SearchProvider string   `json:"search_provider"`
	OK             bool     `json:"ok"`
	Problems       []string `json:"problems,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

// runCheckCommand validates the environment the verifier service and CLI
// both read: provider selection plus the matching credentials.
func runCheckCommand(cmd *cobra.Command, args []string) {
	result := checkResult{
		LLMProvider:    envDefault("LLM_BACKEND_TYPE", "openai"),
		SearchProvider: envDefault("SEARCH_PROVIDER", "duckduckgo"),
		OK:             true,
	}

	switch result.LLMProvider {
	case "openai":
		requireKey(&result, "OPENAI_API_KEY")
	case "grok":
		requireKey(&result, "GROK_API_KEY")
	case "perplexity":
		requireKey(&result, "PERPLEXITY_API_KEY")
	case "ollama":
		// local backend, no credential
	default:
		result.OK = false
		result.Problems = append(result.Problems,
			fmt.Sprintf("unsupported LLM_BACKEND_TYPE %q", result.LLMProvider))
	}

	switch result.SearchProvider {
	case "duckduckgo":
		// no credential
	case "serpapi":
		if os.Getenv("SERPAPI_KEY") == "" {
			result.Warnings = append(result.Warnings,
				"SERPAPI_KEY not set, the service will fail search queries")
		}
	default:
		result.OK = false
		result.Problems = append(result.Problems,
			fmt.Sprintf("unsupported SEARCH_PROVIDER %q", result.SearchProvider))
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(result)
	} else {
		printCheck(&result)
	}

	if !result.OK {
		os.Exit(CLIExitFindings)
	}
}

func printCheck(result *checkResult) {
	fmt.Println("TruthLens Configuration Check")
	fmt.Printf("[OK] LLM Provider: %s\n", result.LLMProvider)
	fmt.Printf("[OK] Search Provider: %s\n", result.SearchProvider)
	for _, warning := range result.Warnings {
		fmt.Printf("[WARN] %s\n", warning)
	}
	for _, problem := range result.Problems {
		fmt.Printf("[ERROR] %s\n", problem)
	}
	if result.OK {
		fmt.Println("Configuration looks good.")
	}
}

// requireKey records whether a credential is present without printing any
// part of its value.
func requireKey(result *checkResult, envVar string) {
	if os.Getenv(envVar) != "" {
		return
	}
	if _, err := os.Stat("/run/secrets/" + secretName(envVar)); err == nil {
		return
	}
	result.OK = false
	result.Problems = append(result.Problems,
		fmt.Sprintf("%s is required for provider %s", envVar, result.LLMProvider))
}

func secretName(envVar string) string {
	switch envVar {
	case "OPENAI_API_KEY":
		return "openai_api_key"
	case "GROK_API_KEY":
		return "grok_api_key"
	case "PERPLEXITY_API_KEY":
		return "perplexity_api_key"
	default:
		return ""
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

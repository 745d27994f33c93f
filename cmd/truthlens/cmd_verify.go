// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/truthlens/truthlens/services/verifier/datatypes"
)

// verifyTimeout covers generation plus every search query plus the verifier
// call, which can legitimately take most of a minute.
const verifyTimeout = 2 * time.Minute

func runVerifyCommand(cmd *cobra.Command, args []string) {
	question := strings.Join(args, " ")

	endpoint := serverURL + "/v1/verify"
	payload := map[string]string{"question": question}
	if answerFlag != "" {
		endpoint = serverURL + "/v1/verify/existing"
		payload["answer"] = answerFlag
	}

	logger.Info("verify request", "endpoint", endpoint, "question_len", len(question))

	body, err := json.Marshal(payload)
	if err != nil {
		outputError("failed to encode request", err)
		os.Exit(CLIExitError)
	}

	client := &http.Client{Timeout: verifyTimeout}
	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		outputError("verifier service unreachable", err)
		os.Exit(CLIExitError)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		outputError("failed to read response", err)
		os.Exit(CLIExitError)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr datatypes.ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			outputError("verification rejected", fmt.Errorf("%s", apiErr.Error))
		} else {
			outputError("verification failed", fmt.Errorf("status %d", resp.StatusCode))
		}
		os.Exit(CLIExitError)
	}

	var result datatypes.VerificationResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		outputError("failed to decode response", err)
		os.Exit(CLIExitError)
	}
	logger.Info("verification complete",
		"id", result.ID,
		"risk_level", string(result.Risk.RiskLevel),
		"confidence", result.Risk.Confidence)

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(result)
	} else {
		printVerification(&result)
	}

	if result.Risk.RiskLevel != datatypes.RiskLow {
		os.Exit(CLIExitFindings)
	}
}

func printVerification(result *datatypes.VerificationResponse) {
	useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	fmt.Printf("Question: %s\n\n", result.Question)
	fmt.Printf("Answer:\n%s\n\n", result.Answer)

	fmt.Printf("%s %s (confidence %d/100)\n",
		result.Risk.RiskEmoji,
		colorize(useColor, result.Risk.RiskColor, result.Risk.RiskMessage),
		result.Risk.Confidence)
	fmt.Printf("Claims checked: %d\n\n", result.Risk.TotalClaims)

	for i, claim := range result.Verification.Claims {
		fmt.Printf("%d. [%s] %s\n", i+1, strings.ToUpper(string(claim.Status)), claim.Text)
		if claim.Reason != "" {
			fmt.Printf("   %s\n", claim.Reason)
		}
		for _, src := range claim.Sources {
			fmt.Printf("   - %s\n", src)
		}
	}

	if len(result.Sources) > 0 {
		fmt.Printf("\nSources consulted:\n")
		for _, src := range result.Sources {
			fmt.Printf("  %s\n    %s\n", src.Title, src.URL)
		}
	}
}

func colorize(enabled bool, color, text string) string {
	if !enabled {
		return text
	}
	var code string
	switch color {
	case "green":
		code = "\033[32m"
	case "yellow":
		code = "\033[33m"
	case "red":
		code = "\033[31m"
	default:
		return text
	}
	return code + text + "\033[0m"
}

func outputError(msg string, err error) {
	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(map[string]string{"error": fmt.Sprintf("%s: %v", msg, err)})
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}

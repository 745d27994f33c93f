package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
)

// Result is the normalized shape every backend maps its native response
// into. URL is the identity used for deduplication downstream.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Provider is a single web-search backend.
//
// Implementations return an error for transport or provider failures so the
// caller can distinguish "no results" from "search failed". The aggregation
// layer treats those errors as soft: the query contributes zero results and
// the rest of the batch continues.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
	Name() string
}

// HTTPClient allows injecting mock HTTP clients for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewProviderFromEnv selects a search backend from SEARCH_PROVIDER.
// Supported values: "duckduckgo" (default) and "serpapi".
func NewProviderFromEnv() (Provider, error) {
	providerName := os.Getenv("SEARCH_PROVIDER")

	switch providerName {
	case "duckduckgo", "":
		if providerName == "" {
			slog.Warn("SEARCH_PROVIDER not set, defaulting to duckduckgo")
		}
		return NewDuckDuckGoProvider(), nil
	case "serpapi":
		return NewSerpAPIProvider()
	default:
		return nil, fmt.Errorf("unsupported search provider: %q", providerName)
	}
}

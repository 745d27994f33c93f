package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const serpAPIURL = "https://serpapi.com/search"

// SerpAPIProvider queries the commercial SerpAPI Google-results backend.
type SerpAPIProvider struct {
	httpClient HTTPClient
	baseURL    string
	apiKey     string
}

type serpAPIResponse struct {
	OrganicResults []serpAPIOrganicResult `json:"organic_results"`
	Error          string                 `json:"error,omitempty"`
}

type serpAPIOrganicResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

func NewSerpAPIProvider() (*SerpAPIProvider, error) {
	apiKey := os.Getenv("SERPAPI_KEY")
	if apiKey == "" {
		secretPath := "/run/secrets/serpapi_key"
		if content, err := os.ReadFile(secretPath); err == nil {
			apiKey = strings.TrimSpace(string(content))
			slog.Info("Read SerpAPI key from container secrets")
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("SERPAPI_KEY is required when using SerpAPI")
	}
	return &SerpAPIProvider{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    serpAPIURL,
		apiKey:     apiKey,
	}, nil
}

// WithHTTPClient injects a custom HTTP client. Used by tests.
func (p *SerpAPIProvider) WithHTTPClient(c HTTPClient) *SerpAPIProvider {
	p.httpClient = c
	return p
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (p *SerpAPIProvider) WithBaseURL(u string) *SerpAPIProvider {
	p.baseURL = u
	return p
}

func (p *SerpAPIProvider) Name() string { return "serpapi" }

// Search implements the Provider interface.
func (p *SerpAPIProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", p.apiKey)
	params.Set("num", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call SerpAPI: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SerpAPI returned status %s", resp.Status)
	}

	var data serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode SerpAPI JSON: %w", err)
	}
	if data.Error != "" {
		return nil, fmt.Errorf("SerpAPI error: %s", data.Error)
	}

	results := make([]Result, 0, maxResults)
	for _, r := range data.OrganicResults {
		if len(results) >= maxResults {
			break
		}
		results = append(results, Result{
			Title:   r.Title,
			Snippet: r.Snippet,
			URL:     r.Link,
		})
	}
	return results, nil
}

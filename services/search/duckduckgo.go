package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const duckDuckGoAPIURL = "https://api.duckduckgo.com/"

// DuckDuckGoProvider queries the DuckDuckGo Instant Answer API. It needs no
// credential, which makes it the default backend, but the endpoint throttles
// aggressively; a client-side rate limiter keeps concurrent query fan-out
// from tripping that.
type DuckDuckGoProvider struct {
	httpClient HTTPClient
	baseURL    string
	limiter    *rate.Limiter
}

type ddgResponse struct {
	Heading       string     `json:"Heading"`
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	Results       []ddgTopic `json:"Results"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []ddgTopic `json:"Topics"` // Nested category groupings
}

func NewDuckDuckGoProvider() *DuckDuckGoProvider {
	return &DuckDuckGoProvider{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    duckDuckGoAPIURL,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

// WithHTTPClient injects a custom HTTP client. Used by tests.
func (p *DuckDuckGoProvider) WithHTTPClient(c HTTPClient) *DuckDuckGoProvider {
	p.httpClient = c
	return p
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (p *DuckDuckGoProvider) WithBaseURL(u string) *DuckDuckGoProvider {
	p.baseURL = u
	return p
}

func (p *DuckDuckGoProvider) Name() string { return "duckduckgo" }

// Search implements the Provider interface.
func (p *DuckDuckGoProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "truthlens/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call DuckDuckGo API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DuckDuckGo API returned status %s", resp.Status)
	}

	var data ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode DuckDuckGo JSON: %w", err)
	}

	results := make([]Result, 0, maxResults)

	// The abstract is the highest-quality hit when present.
	if data.AbstractText != "" && data.AbstractURL != "" {
		results = append(results, Result{
			Title:   data.Heading,
			Snippet: data.AbstractText,
			URL:     data.AbstractURL,
		})
	}

	for _, topic := range flattenTopics(append(data.Results, data.RelatedTopics...)) {
		if len(results) >= maxResults {
			break
		}
		if topic.FirstURL == "" || topic.Text == "" {
			continue
		}
		results = append(results, Result{
			Title:   topicTitle(topic.Text),
			Snippet: topic.Text,
			URL:     topic.FirstURL,
		})
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// flattenTopics unnests DuckDuckGo's category groupings into a flat list.
func flattenTopics(topics []ddgTopic) []ddgTopic {
	var flat []ddgTopic
	for _, t := range topics {
		if len(t.Topics) > 0 {
			flat = append(flat, flattenTopics(t.Topics)...)
			continue
		}
		flat = append(flat, t)
	}
	return flat
}

// topicTitle derives a short title from DuckDuckGo's combined
// "Title - description" text field.
func topicTitle(text string) string {
	if idx := strings.Index(text, " - "); idx > 0 {
		return text[:idx]
	}
	return text
}

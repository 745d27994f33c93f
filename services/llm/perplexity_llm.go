package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

const perplexityBaseURL = "https://api.perplexity.ai/chat/completions"

// Perplexity speaks an OpenAI-shaped chat API but returns a top-level
// "citations" array that the go-openai response types do not surface, so this
// adapter is a raw REST client.

type perplexityRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`

	Temperature *float32 `json:"temperature,omitempty"`
	TopP        *float32 `json:"top_p,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type perplexityResponse struct {
	ID        string             `json:"id"`
	Citations []string           `json:"citations"`
	Choices   []perplexityChoice `json:"choices"`
	Error     *perplexityError   `json:"error,omitempty"`
}

type perplexityChoice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type perplexityError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type PerplexityClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewPerplexityClient() (*PerplexityClient, error) {
	apiKey := readSecret("PERPLEXITY_API_KEY", "/run/secrets/perplexity_api_key")
	if apiKey == "" {
		slog.Warn("Perplexity API Key is missing.")
		return nil, fmt.Errorf("PERPLEXITY_API_KEY is missing")
	}
	model := os.Getenv("PERPLEXITY_MODEL")
	if model == "" {
		model = "sonar"
		slog.Info("PERPLEXITY_MODEL not set, defaulting to", "model", model)
	}
	return &PerplexityClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    perplexityBaseURL,
		apiKey:     apiKey,
		model:      model,
	}, nil
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (p *PerplexityClient) WithBaseURL(url string) *PerplexityClient {
	p.baseURL = url
	return p
}

// Model implements the Client interface.
func (p *PerplexityClient) Model() string { return p.model }

// Generate implements the Client interface.
func (p *PerplexityClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	result, err := p.Chat(ctx, []Message{{Role: "user", Content: prompt}}, params)
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// Chat implements the Client interface. Perplexity has no response_format
// parameter, so JSONMode is carried entirely by the prompt contract.
func (p *PerplexityClient) Chat(ctx context.Context, messages []Message, params GenerationParams) (*ChatResult, error) {
	reqPayload := perplexityRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: params.Temperature,
		TopP:        params.TopP,
		MaxTokens:   params.MaxTokens,
		Stop:        params.Stop,
	}

	reqBodyBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL, bytes.NewBuffer(reqBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("Sending REST request to Perplexity", "model", p.model)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("perplexity API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp perplexityResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("perplexity API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("received empty choices from Perplexity")
	}

	slog.Debug("Received response from Perplexity",
		"finish_reason", apiResp.Choices[0].FinishReason,
		"citations", len(apiResp.Citations))

	return &ChatResult{
		Content:   apiResp.Choices[0].Message.Content,
		Citations: apiResp.Citations,
	}, nil
}

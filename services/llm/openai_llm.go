package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const grokBaseURL = "https://api.x.ai/v1"

// OpenAIClient talks to any OpenAI-compatible chat-completions endpoint.
// It backs both the "openai" and "grok" provider configurations; Grok only
// differs in base URL and credential.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient() (*OpenAIClient, error) {
	apiKey := readSecret("OPENAI_API_KEY", "/run/secrets/openai_api_key")
	if apiKey == "" {
		slog.Error("OPENAI_API_KEY environment variable not set and secret not found")
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
		slog.Warn("OPENAI_MODEL not set, defaulting to gpt-4o-mini")
	}
	slog.Info("Initializing OpenAI client", "model", model)
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// NewGrokClient configures the same client against the xAI endpoint.
func NewGrokClient() (*OpenAIClient, error) {
	apiKey := readSecret("GROK_API_KEY", "/run/secrets/grok_api_key")
	if apiKey == "" {
		slog.Error("GROK_API_KEY environment variable not set and secret not found")
		return nil, fmt.Errorf("GROK_API_KEY environment variable not set")
	}
	model := os.Getenv("GROK_MODEL")
	if model == "" {
		model = "grok-3-mini"
		slog.Warn("GROK_MODEL not set, defaulting to grok-3-mini")
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = grokBaseURL
	slog.Info("Initializing Grok client", "model", model, "base_url", grokBaseURL)
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Model implements the Client interface.
func (o *OpenAIClient) Model() string { return o.model }

// Generate implements the Client interface.
func (o *OpenAIClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	result, err := o.Chat(ctx, []Message{{Role: openai.ChatMessageRoleUser, Content: prompt}}, params)
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// Chat implements the Client interface.
func (o *OpenAIClient) Chat(ctx context.Context, messages []Message, params GenerationParams) (*ChatResult, error) {
	slog.Debug("Generating text via OpenAI-compatible API", "model", o.model)

	apiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		apiMessages = append(apiMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: apiMessages,
	}
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}
	if params.MaxTokens != nil {
		req.MaxCompletionTokens = *params.MaxTokens
	}
	if params.TopP != nil {
		req.TopP = *params.TopP
	}
	if len(params.Stop) > 0 {
		req.Stop = params.Stop
	}
	if params.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("OpenAI API call failed", "error", err)
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("OpenAI returned no choices or empty content")
		return nil, fmt.Errorf("OpenAI returned no choices")
	}
	slog.Debug("Received response from OpenAI", "finish_reason", resp.Choices[0].FinishReason)
	return &ChatResult{Content: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}

// readSecret resolves a credential from the environment, falling back to a
// container secret file.
func readSecret(envVar, secretPath string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	if content, err := os.ReadFile(secretPath); err == nil {
		slog.Info("Read API key from container secrets", "var", envVar)
		return strings.TrimSpace(string(content))
	}
	return ""
}

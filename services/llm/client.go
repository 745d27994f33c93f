package llm

import "context"

type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
	// JSONMode requests structured JSON output from backends that support a
	// response_format parameter. Backends without native support ignore it;
	// the prompt must carry the shape contract instead.
	JSONMode bool `json:"json_mode"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResult carries the assistant text plus any provider-native citation
// URLs returned alongside it. Citations is nil for backends that do not
// cite sources inline (OpenAI, Grok, Ollama).
type ChatResult struct {
	Content   string
	Citations []string
}

// Client defines the standard interface for any LLM backend.
type Client interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
	Chat(ctx context.Context, messages []Message, params GenerationParams) (*ChatResult, error)
	// Model reports the configured model name for diagnostics.
	Model() string
}

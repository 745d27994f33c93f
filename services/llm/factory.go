package llm

import (
	"fmt"
	"log/slog"
	"os"
)

// NewClientFromEnv selects an LLM backend from LLM_BACKEND_TYPE.
// Supported values: "openai", "grok", "perplexity", "ollama".
func NewClientFromEnv() (Client, error) {
	backendType := os.Getenv("LLM_BACKEND_TYPE")

	switch backendType {
	case "openai":
		slog.Info("Using OpenAI LLM backend")
		return NewOpenAIClient()
	case "grok":
		slog.Info("Using Grok (xAI) LLM backend")
		return NewGrokClient()
	case "perplexity":
		slog.Info("Using Perplexity LLM backend")
		return NewPerplexityClient()
	case "ollama":
		slog.Info("Using Ollama LLM backend")
		return NewOllamaClient()
	case "":
		slog.Warn("LLM_BACKEND_TYPE not set, defaulting to openai")
		return NewOpenAIClient()
	default:
		return nil, fmt.Errorf("unsupported LLM backend: %q", backendType)
	}
}

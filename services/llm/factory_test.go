package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientFromEnv_UnsupportedBackend(t *testing.T) {
	t.Setenv("LLM_BACKEND_TYPE", "bard")

	_, err := NewClientFromEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM backend")
}

func TestNewClientFromEnv_Ollama(t *testing.T) {
	t.Setenv("LLM_BACKEND_TYPE", "ollama")
	t.Setenv("OLLAMA_BASE_URL", "http://localhost:11434/")
	t.Setenv("OLLAMA_MODEL", "llama3.1")

	client, err := NewClientFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "llama3.1", client.Model())
}

func TestNewClientFromEnv_OllamaMissingBaseURL(t *testing.T) {
	t.Setenv("LLM_BACKEND_TYPE", "ollama")
	t.Setenv("OLLAMA_BASE_URL", "")

	_, err := NewClientFromEnv()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "OLLAMA_BASE_URL")
}

func TestNewClientFromEnv_PerplexityMissingKey(t *testing.T) {
	t.Setenv("LLM_BACKEND_TYPE", "perplexity")
	t.Setenv("PERPLEXITY_API_KEY", "")

	_, err := NewClientFromEnv()

	// no env key and no container secret in the test environment
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PERPLEXITY_API_KEY")
}

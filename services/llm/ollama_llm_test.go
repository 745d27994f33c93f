package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOllamaTestClient(serverURL string) *OllamaClient {
	return &OllamaClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    serverURL,
		model:      "llama3.1",
	}
}

func TestOllamaChat_RequestShape(t *testing.T) {
	var gotPath string
	var gotReq ollamaChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": "local answer"},
			"done":    true,
		})
	}))
	defer server.Close()

	temp := float32(0.5)
	maxTokens := 256
	result, err := newOllamaTestClient(server.URL).Chat(context.Background(),
		[]Message{{Role: "user", Content: "q"}},
		GenerationParams{Temperature: &temp, MaxTokens: &maxTokens, JSONMode: true})

	require.NoError(t, err)
	assert.Equal(t, "local answer", result.Content)
	assert.Nil(t, result.Citations)

	assert.Equal(t, "/api/chat", gotPath)
	assert.Equal(t, "llama3.1", gotReq.Model)
	assert.False(t, gotReq.Stream)
	assert.Equal(t, "json", gotReq.Format)
	assert.InDelta(t, 0.5, gotReq.Options["temperature"], 0.001)
	assert.EqualValues(t, 256, gotReq.Options["num_predict"])
}

func TestOllamaChat_DefaultOptions(t *testing.T) {
	var gotReq ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": "ok"},
			"done":    true,
		})
	}))
	defer server.Close()

	_, err := newOllamaTestClient(server.URL).Chat(context.Background(),
		[]Message{{Role: "user", Content: "q"}}, GenerationParams{})

	require.NoError(t, err)
	assert.InDelta(t, 0.2, gotReq.Options["temperature"], 0.001)
	assert.EqualValues(t, 4096, gotReq.Options["num_predict"])
	assert.Empty(t, gotReq.Format)
}

func TestOllamaChat_ModelNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "model 'llama3.1' not found"})
	}))
	defer server.Close()

	_, err := newOllamaTestClient(server.URL).Chat(context.Background(),
		[]Message{{Role: "user", Content: "q"}}, GenerationParams{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama pull llama3.1")
}

func TestOllamaChat_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newOllamaTestClient(server.URL).Chat(context.Background(),
		[]Message{{Role: "user", Content: "q"}}, GenerationParams{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

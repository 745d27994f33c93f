package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSerpAPIProvider(baseURL string) *SerpAPIProvider {
	p := &SerpAPIProvider{
		httpClient: http.DefaultClient,
		apiKey:     "test-key",
	}
	return p.WithBaseURL(baseURL)
}

func TestSerpAPIProvider_MapsOrganicResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "3", r.URL.Query().Get("num"))
		_ = json.NewEncoder(w).Encode(serpAPIResponse{
			OrganicResults: []serpAPIOrganicResult{
				{Title: "Result one", Snippet: "first snippet", Link: "https://one"},
				{Title: "Result two", Snippet: "second snippet", Link: "https://two"},
			},
		})
	}))
	defer server.Close()

	provider := newSerpAPIProvider(server.URL)
	results, err := provider.Search(context.Background(), "test query", 3)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Result one", results[0].Title)
	assert.Equal(t, "first snippet", results[0].Snippet)
	assert.Equal(t, "https://one", results[0].URL)
}

func TestSerpAPIProvider_TruncatesToMaxResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(serpAPIResponse{
			OrganicResults: []serpAPIOrganicResult{
				{Title: "1", Link: "https://1"},
				{Title: "2", Link: "https://2"},
				{Title: "3", Link: "https://3"},
			},
		})
	}))
	defer server.Close()

	provider := newSerpAPIProvider(server.URL)
	results, err := provider.Search(context.Background(), "q", 2)

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSerpAPIProvider_APIErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(serpAPIResponse{Error: "Invalid API key"})
	}))
	defer server.Close()

	provider := newSerpAPIProvider(server.URL)
	_, err := provider.Search(context.Background(), "q", 3)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestNewProviderFromEnv_Unsupported(t *testing.T) {
	t.Setenv("SEARCH_PROVIDER", "bing")
	_, err := NewProviderFromEnv()
	assert.Error(t, err)
}

func TestNewProviderFromEnv_DefaultsToDuckDuckGo(t *testing.T) {
	t.Setenv("SEARCH_PROVIDER", "")
	provider, err := NewProviderFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "duckduckgo", provider.Name())
}

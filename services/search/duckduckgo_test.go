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

func newDDGServer(t *testing.T, response ddgResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
}

func TestDuckDuckGoProvider_AbstractFirst(t *testing.T) {
	server := newDDGServer(t, ddgResponse{
		Heading:      "Boiling point",
		AbstractText: "Water boils at 100C at sea level.",
		AbstractURL:  "https://en.wikipedia.org/wiki/Boiling_point",
		RelatedTopics: []ddgTopic{
			{Text: "Vapor pressure - pressure of a vapor", FirstURL: "https://en.wikipedia.org/wiki/Vapor_pressure"},
		},
	})
	defer server.Close()

	provider := NewDuckDuckGoProvider().WithBaseURL(server.URL)
	results, err := provider.Search(context.Background(), "boiling point of water", 3)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Boiling point", results[0].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Boiling_point", results[0].URL)
	assert.Equal(t, "Vapor pressure", results[1].Title)
}

func TestDuckDuckGoProvider_FlattensNestedTopics(t *testing.T) {
	server := newDDGServer(t, ddgResponse{
		RelatedTopics: []ddgTopic{
			{
				Topics: []ddgTopic{
					{Text: "Inner one - nested", FirstURL: "https://one"},
					{Text: "Inner two - nested", FirstURL: "https://two"},
				},
			},
			{Text: "Outer - flat", FirstURL: "https://three"},
		},
	})
	defer server.Close()

	provider := NewDuckDuckGoProvider().WithBaseURL(server.URL)
	results, err := provider.Search(context.Background(), "anything", 5)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "https://one", results[0].URL)
	assert.Equal(t, "https://three", results[2].URL)
}

func TestDuckDuckGoProvider_RespectsMaxResults(t *testing.T) {
	server := newDDGServer(t, ddgResponse{
		RelatedTopics: []ddgTopic{
			{Text: "One - a", FirstURL: "https://1"},
			{Text: "Two - b", FirstURL: "https://2"},
			{Text: "Three - c", FirstURL: "https://3"},
			{Text: "Four - d", FirstURL: "https://4"},
		},
	})
	defer server.Close()

	provider := NewDuckDuckGoProvider().WithBaseURL(server.URL)
	results, err := provider.Search(context.Background(), "anything", 2)

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestDuckDuckGoProvider_ServerErrorIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewDuckDuckGoProvider().WithBaseURL(server.URL)
	_, err := provider.Search(context.Background(), "anything", 3)
	assert.Error(t, err)
}

func TestDuckDuckGoProvider_EmptyResponseIsNotError(t *testing.T) {
	server := newDDGServer(t, ddgResponse{})
	defer server.Close()

	provider := NewDuckDuckGoProvider().WithBaseURL(server.URL)
	results, err := provider.Search(context.Background(), "obscure query", 3)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTopicTitle(t *testing.T) {
	assert.Equal(t, "Title", topicTitle("Title - description here"))
	assert.Equal(t, "No separator", topicTitle("No separator"))
}

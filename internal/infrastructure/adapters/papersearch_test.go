package adapters_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KingdaKilla/ti-radar/internal/infrastructure/adapters"
)

// ── Search ──────────────────────────────────────────────────────────────

func TestPaperSearchAdapter_Search_PaginatesUntilLimitReached(t *testing.T) {
	t.Parallel()

	pages := [][]map[string]any{
		{{"title": "Paper A"}, {"title": "Paper B"}},
		{{"title": "Paper C"}},
	}
	call := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idx := call
		call++
		cursor := ""
		if idx == 0 {
			cursor = "page-2"
		}
		body := map[string]any{
			"papers":      pages[idx],
			"next_cursor": cursor,
			"total":       3,
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer server.Close()

	adapter := adapters.NewPaperSearchAdapter(server.URL)
	papers, warning := adapter.Search(context.Background(), "battery recycling", 10)

	require.Empty(t, warning)
	require.Len(t, papers, 3)
	assert.Equal(t, "Paper A", papers[0].Title)
	assert.Equal(t, "Paper C", papers[2].Title)
}

func TestPaperSearchAdapter_Search_TruncatesToLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"papers": []map[string]any{
				{"title": "A"}, {"title": "B"}, {"title": "C"},
			},
			"next_cursor": "",
			"total":       3,
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer server.Close()

	adapter := adapters.NewPaperSearchAdapter(server.URL)
	papers, warning := adapter.Search(context.Background(), "battery recycling", 2)

	require.Empty(t, warning)
	assert.Len(t, papers, 2)
}

func TestPaperSearchAdapter_Search_DegradesToPartialResultsOnFailure(t *testing.T) {
	t.Parallel()

	call := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if call == 0 {
			call++
			body := map[string]any{
				"papers":      []map[string]any{{"title": "A"}},
				"next_cursor": "page-2",
				"total":       5,
			}
			_ = json.NewEncoder(w).Encode(body)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := adapters.NewPaperSearchAdapter(server.URL)
	papers, warning := adapter.Search(context.Background(), "battery recycling", 10)

	require.Len(t, papers, 1)
	assert.NotEmpty(t, warning)
}

func TestPaperSearchAdapter_Search_EmptyResultIsNotNil(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"papers": []map[string]any{}, "next_cursor": "", "total": 0}
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer server.Close()

	adapter := adapters.NewPaperSearchAdapter(server.URL)
	papers, warning := adapter.Search(context.Background(), "battery recycling", 10)

	require.Empty(t, warning)
	assert.NotNil(t, papers)
	assert.Empty(t, papers)
}

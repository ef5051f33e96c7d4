package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KingdaKilla/ti-radar/internal/infrastructure/database/sqlite"
)

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
)

// SuggestionsHandler serves GET /api/v1/suggestions: patent-title
// autocomplete backed by the patents FTS index.
type SuggestionsHandler struct {
	patents *sqlite.PatentStore
}

// NewSuggestionsHandler creates a new SuggestionsHandler.
func NewSuggestionsHandler(patents *sqlite.PatentStore) *SuggestionsHandler {
	return &SuggestionsHandler{patents: patents}
}

// SuggestionsResponse wraps the matching titles for a query prefix.
type SuggestionsResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// Suggest handles GET /api/v1/suggestions?q=&limit=. An empty or missing q
// and an unavailable patent store both return an empty suggestion list
// rather than an error, matching the degrade-not-refuse posture of the
// rest of this service.
func (h *SuggestionsHandler) Suggest(c *gin.Context) {
	query := c.Query("q")

	limit := defaultSuggestLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	if h.patents == nil || query == "" {
		c.JSON(http.StatusOK, SuggestionsResponse{Query: query, Suggestions: []string{}})
		return
	}

	titles, err := h.patents.Suggest(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusOK, SuggestionsResponse{Query: query, Suggestions: []string{}})
		return
	}

	c.JSON(http.StatusOK, SuggestionsResponse{Query: query, Suggestions: titles})
}

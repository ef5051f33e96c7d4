// Package adapters provides the external HTTP collaborators the orchestrator
// calls alongside the patent/project repositories: publication counts, paper
// search, and cached entity resolution. Each adapter degrades gracefully on
// partial failure rather than aborting the whole panel.
package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/monitoring/logging"
)

const (
	publicationRequestTimeout = 15 * time.Second
	tokenRefreshWindow        = 60 * time.Second
)

// YearCountResult is one year's publication-count lookup outcome.
type YearCountResult struct {
	Year    int
	Count   int
	Warning string
}

// TokenSource supplies and refreshes the bearer token used against the
// publication-count API. RefreshToken returns the new access token, or an
// error if the refresh call itself failed.
type TokenSource interface {
	AccessToken() string
	HasRefreshToken() bool
	RefreshToken(ctx context.Context) (string, error)
}

// PublicationAdapter queries a publication-count API once per requested
// year, running all year requests concurrently.
type PublicationAdapter struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     logging.Logger

	mu          sync.Mutex
	cachedToken string
}

// NewPublicationAdapter constructs a PublicationAdapter against baseURL,
// using tokens for bearer-token refresh.
func NewPublicationAdapter(baseURL string, tokens TokenSource, logger logging.Logger) *PublicationAdapter {
	return &PublicationAdapter{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: publicationRequestTimeout},
		tokens:      tokens,
		logger:      logger,
		cachedToken: tokens.AccessToken(),
	}
}

// YearCounts fetches the publication count for each year in [startYear,
// endYear], concurrently, returning one result per year in ascending year
// order plus an optional API-health alert describing
// the credential's state. A per-year HTTP failure degrades to a warning on
// that year's result rather than failing the whole call.
func (a *PublicationAdapter) YearCounts(ctx context.Context, keyword string, startYear, endYear int) ([]YearCountResult, *kernel.ApiAlert) {
	alert := a.refreshTokenIfNeeded(ctx)

	years := make([]int, 0, endYear-startYear+1)
	for y := startYear; y <= endYear; y++ {
		years = append(years, y)
	}

	results := make([]YearCountResult, len(years))
	var wg sync.WaitGroup
	for i, year := range years {
		wg.Add(1)
		go func(i, year int) {
			defer wg.Done()
			results[i] = a.fetchYearCount(ctx, keyword, year)
		}(i, year)
	}
	wg.Wait()

	return results, alert
}

func (a *PublicationAdapter) fetchYearCount(ctx context.Context, keyword string, year int) YearCountResult {
	reqURL := fmt.Sprintf("%s/search?%s", a.baseURL, url.Values{
		"keywords":  {keyword},
		"date_from": {fmt.Sprintf("%d-01-01", year)},
		"date_to":   {fmt.Sprintf("%d-12-31", year)},
		"size":      {"1"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return YearCountResult{Year: year, Warning: fmt.Sprintf("build request failed: %v", err)}
	}
	a.applyAuth(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return YearCountResult{Year: year, Warning: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return YearCountResult{Year: year, Warning: fmt.Sprintf("http status %d", resp.StatusCode)}
	}

	total := resp.Header.Get("X-Total-Count")
	count, err := strconv.Atoi(total)
	if err != nil {
		return YearCountResult{Year: year, Warning: "missing or malformed total-count header"}
	}

	return YearCountResult{Year: year, Count: count}
}

func (a *PublicationAdapter) applyAuth(req *http.Request) {
	a.mu.Lock()
	token := a.cachedToken
	a.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// refreshTokenIfNeeded decodes the cached access token's exp claim and
// refreshes it when fewer than tokenRefreshWindow remain and a refresh
// token is configured, caching the new token so concurrent per-year
// requests do not each trigger a refresh. Returns the provenance alert for
// the (possibly just-refreshed) token's health, or nil when the token is
// empty, cannot be decoded, or has nothing to report.
func (a *PublicationAdapter) refreshTokenIfNeeded(ctx context.Context) *kernel.ApiAlert {
	a.mu.Lock()
	token := a.cachedToken
	a.mu.Unlock()

	now := time.Now()
	if kernel.ShouldRefreshJWT(token, now, tokenRefreshWindow) && a.tokens.HasRefreshToken() {
		newToken, err := a.tokens.RefreshToken(ctx)
		if err != nil {
			a.logger.Warn("publication token refresh failed", logging.Err(err))
		} else {
			a.mu.Lock()
			a.cachedToken = newToken
			a.mu.Unlock()
			token = newToken
		}
	}

	return kernel.CheckJWTExpiry(token, "Publication-API", now, a.tokens.HasRefreshToken())
}

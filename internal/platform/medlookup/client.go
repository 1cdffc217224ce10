// Package medlookup wraps the external medication-name search service.
// It is a thin I/O boundary: lookups are best-effort with a bounded
// timeout and degrade to an empty suggestion list on any failure.
package medlookup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Suggestion is one medication name returned by the lookup service.
type Suggestion struct {
	Name string `json:"name"`
}

// Searcher finds medication name suggestions for a query string.
type Searcher interface {
	Search(ctx context.Context, query string) []Suggestion
}

// Client is an HTTP Searcher against the external lookup service.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a Client for the given base URL. A zero or negative
// timeout falls back to two seconds.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Search queries the lookup service. Failures are logged and reported as an
// empty result; the caller never blocks longer than the client timeout.
func (c *Client) Search(ctx context.Context, query string) []Suggestion {
	query = strings.TrimSpace(query)
	if query == "" || c.baseURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search?q="+url.QueryEscape(query), nil)
	if err != nil {
		c.log.Warn().Err(err).Msg("medication lookup request build failed")
		return nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("medication lookup failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Str("query", query).Msg("medication lookup returned non-OK status")
		return nil
	}

	var out struct {
		Results []Suggestion `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("medication lookup response decode failed")
		return nil
	}
	return out.Results
}

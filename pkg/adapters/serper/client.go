// Package serper implements ports.Searcher with the Serper Google search API
// and describes the web_search tool offered to model-backed generators.
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/parcel/pkg/ports"
)

// DefaultEndpoint is the Serper search URL.
const DefaultEndpoint = "https://google.serper.dev/search"

// Client queries Serper.
type Client struct {
	apiKey     string
	endpoint   string
	numResults int
	http       *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the search URL.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithNumResults bounds the hits returned per query.
func WithNumResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.numResults = n
		}
	}
}

// New creates a client for apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		endpoint:   DefaultEndpoint,
		numResults: 5,
		http:       &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type searchResponse struct {
	Organic []ports.SearchResult `json:"organic"`
}

// Search implements ports.Searcher.
func (c *Client) Search(ctx context.Context, query string) ([]ports.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("serper: empty query")
	}
	body, err := json.Marshal(searchRequest{Query: query, Num: c.numResults})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("serper: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("serper: decode response: %w", err)
	}
	if len(decoded.Organic) > c.numResults {
		decoded.Organic = decoded.Organic[:c.numResults]
	}
	return decoded.Organic, nil
}

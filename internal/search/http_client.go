package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/phrazzld/suggest-api/internal/domain"
)

// HTTPClient talks to the search backend's JSON-over-HTTP API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates a search client for the given base URL. The
// timeout is a transport-level ceiling; per-query deadlines are applied by
// callers through the context.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("search base URL cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "search_client")),
	}, nil
}

// searchResponse mirrors the backend's wire format.
type searchResponse struct {
	Hits []struct {
		Title string `json:"title"`
	} `json:"hits"`
	EstimatedTotal int    `json:"estimated_total"`
	DebugURL       string `json:"debug_url,omitempty"`
}

// Execute implements the Client interface.
func (c *HTTPClient) Execute(ctx context.Context, req Request) (*Result, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	if req.Sort != "" {
		params.Set("sort", req.Sort)
	}
	if req.RescoreProfile != "" {
		params.Set("rescore", req.RescoreProfile)
	}
	if req.Limit > 0 {
		params.Set("limit", strconv.Itoa(req.Limit))
	}

	endpoint := c.baseURL + "/search?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("search request failed",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close search response body",
				slog.String("error", closeErr.Error()))
		}
	}()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: status %d", ErrBadRequest, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}

	hits := make([]domain.ItemRef, 0, len(body.Hits))
	for _, h := range body.Hits {
		if h.Title == "" {
			continue
		}
		hits = append(hits, domain.ItemRef{Title: h.Title})
	}

	return &Result{
		Hits:           hits,
		EstimatedTotal: body.EstimatedTotal,
		DebugURL:       body.DebugURL,
	}, nil
}

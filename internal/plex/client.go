// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

// Package plex implements the Plex Media Server API client used to
// fetch music library content and write playlists back.
package plex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/plexcurator/curator/internal/logging"
)

// Client handles communication with the Plex Media Server API.
// All requests carry the X-Plex-Token header and retry automatically
// on HTTP 429.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger

	mu         sync.Mutex
	sectionKey string // resolved music section, cached
	machineID  string // server machine identifier, cached
}

// NewClient builds a client for the server at baseURL
// (e.g. "http://localhost:32400").
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logging.Component("plex"),
	}
}

// requestConfig holds configuration for building HTTP requests.
type requestConfig struct {
	method      string
	path        string
	query       url.Values
	rawQuery    string // pre-encoded query, used for comparison filters
	body        io.Reader
	contentType string
	acceptJSON  bool
	expectOK    bool // if true, check for 200 OK status
	expectNoErr bool // if true, also accept 201 and 204
}

// doRequest executes a Plex API request and decodes the JSON response
// into result when a non-nil pointer is given.
func (c *Client) doRequest(ctx context.Context, cfg requestConfig, result interface{}) error {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, cfg.path)
	body := cfg.body
	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, cfg.method, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("X-Plex-Token", c.token)
	if cfg.acceptJSON {
		req.Header.Set("Accept", "application/json")
	}
	if cfg.contentType != "" {
		req.Header.Set("Content-Type", cfg.contentType)
	}

	switch {
	case cfg.rawQuery != "":
		req.URL.RawQuery = cfg.rawQuery
	case len(cfg.query) > 0:
		req.URL.RawQuery = cfg.query.Encode()
	}

	resp, err := c.doRequestWithRateLimit(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if cfg.expectNoErr {
		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		default:
			return fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
		}
	} else if cfg.expectOK && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// doJSONRequest is a convenience wrapper for JSON GET requests.
func (c *Client) doJSONRequest(ctx context.Context, path string, result interface{}) error {
	return c.doRequest(ctx, requestConfig{
		method:     http.MethodGet,
		path:       path,
		acceptJSON: true,
		expectOK:   true,
	}, result)
}

// doJSONRequestWithQuery is a convenience wrapper for JSON GET
// requests with query parameters.
func (c *Client) doJSONRequestWithQuery(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.doRequest(ctx, requestConfig{
		method:     http.MethodGet,
		path:       path,
		query:      query,
		acceptJSON: true,
		expectOK:   true,
	}, result)
}

// doRequestWithRateLimit executes the request with automatic retry on
// HTTP 429: max 5 attempts with exponential backoff (1s, 2s, 4s, 8s,
// 16s), honoring a Retry-After header when present.
func (c *Client) doRequestWithRateLimit(req *http.Request) (*http.Response, error) {
	const maxRetries = 5
	baseDelay := 1 * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute request: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		resp.Body.Close()

		if attempt == maxRetries {
			return nil, fmt.Errorf("rate limit exceeded after %d retries", maxRetries)
		}

		retryDelay := baseDelay * (1 << attempt)
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				retryDelay = seconds
			}
		}

		c.log.Warn().
			Dur("retry_delay", retryDelay).
			Int("attempt", attempt+1).
			Msg("rate limited (HTTP 429), retrying")

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("unreachable: retry loop should return or error")
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini is the client for the Gemini generateContent endpoint.
//
// It is the only part of finai that talks to the network. Each Generate call
// is a single stateless POST carrying one text part; no history is sent.
package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	// DefaultEndpoint is the generateContent URL for gemini-2.0-flash.
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

	// APIKeyHeader carries the API key on every request.
	APIKeyHeader = "X-goog-api-key"

	// MaxResponseSize caps how much of a response body is read. Reading
	// stops with an error once a body passes it.
	MaxResponseSize = 10 * 1024 * 1024
)

var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("gemini API key not configured")

	// ErrNoCandidates indicates the response carried no reply text.
	ErrNoCandidates = errors.New("gemini returned no candidates")
)

// Client calls the generateContent endpoint.
type Client struct {
	http     *resty.Client
	endpoint string
	log      zerolog.Logger

	mu     sync.RWMutex
	apiKey string
}

// NewClient creates a client. An empty endpoint selects DefaultEndpoint.
// A client without an API key is valid, but Generate fails with
// ErrNotConfigured until SetAPIKey is called.
func NewClient(apiKey, endpoint string, log zerolog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	http := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetResponseBodyLimit(MaxResponseSize)
	return &Client{
		http:     http,
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(apiKey),
		log:      log.With().Str("component", "gemini").Logger(),
	}
}

// WithTimeout sets a per-request timeout. Zero means none.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.http.SetTimeout(timeout)
	return c
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SetAPIKey replaces the API key used by subsequent calls.
func (c *Client) SetAPIKey(apiKey string) {
	c.mu.Lock()
	c.apiKey = strings.TrimSpace(apiKey)
	c.mu.Unlock()
}

// IsConfigured returns true if an API key is set.
func (c *Client) IsConfigured() bool {
	return c.key() != ""
}

// Generate posts prompt as a single text part and returns the first
// candidate's first text part.
//
// The response body is decoded whatever the HTTP status, so an error body
// without candidates yields ErrNoCandidates. Transport failures, oversized
// bodies and undecodable bodies are returned wrapped.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	apiKey := c.key()
	if apiKey == "" {
		return "", ErrNotConfigured
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(APIKeyHeader, apiKey).
		SetBody(NewTextRequest(prompt)).
		Post(c.endpoint)
	if err != nil {
		return "", errors.Wrap(err, "gemini request failed")
	}

	body := resp.Body()

	var out GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", errors.Wrapf(err, "decode gemini response (HTTP %d)", resp.StatusCode())
	}

	ev := c.log.Debug().
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(start)).
		Str("key", fingerprint(apiKey)).
		Int("candidates", len(out.Candidates))
	if out.Error != nil {
		ev = ev.Str("api_error", fmt.Sprintf("%d %s", out.Error.Code, out.Error.Status))
	}
	ev.Msg("generateContent")

	text := out.Text()
	if text == "" {
		return "", ErrNoCandidates
	}
	return text, nil
}

func (c *Client) key() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// fingerprint identifies a key in logs without exposing any of it.
func fingerprint(apiKey string) string {
	if apiKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(h[:4])
}

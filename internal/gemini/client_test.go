// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer returns a server that replies with status and body and
// records the last request it saw.
func newTestServer(t *testing.T, status int, body string, seen *http.Request, seenBody *[]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = *r.Clone(context.Background())
		}
		if seenBody != nil {
			b, _ := io.ReadAll(r.Body)
			*seenBody = b
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// =============================================================================
// REQUEST SHAPE
// =============================================================================

func TestGenerate_RequestShape(t *testing.T) {
	var req http.Request
	var body []byte
	srv := newTestServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"Hello"}]}}]}`, &req, &body)

	c := NewClient("test-key", srv.URL, zerolog.Nop())
	got, err := c.Generate(context.Background(), "  hi there ")
	require.NoError(t, err)
	assert.Equal(t, "Hello", got)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "test-key", req.Header.Get(APIKeyHeader))
	assert.Contains(t, req.Header.Get("Content-Type"), "application/json")

	var sent GenerateRequest
	require.NoError(t, json.Unmarshal(body, &sent))
	require.Len(t, sent.Contents, 1)
	require.Len(t, sent.Contents[0].Parts, 1)
	// The prompt is sent verbatim, whitespace included.
	assert.Equal(t, "  hi there ", sent.Contents[0].Parts[0].Text)
}

// =============================================================================
// RESPONSE HANDLING
// =============================================================================

func TestGenerate_NoCandidates(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"empty object", http.StatusOK, `{}`},
		{"empty candidates", http.StatusOK, `{"candidates":[]}`},
		{"no parts", http.StatusOK, `{"candidates":[{"content":{"parts":[]}}]}`},
		{"empty text", http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`},
		{"api error body", http.StatusBadRequest, `{"error":{"code":400,"message":"bad key","status":"INVALID_ARGUMENT"}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.status, tc.body, nil, nil)
			c := NewClient("k", srv.URL, zerolog.Nop())

			_, err := c.Generate(context.Background(), "q")
			assert.True(t, errors.Is(err, ErrNoCandidates), "got %v", err)
		})
	}
}

func TestGenerate_UndecodableBody(t *testing.T) {
	srv := newTestServer(t, http.StatusBadGateway, `<html>bad gateway</html>`, nil, nil)
	c := NewClient("k", srv.URL, zerolog.Nop())

	_, err := c.Generate(context.Background(), "q")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoCandidates))
	assert.Contains(t, err.Error(), "decode gemini response")
}

func TestGenerate_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient("k", url, zerolog.Nop())
	_, err := c.Generate(context.Background(), "q")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoCandidates))
}

func TestGenerate_BodyOverLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"`))
		_, _ = w.Write(bytes.Repeat([]byte("a"), MaxResponseSize))
		_, _ = w.Write([]byte(`"}]}}]}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", srv.URL, zerolog.Nop()).Generate(context.Background(), "q")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoCandidates))
	assert.Contains(t, err.Error(), "too large")
}

func TestGenerate_NotConfigured(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := NewClient("   ", srv.URL, zerolog.Nop())
	assert.False(t, c.IsConfigured())

	_, err := c.Generate(context.Background(), "q")
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.Zero(t, calls.Load())

	c.SetAPIKey("later")
	assert.True(t, c.IsConfigured())
}

func TestGenerate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL, zerolog.Nop()).WithTimeout(50 * time.Millisecond)
	_, err := c.Generate(context.Background(), "q")
	require.Error(t, err)
}

func TestNewClient_DefaultEndpoint(t *testing.T) {
	c := NewClient("k", "", zerolog.Nop())
	assert.Equal(t, DefaultEndpoint, c.Endpoint())
}

func TestGenerateResponse_Text(t *testing.T) {
	var nilResp *GenerateResponse
	assert.Equal(t, "", nilResp.Text())

	r := &GenerateResponse{Candidates: []Candidate{
		{Content: Content{Parts: []Part{{Text: "first"}, {Text: "second"}}}},
		{Content: Content{Parts: []Part{{Text: "other"}}}},
	}}
	assert.Equal(t, "first", r.Text())
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "none", fingerprint(""))
	fp := fingerprint("secret-key")
	assert.Len(t, fp, 8)
	assert.NotContains(t, fp, "secret")
}

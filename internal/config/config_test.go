// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FINAI_API_KEY", "GEMINI_API_KEY", "FINAI_ENDPOINT", "FINAI_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultEndpoint, cfg.Gemini.Endpoint)
	assert.Equal(t, 0, cfg.Gemini.TimeoutSecs)
	assert.True(t, cfg.UI.RenderMarkdown)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[gemini]
api_key = "  file-key  "
timeout_secs = 30

[attachments]
cache_dir = "/tmp/finai-cache"

[ui]
render_markdown = false
export_dir = "/tmp/finai-exports"

[log]
level = "DEBUG"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.Gemini.APIKey)
	assert.Equal(t, DefaultEndpoint, cfg.Gemini.Endpoint, "absent keys keep defaults")
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout())
	assert.Equal(t, "/tmp/finai-cache", cfg.Attachments.CacheDir)
	assert.False(t, cfg.UI.RenderMarkdown)
	assert.Equal(t, "/tmp/finai-exports", cfg.UI.ExportDir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_DefaultPathMissingIsFine(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, cfg.Gemini.Endpoint)
}

func TestLoad_UnknownKey(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[gemini]\napi_kee = \"typo\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini.api_kee")
}

func TestLoad_Malformed(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "[gemini\n"))
	assert.Error(t, err)
}

// =============================================================================
// ENV TESTS
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("FINAI_ENDPOINT", "http://localhost:9999/gen")
	t.Setenv("FINAI_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "[gemini]\napi_key = \"file-key\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "gemini-key", cfg.Gemini.APIKey)
	assert.Equal(t, "http://localhost:9999/gen", cfg.Gemini.Endpoint)
	assert.Equal(t, "warn", cfg.Log.Level)

	t.Setenv("FINAI_API_KEY", "finai-key")
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "finai-key", cfg.Gemini.APIKey, "FINAI_API_KEY wins")
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"relative endpoint", func(c *Config) { c.Gemini.Endpoint = "/v1/models" }, "gemini.endpoint"},
		{"bad scheme", func(c *Config) { c.Gemini.Endpoint = "ftp://host/x" }, "gemini.endpoint"},
		{"negative timeout", func(c *Config) { c.Gemini.TimeoutSecs = -1 }, "gemini.timeout_secs"},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.edit(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var verrs ValidateErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tc.field, verrs[0].Field)
		})
	}
}

func TestString_RedactsKey(t *testing.T) {
	cfg := Default()
	cfg.Gemini.APIKey = "super-secret"

	out := cfg.String()
	assert.NotContains(t, out, "super-secret")
	assert.Contains(t, out, "[REDACTED]")
	assert.Equal(t, "super-secret", cfg.Gemini.APIKey, "original untouched")
	assert.True(t, cfg.HasAPIKey())
}

// =============================================================================
// WATCH TESTS
// =============================================================================

func TestWatch_ReloadsOnWrite(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[gemini]\napi_key = \"old\"\n")

	got := make(chan *Config, 4)
	w, err := WatchWithDebounce(path, 20*time.Millisecond, func(cfg *Config, err error) {
		if err == nil {
			got <- cfg
		}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[gemini]\napi_key = \"new\"\n"), 0o600))

	select {
	case cfg := <-got:
		assert.Equal(t, "new", cfg.Gemini.APIKey)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatch_IgnoresSiblings(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "")

	calls := make(chan struct{}, 4)
	w, err := WatchWithDebounce(path, 10*time.Millisecond, func(*Config, error) {
		calls <- struct{}{}
	})
	require.NoError(t, err)
	defer w.Close()

	sibling := filepath.Join(filepath.Dir(path), "other.toml")
	require.NoError(t, os.WriteFile(sibling, []byte("x"), 0o600))

	select {
	case <-calls:
		t.Fatal("reload triggered by unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
	assert.True(t, strings.HasSuffix(w.Path(), "config.toml"))
}

func TestWatch_CloseTwice(t *testing.T) {
	w, err := Watch(writeConfig(t, ""), nil)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

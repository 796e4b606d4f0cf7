// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// DefaultEndpoint is the gemini-2.0-flash generateContent URL.
const DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete finai configuration.
type Config struct {
	Gemini      GeminiConfig      `toml:"gemini"`
	Attachments AttachmentsConfig `toml:"attachments"`
	UI          UIConfig          `toml:"ui"`
	Log         LogConfig         `toml:"log"`
}

// GeminiConfig configures the generation endpoint.
type GeminiConfig struct {
	// APIKey is sent in the X-goog-api-key header
	APIKey string `toml:"api_key"`
	// Endpoint is the full generateContent URL
	Endpoint string `toml:"endpoint"`
	// TimeoutSecs bounds each request; 0 means no bound
	TimeoutSecs int `toml:"timeout_secs"`
}

// Timeout returns TimeoutSecs as a duration.
func (g GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// AttachmentsConfig configures the attachment pickers.
type AttachmentsConfig struct {
	// CacheDir receives copies of picked documents (empty = user cache dir)
	CacheDir string `toml:"cache_dir"`
	// StartDir is where the file picker opens (empty = home directory)
	StartDir string `toml:"start_dir"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// RenderMarkdown renders assistant replies with glamour
	RenderMarkdown bool `toml:"render_markdown"`
	// ExportDir receives saved transcripts (empty = current directory)
	ExportDir string `toml:"export_dir"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `toml:"level"`
	// Path is the log file (empty = ~/.finai/finai.log)
	Path string `toml:"path"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Endpoint: DefaultEndpoint,
		},
		UI: UIConfig{
			RenderMarkdown: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the finai configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "could not determine home directory")
	}
	return filepath.Join(home, ".finai"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultLogPath returns ~/.finai/finai.log.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "finai.log"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the config file at path, or the default path when path is
// empty. A missing default file is not an error; a missing explicit file is.
// Environment overrides are applied last, then the result is validated.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if explicit || !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "config file %s", path)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys absent from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrapf(err, "failed to decode TOML file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return errors.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// =============================================================================
// DEFAULTS AND ENV
// =============================================================================

// SetDefaults fills empty fields that have a default.
func (c *Config) SetDefaults() {
	if strings.TrimSpace(c.Gemini.Endpoint) == "" {
		c.Gemini.Endpoint = DefaultEndpoint
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported environment variables:
//   - FINAI_API_KEY: overrides gemini.api_key
//   - GEMINI_API_KEY: used for gemini.api_key when FINAI_API_KEY is unset
//   - FINAI_ENDPOINT: overrides gemini.endpoint
//   - FINAI_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("FINAI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}

	if endpoint := os.Getenv("FINAI_ENDPOINT"); endpoint != "" {
		c.Gemini.Endpoint = endpoint
	}

	if level := os.Getenv("FINAI_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate validates the configuration and returns any errors.
// A missing API key is not an error: the client reports it per request.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Gemini.Endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "gemini.endpoint",
			Message: fmt.Sprintf("invalid URL '%s', must be an absolute http(s) URL", c.Gemini.Endpoint),
		})
	}

	if c.Gemini.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "gemini.timeout_secs",
			Message: fmt.Sprintf("must be >= 0, got %d", c.Gemini.TimeoutSecs),
		})
	}

	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// HasAPIKey reports whether an API key is configured.
func (c *Config) HasAPIKey() bool {
	return c.Gemini.APIKey != ""
}

// Clone returns a copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as TOML with the API key redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Gemini.APIKey != "" {
		safe.Gemini.APIKey = "[REDACTED]"
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(safe); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}

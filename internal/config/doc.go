// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for finai.
//
// Configuration is TOML with built-in defaults, environment variable
// overrides and validation. The file can be watched for changes so a
// running session picks up a new API key without restarting.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - GeminiConfig: API key, endpoint and request timeout
//   - AttachmentsConfig: Document cache and picker start directory
//   - Watcher: fsnotify-based reloader for the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (FINAI_*, GEMINI_API_KEY)
//   - ~/.finai/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//
// Watch for edits:
//
//	w, err := config.Watch(path, func(cfg *config.Config, err error) {
//	    client.SetAPIKey(cfg.Gemini.APIKey)
//	})
//	defer w.Close()
package config

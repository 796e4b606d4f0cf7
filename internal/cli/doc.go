// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the finai command line.
//
// # Commands
//
//   - finai: full-screen chat (default)
//   - finai chat: line-based chat for plain terminals and pipes
//   - finai version: build information
//
// Both chat front ends share one wiring path: config, logging, the
// conversation store, the Gemini client, the dispatcher and attachment
// intake. They differ only in how they prompt for attachment paths and
// render replies.
//
// # Global Flags
//
//	--config PATH       config file (default ~/.finai/config.toml)
//	--log-level LEVEL   debug, info, warn or error
//
// Any startup failure exits with status 1.
package cli

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a conversation transcript to a file.
//
// Exports are one-way snapshots for the user to keep or share; nothing in
// finai reads them back.
//
// # Supported Formats
//
//   - Markdown: human-readable transcript
//   - JSON: the conversation as stored in memory
//
// # Usage
//
//	exp, err := export.ForFormat("md", nil)
//	path, err := export.ExportToFile(conv, exp, &export.Options{OutputDir: "."})
package export

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "Chat #1234", 20, "Chat #1234"},
		{"ascii", "Chat #1234 long", 8, "Chat ..."},
		{"wide chars", "日本語", 3, "日"},
		{"wide chars with ellipsis", "日本語テキスト", 7, "日本..."},
		{"zero", "x", 0, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateWidth(tc.input, tc.maxWidth)
			assert.Equal(t, tc.want, got)
			assert.LessOrEqual(t, StringWidth(got), tc.maxWidth)
		})
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "日本 ", PadRight("日本", 5))
	assert.Equal(t, 6, StringWidth(PadRight("abcdefghij", 6)))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "one", FirstLine("one\ntwo"))
	assert.Equal(t, "single", FirstLine("single"))
	assert.Equal(t, "", FirstLine("\nrest"))
}

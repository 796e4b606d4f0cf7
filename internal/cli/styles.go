// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/finai/internal/ui/styles"
)

// =============================================================================
// SHARED STYLES FOR LINE-MODE OUTPUT
// =============================================================================

var (
	// UserStyle prefixes the user's lines in transcripts
	UserStyle = lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true)

	// TitleStyle is the welcome banner
	TitleStyle = lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true)

	// AssistantStyle prefixes replies
	AssistantStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	// AttachmentStyle marks attachment lines
	AttachmentStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan)

	// ActiveStyle marks the active conversation in listings
	ActiveStyle = lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true)

	// SuccessStyle is used for confirmations
	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	// ErrorStyle is used for error messages and failures
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// DimStyle is used for secondary information and hints
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)

// RenderSeparator renders a horizontal rule. Default width is 60.
func RenderSeparator(width ...int) string {
	w := 60
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return DimStyle.Render(strings.Repeat("-", w))
}

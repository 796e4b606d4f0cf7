// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the finai TUI.
//
// All colors are lipgloss AdaptiveColor values so the same theme works on
// light and dark terminals; the Theme records what termenv detected.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderHint  lipgloss.Style

	// Message bubbles
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	Attachment      lipgloss.Style

	// Input bar
	InputContainer  lipgloss.Style
	InputPrompt     lipgloss.Style
	SendEnabled     lipgloss.Style
	SendDisabled    lipgloss.Style
	AttachIdle      lipgloss.Style
	AttachBusy      lipgloss.Style
	TypingIndicator lipgloss.Style
	StatusBar       lipgloss.Style

	// Sidebar
	Sidebar         lipgloss.Style
	SidebarTitle    lipgloss.Style
	SidebarItem     lipgloss.Style
	SidebarActive   lipgloss.Style
	SidebarCount    lipgloss.Style
	SidebarNewChat  lipgloss.Style
	SidebarSelected lipgloss.Style

	// Picker overlay
	PickerBox   lipgloss.Style
	PickerTitle lipgloss.Style
	PickerHint  lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lipgloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Amber)

	t.HeaderHint = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		Padding(0, 1)

	t.Attachment = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Input bar
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.SendEnabled = lipgloss.NewStyle().
		Foreground(Surface).
		Background(Amber).
		Bold(true).
		Padding(0, 1)

	t.SendDisabled = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 1)

	t.AttachIdle = lipgloss.NewStyle().
		Foreground(Cyan)

	t.AttachBusy = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.TypingIndicator = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.SidebarActive = lipgloss.NewStyle().
		Foreground(Amber).
		Background(AmberDeep).
		Bold(true)

	t.SidebarCount = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.SidebarNewChat = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.SidebarSelected = lipgloss.NewStyle().
		Reverse(true)

	// Picker overlay
	t.PickerBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(0, 1)

	t.PickerTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Amber)

	t.PickerHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// BubbleWidth returns the maximum width of a message bubble for the
// current layout.
func (t *Theme) BubbleWidth(available int) int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return max(available-2, 10)
	case LayoutMedium:
		return available * 4 / 5
	default:
		return available * 2 / 3
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jeranaias/finai/internal/model"
	"github.com/jeranaias/finai/internal/ui/styles"
)

// =============================================================================
// MARKDOWN
// =============================================================================

// markdown renders assistant replies through glamour. Renderers are built
// lazily and reused while the wrap width stays the same.
type markdown struct {
	enabled bool
	theme   *styles.Theme

	width    int
	renderer *glamour.TermRenderer
}

func newMarkdown(theme *styles.Theme, enabled bool) *markdown {
	return &markdown{enabled: enabled, theme: theme}
}

// Render returns text as styled markdown wrapped at width. If markdown is
// disabled or rendering fails the text is word-wrapped instead.
func (md *markdown) Render(text string, width int) string {
	if !md.enabled || width < 10 {
		return wrap(text, width)
	}
	r := md.rendererFor(width)
	if r == nil {
		return wrap(text, width)
	}
	out, err := r.Render(text)
	if err != nil {
		return wrap(text, width)
	}
	return strings.Trim(out, "\n")
}

func (md *markdown) rendererFor(width int) *glamour.TermRenderer {
	if md.renderer != nil && md.width == width {
		return md.renderer
	}
	style := "light"
	if md.theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithColorProfile(md.theme.ColorProfile),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	md.renderer = r
	md.width = width
	return r
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// transcript renders the active conversation for the viewport.
type transcript struct {
	theme *styles.Theme
	md    *markdown
}

// Render lays out every message, followed by the typing loader when a
// reply is pending.
func (t transcript) Render(conv model.Conversation, width int, typing string) string {
	if conv.IsEmpty() && typing == "" {
		return t.empty(width)
	}

	parts := make([]string, 0, conv.Count()+1)
	for _, msg := range conv.Messages {
		parts = append(parts, t.message(msg, width))
	}
	if typing != "" {
		parts = append(parts, t.typing(typing))
	}
	return strings.Join(parts, "\n")
}

func (t transcript) message(msg model.Message, width int) string {
	bubbleWidth := t.theme.BubbleWidth(width)
	// Bubble padding takes two columns.
	textWidth := max(bubbleWidth-2, 8)

	var body string
	switch {
	case msg.Kind == model.KindImage:
		body = t.theme.Attachment.Render("[image] ") + wrap(msg.Title(), textWidth-8)
	case msg.Kind == model.KindDocument:
		body = t.theme.Attachment.Render("[PDF] ") + wrap(msg.Title(), textWidth-6)
	case msg.Sender == model.SenderAssistant:
		body = t.md.Render(msg.Content, textWidth)
	default:
		body = wrap(msg.Content, textWidth)
	}

	if msg.Sender == model.SenderUser {
		bubble := t.theme.UserBubble.MaxWidth(bubbleWidth).Render(body)
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Right).
			MarginTop(1).
			Render(bubble)
	}

	bubble := t.theme.AssistantBubble.MaxWidth(bubbleWidth).Render(body)
	return lipgloss.NewStyle().
		MarginTop(1).
		Render(bubble)
}

func (t transcript) typing(frame string) string {
	return lipgloss.NewStyle().
		MarginTop(1).
		Render(t.theme.AssistantBubble.Render(t.theme.TypingIndicator.Render(frame)))
}

func (t transcript) empty(width int) string {
	lines := []string{
		t.theme.HeaderTitle.Render("FinAI"),
		"",
		t.theme.HeaderHint.Render("Ask about budgeting, saving or investing."),
		t.theme.HeaderHint.Render("Ctrl+A attaches an image or PDF."),
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		MarginTop(2).
		Render(strings.Join(lines, "\n"))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/finai/internal/switcher"
	"github.com/jeranaias/finai/internal/ui/styles"
	"github.com/jeranaias/finai/internal/util"
)

const newChatLabel = "+ New Chat"

// sidebar renders the switcher panel and animates its width.
type sidebar struct {
	panel  *switcher.Panel
	spring harmonica.Spring

	width    float64
	velocity float64
	// animating is true while a frame tick is outstanding.
	animating bool

	// cursor indexes Items(); len(Items()) is the New Chat row.
	cursor int
}

func newSidebar(panel *switcher.Panel) *sidebar {
	return &sidebar{
		panel:  panel,
		spring: harmonica.NewSpring(harmonica.FPS(styles.SidebarFPS), styles.SidebarFrequency, styles.SidebarDamping),
	}
}

// target is the width the spring is pulling towards.
func (s *sidebar) target() float64 {
	if s.panel.IsOpen() {
		return styles.SidebarWidth
	}
	return 0
}

// Width returns the current rendered width in columns.
func (s *sidebar) Width() int {
	return int(math.Round(s.width))
}

// Visible reports whether any part of the sidebar is on screen.
func (s *sidebar) Visible() bool {
	return s.Width() > 0
}

// Settled reports whether the spring has reached its target.
func (s *sidebar) Settled() bool {
	return math.Abs(s.width-s.target()) < 0.5 && math.Abs(s.velocity) < 0.5
}

// Animate starts the frame loop if it is not already running.
func (s *sidebar) Animate() tea.Cmd {
	if s.animating {
		return nil
	}
	if s.Settled() {
		s.snap()
		return nil
	}
	s.animating = true
	return frameTick()
}

// Step advances the spring one frame and schedules the next one.
func (s *sidebar) Step() tea.Cmd {
	s.width, s.velocity = s.spring.Update(s.width, s.velocity, s.target())
	if s.Settled() {
		s.snap()
		s.animating = false
		return nil
	}
	return frameTick()
}

func (s *sidebar) snap() {
	s.width = s.target()
	s.velocity = 0
}

func frameTick() tea.Cmd {
	return tea.Tick(time.Second/styles.SidebarFPS, func(time.Time) tea.Msg {
		return sidebarFrameMsg{}
	})
}

// ResetCursor puts the cursor on the active conversation.
func (s *sidebar) ResetCursor() {
	for i, item := range s.panel.Items() {
		if item.Active {
			s.cursor = i
			return
		}
	}
	s.cursor = 0
}

// Move shifts the cursor by delta, clamped to the rows.
func (s *sidebar) Move(delta int) {
	rows := len(s.panel.Items()) + 1
	s.cursor = min(max(s.cursor+delta, 0), rows-1)
}

// Selected returns the conversation under the cursor, or ok=false when the
// cursor is on the New Chat row.
func (s *sidebar) Selected() (switcher.Item, bool) {
	items := s.panel.Items()
	if s.cursor >= 0 && s.cursor < len(items) {
		return items[s.cursor], true
	}
	return switcher.Item{}, false
}

// View renders the sidebar at its current animated width.
func (s *sidebar) View(theme *styles.Theme, height int) string {
	w := s.Width()
	if w <= 0 {
		return ""
	}
	// Frame (border + padding) takes three columns.
	inner := max(w-3, 1)

	var rows []string
	rows = append(rows, theme.SidebarTitle.Render(util.TruncateWidth("Chats  [x] Esc", inner)))

	for i, item := range s.panel.Items() {
		count := fmt.Sprintf("%d msg", item.Count)
		labelWidth := max(inner-util.StringWidth(count)-1, 1)
		line := util.PadRight(item.Label, labelWidth) + " " + theme.SidebarCount.Render(count)

		style := theme.SidebarItem
		if item.Active {
			style = theme.SidebarActive
		}
		if i == s.cursor {
			style = style.Inherit(theme.SidebarSelected)
		}
		rows = append(rows, style.Render(line))
	}

	newChat := theme.SidebarNewChat.Render(util.PadRight(newChatLabel, inner))
	if s.cursor == len(s.panel.Items()) {
		newChat = theme.SidebarNewChat.Inherit(theme.SidebarSelected).Render(util.PadRight(newChatLabel, inner))
	}
	rows = append(rows, "", newChat)

	body := strings.Join(rows, "\n")
	return theme.Sidebar.
		Width(max(w-1, 1)).
		Height(max(height, 1)).
		MaxWidth(w).
		Render(lipgloss.NewStyle().MaxWidth(inner).Render(body))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/finai/internal/ui/styles"
	"github.com/jeranaias/finai/internal/util"
)

// =============================================================================
// MAIN VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	main := m.renderChat()
	if m.sidebar.Visible() {
		side := m.sidebar.View(m.theme, m.height)
		main = lipgloss.JoinHorizontal(lipgloss.Top, side, main)
	}
	return lipgloss.NewStyle().MaxWidth(m.width).MaxHeight(m.height).Render(main)
}

func (m Model) renderChat() string {
	body := m.viewport.View()
	if m.overlay != nil {
		body = lipgloss.Place(m.mainWidth(), m.viewport.Height, lipgloss.Center, lipgloss.Center,
			m.overlay.View(m.theme, m.mainWidth()))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderInput(),
	)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	w := m.mainWidth()
	burger := m.theme.HeaderHint.Render("[=] C-b")
	title := m.theme.HeaderTitle.Render("FinAI")
	label := m.theme.HeaderHint.Render(m.state.Active().Label())

	gap := max(w-lipgloss.Width(burger)-lipgloss.Width(title)-lipgloss.Width(label)-4, 1)
	line := burger + " " + title + lipgloss.NewStyle().Width(gap).Render("") + label
	return m.theme.Header.Width(w).Render(util.TruncateWidth(line, w-2))
}

// =============================================================================
// INPUT BAR
// =============================================================================

func (m Model) renderInput() string {
	w := m.mainWidth()

	attach := m.theme.AttachIdle.Render("[+]")
	if m.uploading {
		attach = m.theme.AttachBusy.Render("[..]")
	}
	send := m.theme.SendDisabled.Render("Send")
	if strings.TrimSpace(m.input.Value()) != "" {
		send = m.theme.SendEnabled.Render("Send")
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center, attach, " ", m.input.View(), " ", send)
	return m.theme.InputContainer.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, row, m.renderStatus()),
	)
}

func (m Model) renderStatus() string {
	if m.status != "" {
		if m.statusErr {
			return styles.RenderError(m.status)
		}
		return styles.RenderSuccess(m.status)
	}
	return m.theme.StatusBar.Render(m.help.View(m.keys))
}

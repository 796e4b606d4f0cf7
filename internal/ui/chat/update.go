// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/jeranaias/finai/internal/export"
	"github.com/jeranaias/finai/internal/model"
	"github.com/jeranaias/finai/internal/util"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// sendCmd runs the dispatcher in a command goroutine.
func (m Model) sendCmd(conversationID, text string) tea.Cmd {
	ctx := m.ctx
	d := m.dispatcher
	return func() tea.Msg {
		sent := d.SendText(ctx, conversationID, text)
		return SendDoneMsg{ConversationID: conversationID, Sent: sent}
	}
}

// attachCmd runs the picker sequence in a command goroutine. The pickers
// reach back into the UI through the bridge.
func (m Model) attachCmd(conversationID string) tea.Cmd {
	ctx := m.ctx
	in := m.intake
	return func() tea.Msg {
		msg, ok := in.PickAttachment(ctx, conversationID)
		return AttachDoneMsg{ConversationID: conversationID, Message: msg, Attached: ok}
	}
}

// copyCmd copies the active conversation's last reply.
func (m Model) copyCmd() tea.Cmd {
	reply, ok := m.state.Active().LastFrom(model.SenderAssistant)
	if !ok {
		return func() tea.Msg {
			return CopiedMsg{Err: errors.New("no reply to copy")}
		}
	}
	copyText := m.copyText
	return func() tea.Msg {
		if err := copyText(reply.Content); err != nil {
			return CopiedMsg{Err: errors.Wrap(err, "copy to clipboard")}
		}
		return CopiedMsg{}
	}
}

// exportCmd saves the active conversation as Markdown.
func (m Model) exportCmd() tea.Cmd {
	conv := m.state.Active()
	opts := export.DefaultOptions()
	if m.exportDir != "" {
		opts.OutputDir = m.exportDir
	}
	return func() tea.Msg {
		path, err := export.ExportToFile(conv, export.NewMarkdownExporter(opts), opts)
		return ExportedMsg{Path: path, Err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.layout()
		m.refresh(true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case StateChangedMsg:
		m.state = msg.State
		m.sidebar.Move(0)
		m.refresh(true)
		return m, nil

	case PendingChangedMsg:
		return m.setPending(msg.Pending)

	case UploadingChangedMsg:
		m.uploading = msg.Uploading
		return m, nil

	case SendDoneMsg:
		m.state = m.store.Snapshot()
		if m.pending && !m.dispatcher.Pending() {
			return m.setPending(false)
		}
		m.refresh(true)
		return m, nil

	case AttachDoneMsg:
		m.state = m.store.Snapshot()
		m.uploading = m.intake.Uploading()
		if msg.Attached {
			m.setStatus("Attached "+msg.Message.Title(), false)
		}
		m.refresh(true)
		return m, nil

	case CopiedMsg:
		if msg.Err != nil {
			m.setStatus(msg.Err.Error(), true)
		} else {
			m.setStatus("Reply copied", false)
		}
		return m, nil

	case ExportedMsg:
		if msg.Err != nil {
			m.log.Warn().Err(msg.Err).Msg("transcript export failed")
			m.setStatus("Save failed: "+errors.Cause(msg.Err).Error(), true)
		} else {
			m.setStatus("Saved "+msg.Path, false)
		}
		return m, nil

	case ConfigReloadedMsg:
		if msg.Err != nil {
			m.setStatus("Config reload failed: "+msg.Err.Error(), true)
		} else {
			m.setStatus("Config reloaded", false)
		}
		return m, nil

	case PickRequestMsg:
		return m.openPicker(msg)

	case sidebarFrameMsg:
		cmd := m.sidebar.Step()
		m.layout()
		m.refresh(false)
		return m, cmd

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh(false)
		return m, cmd
	}

	// Anything else (file listings, cursor blink) goes to the overlay or input.
	if m.overlay != nil {
		return m.updateOverlay(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay != nil {
		return m.updateOverlay(msg)
	}

	if key.Matches(msg, m.keys.Quit) {
		m.Close()
		return m, tea.Quit
	}
	m.setStatus("", false)

	if m.sidebar.panel.IsOpen() {
		return m.handleSidebarKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.ToggleSidebar):
		return m.toggleSidebar()

	case key.Matches(msg, m.keys.NewChat):
		m.sidebar.panel.NewChat()
		m.state = m.store.Snapshot()
		m.refresh(true)
		return m, m.sidebar.Animate()

	case key.Matches(msg, m.keys.Send):
		return m.submit()

	case key.Matches(msg, m.keys.Attach):
		if m.uploading {
			return m, nil
		}
		// Mark busy now so a second press before the tracker reports is ignored.
		m.uploading = true
		return m, m.attachCmd(m.ActiveConversationID())

	case key.Matches(msg, m.keys.CopyReply):
		return m, m.copyCmd()

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input unless it is blank.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	m.input.Reset()
	return m, m.sendCmd(m.ActiveConversationID(), text)
}

func (m Model) setPending(pending bool) (tea.Model, tea.Cmd) {
	was := m.pending
	m.pending = pending
	var cmd tea.Cmd
	if pending && !was {
		// Fresh spinner so the dots restart at one and stale ticks are dropped.
		m.spinner = newTypingSpinner(m.theme)
		cmd = m.spinner.Tick
	}
	m.refresh(true)
	return m, cmd
}

// setStatus shows text on the one-row status line.
func (m *Model) setStatus(text string, isErr bool) {
	m.status = util.FirstLine(text)
	m.statusErr = isErr
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m Model) toggleSidebar() (tea.Model, tea.Cmd) {
	if m.sidebar.panel.Toggle() {
		m.sidebar.ResetCursor()
		m.input.Blur()
	} else {
		m.input.Focus()
	}
	return m, m.sidebar.Animate()
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.ToggleSidebar):
		m.sidebar.panel.Close()
		m.input.Focus()
		return m, m.sidebar.Animate()

	case key.Matches(msg, m.keys.Up):
		m.sidebar.Move(-1)

	case key.Matches(msg, m.keys.Down):
		m.sidebar.Move(1)

	case key.Matches(msg, m.keys.NewChat):
		return m.newChatFromSidebar()

	case key.Matches(msg, m.keys.Select):
		item, ok := m.sidebar.Selected()
		if !ok {
			return m.newChatFromSidebar()
		}
		if err := m.sidebar.panel.SelectConversation(item.ID); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.state = m.store.Snapshot()
		m.input.Focus()
		m.refresh(true)
		return m, m.sidebar.Animate()
	}
	return m, nil
}

func (m Model) newChatFromSidebar() (tea.Model, tea.Cmd) {
	m.sidebar.panel.NewChat()
	m.state = m.store.Snapshot()
	m.input.Focus()
	m.refresh(true)
	return m, m.sidebar.Animate()
}

// =============================================================================
// PICKER OVERLAY
// =============================================================================

func (m Model) openPicker(req PickRequestMsg) (tea.Model, tea.Cmd) {
	if m.overlay != nil {
		// One picker at a time; the newer request is cancelled.
		req.Reply <- ""
		return m, nil
	}
	m.overlay = newPickerOverlay(req, m.startDir, m.pickerHeight())
	m.input.Blur()
	return m, m.overlay.Init()
}

func (m Model) updateOverlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	done, cmd := m.overlay.Update(msg)
	if done {
		m.overlay = nil
		m.input.Focus()
	}
	return m, cmd
}

func (m Model) pickerHeight() int {
	// Box border, title, directory, blank lines and hint take eight rows.
	return max(m.height-headerHeight-inputHeight-8, 3)
}

// =============================================================================
// LAYOUT
// =============================================================================

// mainWidth is the width left for the transcript beside the sidebar.
func (m Model) mainWidth() int {
	return max(m.width-m.sidebar.Width(), 1)
}

func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	w := m.mainWidth()
	h := max(m.height-headerHeight-inputHeight, 1)
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	// Prompt and container padding.
	m.input.Width = max(w-14, 10)
	m.help.Width = w
}

// refresh re-renders the transcript. With follow set, or when the view was
// already at the bottom, it scrolls to the newest message.
func (m *Model) refresh(follow bool) {
	if !m.ready {
		return
	}
	atBottom := m.viewport.AtBottom()
	typing := ""
	if m.pending {
		typing = m.spinner.View()
	}
	m.viewport.SetContent(m.view.Render(m.state.Active(), m.viewport.Width, typing))
	if follow || atBottom {
		m.viewport.GotoBottom()
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/finai/internal/activity"
	"github.com/jeranaias/finai/internal/attach"
	"github.com/jeranaias/finai/internal/dispatch"
	"github.com/jeranaias/finai/internal/store"
	"github.com/jeranaias/finai/internal/switcher"
	"github.com/jeranaias/finai/internal/ui/styles"
)

// Layout rows outside the transcript.
const (
	headerHeight = 2 // title + border
	inputHeight  = 3 // border + input + status
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Deps are the collaborators the chat screen drives.
type Deps struct {
	Store      *store.Store
	Dispatcher *dispatch.Dispatcher
	Intake     *attach.Intake
	Panel      *switcher.Panel
	Bridge     *Bridge
	Theme      *styles.Theme
	Log        zerolog.Logger
}

// Options are presentation settings.
type Options struct {
	// RenderMarkdown renders assistant replies with glamour.
	RenderMarkdown bool
	// StartDir is where the file picker opens. Empty means home.
	StartDir string
	// ExportDir receives saved transcripts. Empty means the current directory.
	ExportDir string
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	store      *store.Store
	dispatcher *dispatch.Dispatcher
	intake     *attach.Intake
	bridge     *Bridge
	log        zerolog.Logger

	// Styling
	theme *styles.Theme
	keys  KeyMap
	view  transcript

	// Dimensions
	width  int
	height int
	ready  bool

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model
	sidebar  *sidebar
	overlay  *pickerOverlay

	// Last state seen from the store
	state     store.State
	pending   bool
	uploading bool

	// Status line
	status    string
	statusErr bool

	startDir  string
	exportDir string
	copyText  func(string) error

	// ctx is cancelled on quit so blocked pickers return.
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the chat screen.
func New(deps Deps, opts Options) Model {
	theme := deps.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	input := textinput.New()
	input.Placeholder = "Ask FinAI about your finances..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.Focus()

	startDir := opts.StartDir
	if startDir == "" {
		startDir = defaultStartDir()
	}

	bridge := deps.Bridge
	if bridge == nil {
		bridge = NewBridge()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		intake:     deps.Intake,
		bridge:     bridge,
		log:        deps.Log.With().Str("component", "ui").Logger(),
		theme:      theme,
		keys:       DefaultKeyMap(),
		view:       transcript{theme: theme, md: newMarkdown(theme, opts.RenderMarkdown)},
		input:      input,
		spinner:    newTypingSpinner(theme),
		help:       help.New(),
		sidebar:    newSidebar(deps.Panel),
		state:      deps.Store.Snapshot(),
		pending:    deps.Dispatcher.Pending(),
		uploading:  deps.Intake.Uploading(),
		startDir:   startDir,
		exportDir:  opts.ExportDir,
		copyText:   clipboard.WriteAll,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func newTypingSpinner(theme *styles.Theme) spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Spinner{
			Frames: styles.TypingDots.Frames,
			FPS:    styles.TypingDots.Interval,
		}),
		spinner.WithStyle(theme.TypingIndicator),
	)
}

// Bind forwards store commits, activity changes and picker requests to
// send, usually tea.Program.Send. Delivery happens on a separate goroutine
// in commit order, so mutations made inside Update never wait on the event
// loop. The returned func undoes it.
func (m Model) Bind(send func(tea.Msg)) (unbind func()) {
	fwd := newForwarder(send)
	unsubscribe := m.store.Subscribe(func(s store.State) {
		fwd.Post(StateChangedMsg{State: s})
	})
	removePending := m.dispatcher.Activity().OnChange(func(s activity.State) {
		fwd.Post(PendingChangedMsg{Pending: s == activity.InFlight})
	})
	removeUploading := m.intake.Activity().OnChange(func(s activity.State) {
		fwd.Post(UploadingChangedMsg{Uploading: s == activity.InFlight})
	})
	m.bridge.SetSend(fwd.Post)

	return func() {
		m.bridge.SetSend(nil)
		removeUploading()
		removePending()
		unsubscribe()
		fwd.Close()
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Close cancels outstanding pickers.
func (m Model) Close() {
	if m.overlay != nil {
		m.overlay.Cancel()
	}
	m.cancel()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// ActiveConversationID returns the conversation new input goes to.
func (m Model) ActiveConversationID() string {
	return m.state.Active().ID
}

// Pending reports whether a reply is being awaited.
func (m Model) Pending() bool {
	return m.pending
}

// Uploading reports whether an attachment is being picked.
func (m Model) Uploading() bool {
	return m.uploading
}

// PickerOpen reports whether the file picker overlay is shown.
func (m Model) PickerOpen() bool {
	return m.overlay != nil
}

// InputValue returns the current input text.
func (m Model) InputValue() string {
	return m.input.Value()
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}

// SetClipboard replaces the func used to copy replies.
func (m *Model) SetClipboard(fn func(string) error) {
	m.copyText = fn
}

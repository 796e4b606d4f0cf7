// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/jeranaias/finai/internal/attach"
	"github.com/jeranaias/finai/internal/config"
	"github.com/jeranaias/finai/internal/dispatch"
	"github.com/jeranaias/finai/internal/export"
	"github.com/jeranaias/finai/internal/model"
	"github.com/jeranaias/finai/internal/store"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader is the line editor the chat loop reads from.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// linerReader provides input history and line editing.
type linerReader struct {
	*liner.State
	historyFile string
}

// newLinerReader creates a line editor with history loaded from the config
// directory.
func newLinerReader() *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	r := &linerReader{State: line, historyFile: filepath.Join(configDir, "chat_history")}

	if f, err := os.Open(r.historyFile); err == nil {
		r.ReadHistory(f)
		f.Close()
	}
	return r
}

// Close saves history with owner-only permissions and restores the terminal.
func (r *linerReader) Close() error {
	if err := os.MkdirAll(filepath.Dir(r.historyFile), 0o700); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			r.WriteHistory(f)
			f.Close()
		}
	}
	return r.State.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// chatSession holds the state for a line-mode chat.
type chatSession struct {
	in  lineReader
	out io.Writer

	store      *store.Store
	dispatcher *dispatch.Dispatcher
	intake     *attach.Intake

	render    func(string) string
	copyText  func(string) error
	exportDir string
}

func newChatSession(app *App, in lineReader, out io.Writer, render func(string) string) *chatSession {
	s := &chatSession{
		in:         in,
		out:        out,
		store:      app.Store,
		dispatcher: app.Dispatcher,
		render:     render,
		copyText:   clipboard.WriteAll,
		exportDir:  app.Config.UI.ExportDir,
	}
	s.intake = app.NewIntake(attach.PathSourceFunc(s.choosePath))
	return s
}

// newReplyRenderer renders markdown with glamour, or returns replies as
// they are when markdown is off.
func newReplyRenderer(markdown bool) func(string) string {
	plain := func(s string) string { return s }
	if !markdown {
		return plain
	}

	style := "light"
	if termenv.HasDarkBackground() {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithColorProfile(GetColorProfile()),
		glamour.WithWordWrap(GetTerminalWidth()-4),
	)
	if err != nil {
		return plain
	}
	return func(s string) string {
		out, err := r.Render(s)
		if err != nil {
			return s
		}
		return strings.Trim(out, "\n")
	}
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

func runChat(opts GlobalOptions, out io.Writer) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	watcher := app.WatchConfig(nil)
	defer watcher.Close()

	in := newLinerReader()
	defer in.Close()

	s := newChatSession(app, in, out, newReplyRenderer(app.Config.UI.RenderMarkdown && IsStdoutTTY()))
	return s.Run(context.Background())
}

// Run reads lines until EOF, Ctrl+C or /quit.
func (s *chatSession) Run(ctx context.Context) error {
	s.printWelcome()

	for {
		line, err := s.in.Prompt("finai> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return errors.Wrap(err, "read input")
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		s.in.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if !s.handleSlashCommand(ctx, input) {
				return nil
			}
			continue
		}
		s.send(ctx, line)
	}
}

func (s *chatSession) printWelcome() {
	fmt.Fprintln(s.out, TitleStyle.Render("FinAI"))
	fmt.Fprintln(s.out, DimStyle.Render("Ask about budgeting, saving or investing. /help lists commands."))
	fmt.Fprintln(s.out, RenderSeparator())
}

// =============================================================================
// MESSAGE PROCESSING
// =============================================================================

// send dispatches the raw line to the active conversation and prints the
// reply that lands there.
func (s *chatSession) send(ctx context.Context, line string) {
	convID := s.store.ActiveID()
	fmt.Fprintln(s.out, DimStyle.Render("..."))

	if !s.dispatcher.SendText(ctx, convID, line) {
		return
	}
	conv, ok := s.store.Conversation(convID)
	if !ok {
		return
	}
	if reply, ok := conv.LastFrom(model.SenderAssistant); ok {
		fmt.Fprintln(s.out, AssistantStyle.Render(model.SenderAssistant.DisplayName()+":"))
		fmt.Fprintln(s.out, s.render(reply.Content))
		fmt.Fprintln(s.out)
	}
}

// choosePath asks for an attachment path on the same line editor.
func (s *chatSession) choosePath(_ context.Context, prompt attach.PathPrompt) (string, error) {
	label := prompt.Title
	if len(prompt.Types) > 0 {
		label += " (" + strings.Join(prompt.Types, ", ") + ")"
	}
	path, err := s.in.Prompt(label + " path, Enter to skip: ")
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return "", nil
	}
	return path, err
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand runs a /command. It returns false when the session
// should end.
func (s *chatSession) handleSlashCommand(ctx context.Context, input string) bool {
	fields := strings.Fields(input)
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "/quit", "/q", "/exit":
		return false

	case "/help", "/h":
		s.printHelp()

	case "/new", "/n":
		s.store.AddConversation()
		fmt.Fprintln(s.out, SuccessStyle.Render("Started "+s.store.ActiveConversation().Label()))

	case "/chats", "/c":
		s.printChats()

	case "/switch", "/s":
		if len(args) != 1 {
			s.printError(errors.New("usage: /switch N"))
			return true
		}
		if err := s.switchTo(args[0]); err != nil {
			s.printError(err)
			return true
		}
		fmt.Fprintln(s.out, SuccessStyle.Render("Switched to "+s.store.ActiveConversation().Label()))

	case "/attach", "/a":
		msg, ok := s.intake.PickAttachment(ctx, s.store.ActiveID())
		if !ok {
			fmt.Fprintln(s.out, DimStyle.Render("No attachment added."))
			return true
		}
		fmt.Fprintln(s.out, AttachmentStyle.Render(attachmentLine(msg)))

	case "/history":
		s.printHistory()

	case "/copy":
		reply, ok := s.store.ActiveConversation().LastFrom(model.SenderAssistant)
		if !ok {
			s.printError(errors.New("no reply to copy"))
			return true
		}
		if err := s.copyText(reply.Content); err != nil {
			s.printError(errors.Wrap(err, "copy to clipboard"))
			return true
		}
		fmt.Fprintln(s.out, SuccessStyle.Render("Reply copied"))

	case "/export", "/e":
		format := ""
		if len(args) > 0 {
			format = args[0]
		}
		path, err := s.export(format)
		if err != nil {
			s.printError(err)
			return true
		}
		fmt.Fprintln(s.out, SuccessStyle.Render("Saved "+path))

	default:
		s.printError(errors.Errorf("unknown command %s (try /help)", name))
	}
	return true
}

// export writes the active conversation to the export directory.
func (s *chatSession) export(format string) (string, error) {
	opts := export.DefaultOptions()
	if s.exportDir != "" {
		opts.OutputDir = s.exportDir
	}
	exp, err := export.ForFormat(format, opts)
	if err != nil {
		return "", err
	}
	return export.ExportToFile(s.store.ActiveConversation(), exp, opts)
}

// switchTo activates a conversation by 1-based position or label suffix.
func (s *chatSession) switchTo(arg string) error {
	convs := s.store.Conversations()
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(convs) {
			return errors.Errorf("no chat %d (have %d)", n, len(convs))
		}
		return s.store.SetActive(convs[n-1].ID)
	}
	suffix := strings.TrimPrefix(strings.ToLower(arg), "#")
	for _, c := range convs {
		if strings.HasSuffix(strings.ToLower(c.Label()), suffix) {
			return s.store.SetActive(c.ID)
		}
	}
	return errors.Errorf("no chat matching %q", arg)
}

func (s *chatSession) printHelp() {
	help := []struct{ cmd, desc string }{
		{"/new", "start a new chat"},
		{"/chats", "list chats"},
		{"/switch N", "switch to chat N"},
		{"/attach", "attach an image, or a PDF if no image is chosen"},
		{"/history", "show the current chat"},
		{"/copy", "copy the last reply"},
		{"/export", "save the chat as markdown (or: /export json)"},
		{"/quit", "exit"},
	}
	for _, h := range help {
		fmt.Fprintf(s.out, "  %-10s %s\n", h.cmd, DimStyle.Render(h.desc))
	}
}

func (s *chatSession) printChats() {
	activeID := s.store.ActiveID()
	for i, c := range s.store.Conversations() {
		line := fmt.Sprintf("%d. %s  (%d msg)", i+1, c.Label(), c.Count())
		if c.ID == activeID {
			fmt.Fprintln(s.out, ActiveStyle.Render("* "+line))
		} else {
			fmt.Fprintln(s.out, "  "+line)
		}
	}
}

func (s *chatSession) printHistory() {
	conv := s.store.ActiveConversation()
	if conv.IsEmpty() {
		fmt.Fprintln(s.out, DimStyle.Render("No messages yet."))
		return
	}
	for _, msg := range conv.Messages {
		if msg.Kind.IsAttachment() {
			fmt.Fprintln(s.out, AttachmentStyle.Render(attachmentLine(msg)))
			continue
		}
		fmt.Fprintf(s.out, "%s %s\n", senderStyle(msg.Sender).Render(msg.Sender.DisplayName()+":"), msg.Content)
	}
}

func senderStyle(sender model.Sender) lipgloss.Style {
	if sender == model.SenderUser {
		return UserStyle
	}
	return AssistantStyle
}

func (s *chatSession) printError(err error) {
	DisplayError(s.out, err)
}

func attachmentLine(msg model.Message) string {
	if msg.Kind == model.KindDocument {
		return "[PDF] " + msg.Title()
	}
	return "[image] " + msg.Title()
}

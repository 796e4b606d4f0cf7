// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/finai/internal/attach"
	"github.com/jeranaias/finai/internal/ui/styles"
)

// Extensions offered by the picker overlay. The picked file's content is
// sniffed afterwards, so these only narrow the listing.
var (
	mediaExtensions    = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".heic", ".mp4", ".mov", ".webm"}
	documentExtensions = []string{".pdf"}
)

// pickerOverlay wraps a bubbles filepicker for a single PickRequestMsg.
type pickerOverlay struct {
	picker filepicker.Model
	title  string
	reply  chan<- string
	cancel key.Binding
}

// newPickerOverlay builds an overlay rooted at startDir.
func newPickerOverlay(req PickRequestMsg, startDir string, height int) *pickerOverlay {
	fp := filepicker.New()
	fp.CurrentDirectory = startDir
	fp.AllowedTypes = extensionsFor(req.Prompt.Types)
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.AutoHeight = false
	fp.Height = max(height, 3)

	return &pickerOverlay{
		picker: fp,
		title:  req.Prompt.Title,
		reply:  req.Reply,
		cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	}
}

// Init reads the start directory.
func (o *pickerOverlay) Init() tea.Cmd {
	return o.picker.Init()
}

// Update feeds msg to the picker. done is true once a reply has been sent.
func (o *pickerOverlay) Update(msg tea.Msg) (done bool, cmd tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, o.cancel) {
		o.answer("")
		return true, nil
	}

	o.picker, cmd = o.picker.Update(msg)
	if ok, path := o.picker.DidSelectFile(msg); ok {
		o.answer(path)
		return true, cmd
	}
	return false, cmd
}

// Cancel answers the request as cancelled.
func (o *pickerOverlay) Cancel() {
	o.answer("")
}

func (o *pickerOverlay) answer(path string) {
	if o.reply == nil {
		return
	}
	o.reply <- path
	o.reply = nil
}

// View renders the overlay box.
func (o *pickerOverlay) View(theme *styles.Theme, width int) string {
	title := o.title
	if title == "" {
		title = "Choose a file"
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.PickerTitle.Render(title),
		theme.PickerHint.Render(o.picker.CurrentDirectory),
		"",
		o.picker.View(),
		"",
		theme.PickerHint.Render("Enter select  Esc cancel  Backspace up"),
	)
	return theme.PickerBox.Width(max(width-4, 20)).Render(body)
}

// extensionsFor maps MIME filters to file extensions for the listing.
func extensionsFor(types []string) []string {
	var exts []string
	for _, t := range types {
		switch {
		case t == attach.PDFType:
			exts = append(exts, documentExtensions...)
		case strings.HasPrefix(t, "image/"), strings.HasPrefix(t, "video/"):
			exts = appendMissing(exts, mediaExtensions...)
		}
	}
	return exts
}

func appendMissing(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

// defaultStartDir returns the home directory, or "." if it is unknown.
func defaultStartDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/finai/internal/attach"
	"github.com/jeranaias/finai/internal/model"
	"github.com/jeranaias/finai/internal/store"
)

// =============================================================================
// STORE AND ACTIVITY NOTIFICATIONS
// =============================================================================

// StateChangedMsg carries the store state after a committed mutation.
type StateChangedMsg struct {
	State store.State
}

// PendingChangedMsg reports the dispatcher's pending flag.
type PendingChangedMsg struct {
	Pending bool
}

// UploadingChangedMsg reports the intake's uploading flag.
type UploadingChangedMsg struct {
	Uploading bool
}

// =============================================================================
// COMMAND RESULTS
// =============================================================================

// SendDoneMsg is returned when a send command finishes.
type SendDoneMsg struct {
	ConversationID string
	Sent           bool
}

// AttachDoneMsg is returned when an attachment command finishes.
type AttachDoneMsg struct {
	ConversationID string
	Message        model.Message
	Attached       bool
}

// CopiedMsg reports the result of copying a reply to the clipboard.
type CopiedMsg struct {
	Err error
}

// ExportedMsg reports where a transcript was saved.
type ExportedMsg struct {
	Path string
	Err  error
}

// ConfigReloadedMsg reports that the config file was reloaded.
type ConfigReloadedMsg struct {
	Err error
}

// =============================================================================
// PICKER MESSAGES
// =============================================================================

// PickRequestMsg asks the UI to show the file picker. The chosen path, or
// "" when cancelled, must be sent on Reply exactly once.
type PickRequestMsg struct {
	Prompt attach.PathPrompt
	Reply  chan<- string
}

// =============================================================================
// ANIMATION MESSAGES
// =============================================================================

// sidebarFrameMsg advances the sidebar spring by one frame.
type sidebarFrameMsg struct{}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/finai/internal/attach"
)

// Bridge lets attachment pickers running in a command goroutine ask the
// Bubble Tea program for a path. It implements attach.PathSource.
type Bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewBridge creates an unbound bridge. Until SetSend is called every
// request is answered as cancelled.
func NewBridge() *Bridge {
	return &Bridge{}
}

// SetSend sets the func used to deliver requests, usually Program.Send.
func (b *Bridge) SetSend(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

// ChoosePath sends a PickRequestMsg and blocks until the UI replies or ctx
// is done.
func (b *Bridge) ChoosePath(ctx context.Context, prompt attach.PathPrompt) (string, error) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send == nil {
		return "", nil
	}

	reply := make(chan string, 1)
	send(PickRequestMsg{Prompt: prompt, Reply: reply})

	select {
	case path := <-reply:
		return path, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package switcher is the controller behind the conversation side panel.
//
// It lists conversations, opens and closes the panel, and delegates
// selection and creation to the conversation store. Rendering and the
// slide animation belong to the UI.
package switcher

import (
	"sync"

	"github.com/jeranaias/finai/internal/store"
)

// Item is one row in the panel.
type Item struct {
	ID     string
	Label  string
	Count  int
	Active bool
}

// Store is the part of the conversation store the panel uses.
type Store interface {
	Snapshot() store.State
	SetActive(id string) error
	AddConversation() string
}

// Panel tracks the open/closed state of the switcher.
type Panel struct {
	store Store

	mu   sync.Mutex
	open bool
}

// New creates a closed panel.
func New(s Store) *Panel {
	return &Panel{store: s}
}

// Items returns one row per conversation in collection order.
func (p *Panel) Items() []Item {
	st := p.store.Snapshot()
	active := st.Active().ID
	items := make([]Item, 0, len(st.Conversations))
	for _, c := range st.Conversations {
		items = append(items, Item{
			ID:     c.ID,
			Label:  c.Label(),
			Count:  c.Count(),
			Active: c.ID == active,
		})
	}
	return items
}

// SelectConversation makes id active and closes the panel.
// On error the panel stays open and the active conversation is unchanged.
func (p *Panel) SelectConversation(id string) error {
	if err := p.store.SetActive(id); err != nil {
		return err
	}
	p.Close()
	return nil
}

// NewChat creates and activates a conversation, then closes the panel.
func (p *Panel) NewChat() string {
	id := p.store.AddConversation()
	p.Close()
	return id
}

// Open shows the panel.
func (p *Panel) Open() {
	p.setOpen(true)
}

// Close hides the panel.
func (p *Panel) Close() {
	p.setOpen(false)
}

// Toggle flips the panel and returns the new state.
func (p *Panel) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = !p.open
	return p.open
}

// IsOpen reports whether the panel is shown.
func (p *Panel) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *Panel) setOpen(open bool) {
	p.mu.Lock()
	p.open = open
	p.mu.Unlock()
}

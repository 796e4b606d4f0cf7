// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"github.com/jeranaias/finai/internal/model"
)

// =============================================================================
// STATE
// =============================================================================

// State is a snapshot of the conversation collection.
// The functions in this file never modify their input.
type State struct {
	Conversations []model.Conversation
	ActiveID      string
}

// NewState returns the startup state: exactly one empty, active conversation.
func NewState() State {
	conv := model.NewConversation()
	return State{
		Conversations: []model.Conversation{conv},
		ActiveID:      conv.ID,
	}
}

// AddConversation appends conv and makes it active.
func AddConversation(s State, conv model.Conversation) State {
	next := make([]model.Conversation, len(s.Conversations), len(s.Conversations)+1)
	copy(next, s.Conversations)
	return State{
		Conversations: append(next, conv),
		ActiveID:      conv.ID,
	}
}

// AppendMessage appends msg to the conversation with the given id.
// An unknown id returns s unchanged.
func AppendMessage(s State, conversationID string, msg model.Message) State {
	idx := s.indexOf(conversationID)
	if idx < 0 {
		return s
	}
	next := make([]model.Conversation, len(s.Conversations))
	copy(next, s.Conversations)
	next[idx] = next[idx].WithMessage(msg)
	return State{Conversations: next, ActiveID: s.ActiveID}
}

// SetActive selects the conversation with the given id.
// An unknown id returns s unchanged.
func SetActive(s State, id string) State {
	if s.indexOf(id) < 0 {
		return s
	}
	s.ActiveID = id
	return s
}

// Active returns the active conversation, falling back to the first one when
// the active id does not resolve. The zero Conversation is returned only for
// an empty State, which the Store never produces.
func (s State) Active() model.Conversation {
	if idx := s.indexOf(s.ActiveID); idx >= 0 {
		return s.Conversations[idx]
	}
	if len(s.Conversations) > 0 {
		return s.Conversations[0]
	}
	return model.Conversation{}
}

// Find returns the conversation with the given id.
func (s State) Find(id string) (model.Conversation, bool) {
	if idx := s.indexOf(id); idx >= 0 {
		return s.Conversations[idx], true
	}
	return model.Conversation{}, false
}

// Has reports whether a conversation with the given id exists.
func (s State) Has(id string) bool {
	return s.indexOf(id) >= 0
}

func (s State) indexOf(id string) int {
	for i := range s.Conversations {
		if s.Conversations[i].ID == id {
			return i
		}
	}
	return -1
}

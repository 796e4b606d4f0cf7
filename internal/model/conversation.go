// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"slices"
	"time"
)

// labelSuffixLen is how many trailing ID characters identify a chat in lists.
const labelSuffixLen = 4

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is one ordered thread of messages.
// Insertion order is chronological order.
type Conversation struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation() Conversation {
	return Conversation{
		ID:        NewID(),
		Messages:  []Message{},
		CreatedAt: time.Now(),
	}
}

// WithMessage returns a copy of the conversation with msg appended.
// The receiver's backing array is never written to, so older copies keep
// seeing the history they were created with.
func (c Conversation) WithMessage(msg Message) Conversation {
	next := make([]Message, len(c.Messages), len(c.Messages)+1)
	copy(next, c.Messages)
	c.Messages = append(next, msg)
	return c
}

// Clone returns a deep copy of the conversation.
func (c Conversation) Clone() Conversation {
	c.Messages = slices.Clone(c.Messages)
	if c.Messages == nil {
		c.Messages = []Message{}
	}
	return c
}

// Label returns the short name used by the conversation switcher.
func (c Conversation) Label() string {
	id := []rune(c.ID)
	if len(id) > labelSuffixLen {
		id = id[len(id)-labelSuffixLen:]
	}
	return "Chat #" + string(id)
}

// Count returns the number of messages.
func (c Conversation) Count() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// LastMessage returns the most recent message.
func (c Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// LastFrom returns the most recent message sent by sender.
func (c Conversation) LastFrom(sender Sender) (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Sender == sender {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

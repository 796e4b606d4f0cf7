// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewTextMessage(t *testing.T) {
	msg := NewTextMessage(SenderUser, "Hello")

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, KindText, msg.Kind)
	assert.Equal(t, "Hello", msg.Content)
	assert.Equal(t, SenderUser, msg.Sender)
	assert.False(t, msg.CreatedAt.IsZero())
}

func TestNewMessage_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewTextMessage(SenderAssistant, "x").ID
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestAttachmentMessages(t *testing.T) {
	img := NewImageMessage("file:///tmp/cat.png", "")
	assert.Equal(t, KindImage, img.Kind)
	assert.Equal(t, SenderUser, img.Sender)
	assert.True(t, img.Kind.IsAttachment())
	assert.Equal(t, "file:///tmp/cat.png", img.Title())

	doc := NewDocumentMessage("/cache/report.pdf", "report.pdf")
	assert.Equal(t, KindDocument, doc.Kind)
	assert.Equal(t, "report.pdf", doc.DisplayName)
	assert.Equal(t, "report.pdf", doc.Title())

	unnamed := NewDocumentMessage("/cache/x.pdf", "")
	assert.Equal(t, "Document", unnamed.Title())
}

func TestSender_DisplayName(t *testing.T) {
	assert.Equal(t, "You", SenderUser.DisplayName())
	assert.Equal(t, "Assistant", SenderAssistant.DisplayName())
	assert.Equal(t, "bot", Sender("bot").DisplayName())
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_WithMessageDoesNotAlias(t *testing.T) {
	base := NewConversation()
	first := base.WithMessage(NewTextMessage(SenderUser, "one"))

	// Two appends onto the same snapshot must not clobber each other.
	a := first.WithMessage(NewTextMessage(SenderUser, "a"))
	b := first.WithMessage(NewTextMessage(SenderUser, "b"))

	require.Len(t, first.Messages, 1)
	require.Len(t, a.Messages, 2)
	require.Len(t, b.Messages, 2)
	assert.Equal(t, "a", a.Messages[1].Content)
	assert.Equal(t, "b", b.Messages[1].Content)
	assert.True(t, base.IsEmpty())
}

func TestConversation_Label(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"1", "Chat #1"},
		{"1718000000000", "Chat #0000"},
		{"abcdef12-3456", "Chat #3456"},
	}
	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			assert.Equal(t, tc.want, Conversation{ID: tc.id}.Label())
		})
	}
}

func TestConversation_LastFrom(t *testing.T) {
	conv := NewConversation().
		WithMessage(NewTextMessage(SenderUser, "q1")).
		WithMessage(NewTextMessage(SenderAssistant, "a1")).
		WithMessage(NewTextMessage(SenderUser, "q2"))

	last, ok := conv.LastFrom(SenderAssistant)
	require.True(t, ok)
	assert.Equal(t, "a1", last.Content)

	_, ok = NewConversation().LastFrom(SenderUser)
	assert.False(t, ok)

	msg, ok := conv.LastMessage()
	require.True(t, ok)
	assert.Equal(t, "q2", msg.Content)
	assert.Equal(t, 3, conv.Count())
}

func TestConversation_Clone(t *testing.T) {
	conv := NewConversation().WithMessage(NewTextMessage(SenderUser, "hi"))
	clone := conv.Clone()
	clone.Messages[0] = NewTextMessage(SenderUser, "changed")
	assert.Equal(t, "hi", conv.Messages[0].Content)

	empty := Conversation{ID: "x"}.Clone()
	assert.NotNil(t, empty.Messages)
}

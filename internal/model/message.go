// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAssistant:
		return "Assistant"
	default:
		return string(s)
	}
}

// =============================================================================
// KIND TYPE
// =============================================================================

// Kind is the payload type of a message.
type Kind string

const (
	KindText     Kind = "text"
	KindImage    Kind = "image"
	KindDocument Kind = "document"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// IsAttachment reports whether the kind references an external resource.
func (k Kind) IsAttachment() bool {
	return k == KindImage || k == KindDocument
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in a conversation.
//
// For KindText the Content is the literal text. For KindImage and
// KindDocument the Content is a reference (URI or local path) to the
// attached resource and DisplayName optionally carries its file name.
type Message struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Content     string    `json:"content"`
	DisplayName string    `json:"display_name,omitempty"`
	Sender      Sender    `json:"sender"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTextMessage creates a text message with a generated ID.
func NewTextMessage(sender Sender, text string) Message {
	return Message{
		ID:        NewID(),
		Kind:      KindText,
		Content:   text,
		Sender:    sender,
		CreatedAt: time.Now(),
	}
}

// NewImageMessage creates a user image attachment. name may be empty.
func NewImageMessage(uri, name string) Message {
	return Message{
		ID:          NewID(),
		Kind:        KindImage,
		Content:     uri,
		DisplayName: name,
		Sender:      SenderUser,
		CreatedAt:   time.Now(),
	}
}

// NewDocumentMessage creates a user document attachment.
func NewDocumentMessage(uri, name string) Message {
	return Message{
		ID:          NewID(),
		Kind:        KindDocument,
		Content:     uri,
		DisplayName: name,
		Sender:      SenderUser,
		CreatedAt:   time.Now(),
	}
}

// Title returns the text shown for the message in a transcript.
// Attachments fall back to a generic name when DisplayName is empty.
func (m Message) Title() string {
	switch m.Kind {
	case KindImage:
		if m.DisplayName != "" {
			return m.DisplayName
		}
		return m.Content
	case KindDocument:
		if m.DisplayName != "" {
			return m.DisplayName
		}
		return "Document"
	default:
		return m.Content
	}
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

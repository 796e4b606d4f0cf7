// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// All types in this package are values. A Message never changes after it is
// created, and a Conversation only grows by appending through the store,
// which hands out copies so that earlier snapshots stay untouched.
//
// # Key Types
//
//   - Message: single text, image or document entry sent by the user or the assistant
//   - Conversation: ordered thread of messages with a stable identifier
//   - Kind: message kind enumeration (text, image, document)
//   - Sender: message author enumeration (user, assistant)
//
// # Usage
//
//	msg := model.NewTextMessage(model.SenderUser, "Hello!")
//	doc := model.NewDocumentMessage("file:///tmp/report.pdf", "report.pdf")
//
//	conv := model.NewConversation()
//	fmt.Println(conv.Label()) // Chat #3f9a
package model

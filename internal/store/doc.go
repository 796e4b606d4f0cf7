// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the in-memory conversation collection for finai.
//
// The collection and the active-conversation selector live in a State value.
// State is changed only by pure functions that return a new State, and the
// Store applies them one at a time against the latest committed State so
// that mutations land in the order their events happened.
//
// # Key Types
//
//   - State: immutable snapshot of every conversation plus the active id
//   - Store: thread-safe holder that commits updates and notifies subscribers
//
// # Usage
//
//	s := store.New()
//	id := s.AddConversation()
//	s.AppendMessage(id, model.NewTextMessage(model.SenderUser, "hi"))
//
//	unsubscribe := s.Subscribe(func(st store.State) {
//	    fmt.Println(len(st.Conversations))
//	})
//	defer unsubscribe()
//
// Nothing is written to disk. All state lives for the process lifetime only.
package store

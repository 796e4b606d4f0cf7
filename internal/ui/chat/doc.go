// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the single chat screen of the finai TUI.

The screen is a Bubble Tea model that renders the active conversation,
takes text input and attachments, and hosts the conversation sidebar. It
never mutates conversations itself: sends go through the dispatcher,
attachments through the intake, switching through the sidebar panel, and
the screen re-renders when the store notifies it.

# Key Components

## Model (model.go)

Holds the widgets (text input, viewport, typing spinner, file picker
overlay) and a snapshot of the store state.

## Update Loop (update.go)

Routes keys to the picker overlay, the sidebar or the input bar, and folds
store and activity notifications into the snapshot. Copying the last reply
and saving the transcript run as commands that report back with a status
message.

## View Rendering (view.go, render.go)

Header, sidebar, transcript with user and assistant bubbles, the typing
loader and the input bar.

## Picker Bridge (bridge.go, picker.go)

Attachment picking runs in a command goroutine. The Bridge turns a path
request from that goroutine into a PickRequestMsg, and the overlay answers
it on the request's reply channel.

## Sidebar (sidebar.go)

Conversation list that slides in from the left on a harmonica spring.

# Usage

	m := chat.New(chat.Deps{...})
	p := tea.NewProgram(m, tea.WithAltScreen())
	unbind := m.Bind(p.Send)
	defer unbind()
	_, err := p.Run()
*/
package chat

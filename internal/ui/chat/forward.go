// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// forwarder delivers posted messages to send from its own goroutine, in
// post order. Post never blocks, so store subscribers and tracker hooks may
// fire from inside Update while send is Program.Send.
type forwarder struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []tea.Msg
	closed bool
	send   func(tea.Msg)
}

func newForwarder(send func(tea.Msg)) *forwarder {
	f := &forwarder{send: send}
	f.cond = sync.NewCond(&f.mu)
	go f.run()
	return f
}

// Post queues msg for delivery. Posts after Close are dropped.
func (f *forwarder) Post(msg tea.Msg) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.queue = append(f.queue, msg)
	f.cond.Signal()
}

// Close stops delivery and drops anything still queued.
func (f *forwarder) Close() {
	f.mu.Lock()
	f.closed = true
	f.queue = nil
	f.cond.Broadcast()
	f.mu.Unlock()
}

func (f *forwarder) run() {
	for {
		f.mu.Lock()
		for len(f.queue) == 0 && !f.closed {
			f.cond.Wait()
		}
		if f.closed {
			f.mu.Unlock()
			return
		}
		batch := f.queue
		f.queue = nil
		f.mu.Unlock()

		for _, msg := range batch {
			f.send(msg)
		}
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package activity tracks whether an operation of some kind is in flight.
//
// A Tracker is a small state machine (Idle -> InFlight -> Idle). Callers
// enter it with Begin and leave it by calling the returned release func,
// usually through defer so every exit path leaves the state:
//
//	done := tracker.Begin()
//	defer done()
//
// Overlapping operations are counted, so the tracker stays InFlight until
// the last one releases.
package activity

import (
	"sync"
)

// =============================================================================
// STATE
// =============================================================================

// State is the tracker's externally visible state.
type State int

const (
	Idle State = iota
	InFlight
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in-flight"
	default:
		return "unknown"
	}
}

// =============================================================================
// TRACKER
// =============================================================================

// Tracker counts in-flight operations and reports Idle/InFlight transitions.
type Tracker struct {
	name string

	mu       sync.Mutex
	inFlight int
	// notifyMu keeps listener calls in transition order.
	notifyMu  sync.Mutex
	listeners map[int]func(State)
	nextID    int
}

// NewTracker creates an idle tracker. name is used in logs only.
func NewTracker(name string) *Tracker {
	return &Tracker{
		name:      name,
		listeners: make(map[int]func(State)),
	}
}

// Name returns the tracker name.
func (t *Tracker) Name() string {
	return t.name
}

// Begin enters the InFlight state and returns the func that leaves it.
// The release func is idempotent.
func (t *Tracker) Begin() (release func()) {
	t.transition(1)

	var once sync.Once
	return func() {
		once.Do(func() { t.transition(-1) })
	}
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return stateFor(t.inFlight)
}

// Busy reports whether any operation is in flight.
func (t *Tracker) Busy() bool {
	return t.State() == InFlight
}

// OnChange registers fn to be called on every Idle/InFlight transition.
// The returned func removes the listener.
func (t *Tracker) OnChange(fn func(State)) (remove func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.listeners, id)
		t.mu.Unlock()
	}
}

func (t *Tracker) transition(delta int) {
	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()

	t.mu.Lock()
	before := stateFor(t.inFlight)
	t.inFlight += delta
	if t.inFlight < 0 {
		t.inFlight = 0
	}
	after := stateFor(t.inFlight)
	var fns []func(State)
	if before != after {
		for id := 0; id < t.nextID; id++ {
			if fn, ok := t.listeners[id]; ok {
				fns = append(fns, fn)
			}
		}
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(after)
	}
}

func stateFor(n int) State {
	if n > 0 {
		return InFlight
	}
	return Idle
}

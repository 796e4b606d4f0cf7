// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package activity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_BeginRelease(t *testing.T) {
	tr := NewTracker("pending")
	assert.Equal(t, Idle, tr.State())
	assert.False(t, tr.Busy())

	done := tr.Begin()
	assert.True(t, tr.Busy())

	done()
	assert.Equal(t, Idle, tr.State())

	// A second release must not drive the counter below zero.
	done()
	assert.Equal(t, Idle, tr.State())
	assert.Equal(t, "pending", tr.Name())
}

func TestTracker_OverlappingOperations(t *testing.T) {
	tr := NewTracker("pending")
	a := tr.Begin()
	b := tr.Begin()

	a()
	assert.True(t, tr.Busy(), "still in flight while b is running")

	b()
	assert.False(t, tr.Busy())
}

func TestTracker_ReleasedOnPanic(t *testing.T) {
	tr := NewTracker("uploading")

	func() {
		defer func() { _ = recover() }()
		done := tr.Begin()
		defer done()
		panic("boom")
	}()

	assert.False(t, tr.Busy())
}

func TestTracker_OnChangeTransitionsOnly(t *testing.T) {
	tr := NewTracker("pending")
	var got []State
	remove := tr.OnChange(func(s State) { got = append(got, s) })

	a := tr.Begin()
	b := tr.Begin()
	a()
	b()

	assert.Equal(t, []State{InFlight, Idle}, got)

	remove()
	tr.Begin()()
	assert.Len(t, got, 2)
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker("pending")
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done := tr.Begin()
			defer done()
		}()
	}
	wg.Wait()
	assert.Equal(t, Idle, tr.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "in-flight", InFlight.String())
	assert.Equal(t, "unknown", State(9).String())
}

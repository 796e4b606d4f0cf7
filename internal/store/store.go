// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/jeranaias/finai/internal/model"
)

// ErrUnknownConversation is returned when an id matches no conversation.
var ErrUnknownConversation = errors.New("unknown conversation")

// =============================================================================
// STORE
// =============================================================================

// Store holds the current State and serializes every mutation.
type Store struct {
	mu    sync.Mutex
	state State

	// notifyMu keeps subscriber calls in commit order without holding mu.
	notifyMu    sync.Mutex
	subscribers map[int]func(State)
	nextSubID   int
}

// New creates a store holding a single empty active conversation.
func New() *Store {
	return NewWithState(NewState())
}

// NewWithState creates a store from an existing state. An empty state is
// replaced by the startup state so that an active conversation always exists.
func NewWithState(s State) *Store {
	if len(s.Conversations) == 0 {
		s = NewState()
	}
	return &Store{
		state:       s,
		subscribers: make(map[int]func(State)),
	}
}

// =============================================================================
// UPDATES
// =============================================================================

// Update applies fn to the latest state and commits the result.
// fn must be pure: it is called with the store locked.
func (s *Store) Update(fn func(State) State) State {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	next := fn(s.state)
	if len(next.Conversations) == 0 {
		next = s.state
	}
	s.state = next
	subs := s.subscriberList()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// AddConversation creates an empty conversation, appends it, makes it
// active and returns its id.
func (s *Store) AddConversation() string {
	conv := model.NewConversation()
	s.Update(func(st State) State {
		return AddConversation(st, conv)
	})
	return conv.ID
}

// SetActive selects the conversation with the given id.
// Unknown ids leave the state unchanged and return ErrUnknownConversation.
func (s *Store) SetActive(id string) error {
	var found bool
	s.Update(func(st State) State {
		found = st.Has(id)
		return SetActive(st, id)
	})
	if !found {
		return errors.Wrapf(ErrUnknownConversation, "set active %q", id)
	}
	return nil
}

// AppendMessage appends msg to the conversation. Unknown ids are a no-op.
func (s *Store) AppendMessage(conversationID string, msg model.Message) {
	s.Update(func(st State) State {
		return AppendMessage(st, conversationID, msg)
	})
}

// =============================================================================
// READS
// =============================================================================

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActiveConversation returns the active conversation, or the first one if
// the active id does not resolve.
func (s *Store) ActiveConversation() model.Conversation {
	return s.Snapshot().Active()
}

// ActiveID returns the id of the active conversation after fallback.
func (s *Store) ActiveID() string {
	return s.ActiveConversation().ID
}

// Conversation returns the conversation with the given id.
func (s *Store) Conversation(id string) (model.Conversation, bool) {
	return s.Snapshot().Find(id)
}

// Conversations returns every conversation in creation order.
func (s *Store) Conversations() []model.Conversation {
	return s.Snapshot().Conversations
}

// Len returns the number of conversations.
func (s *Store) Len() int {
	return len(s.Snapshot().Conversations)
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// Subscribe registers fn to be called with the new state after every
// committed update. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// subscriberList returns subscribers in registration order. Caller holds mu.
func (s *Store) subscriberList() []func(State) {
	if len(s.subscribers) == 0 {
		return nil
	}
	subs := make([]func(State), 0, len(s.subscribers))
	for id := 0; id < s.nextSubID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}

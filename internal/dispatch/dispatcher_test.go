// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/finai/internal/gemini"
	"github.com/jeranaias/finai/internal/model"
	"github.com/jeranaias/finai/internal/store"
)

// fakeGenerator records prompts and returns a canned reply.
type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
	// onCall runs inside Generate, before it returns.
	onCall func()
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.onCall != nil {
		f.onCall()
	}
	return f.reply, f.err
}

func (f *fakeGenerator) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

func newDispatcher(gen Generator) (*Dispatcher, *store.Store) {
	s := store.New()
	return New(s, gen, zerolog.Nop()), s
}

// =============================================================================
// EMPTY INPUT
// =============================================================================

func TestSendText_BlankInputIsNoop(t *testing.T) {
	gen := &fakeGenerator{reply: "unused"}
	d, s := newDispatcher(gen)
	before := s.Snapshot()

	for _, text := range []string{"", " ", "\t\n", "   \r\n  "} {
		assert.False(t, d.SendText(context.Background(), s.ActiveID(), text))
	}

	assert.Equal(t, before, s.Snapshot())
	assert.Empty(t, gen.calls())
	assert.False(t, d.Pending())
}

// =============================================================================
// SUCCESSFUL SEND
// =============================================================================

func TestSendText_AppendsUserThenAssistant(t *testing.T) {
	gen := &fakeGenerator{reply: "Hello"}
	d, s := newDispatcher(gen)
	id := s.ActiveID()

	require.True(t, d.SendText(context.Background(), id, "Hi"))

	conv, _ := s.Conversation(id)
	require.Len(t, conv.Messages, 2)

	user, reply := conv.Messages[0], conv.Messages[1]
	assert.Equal(t, model.SenderUser, user.Sender)
	assert.Equal(t, model.KindText, user.Kind)
	assert.Equal(t, "Hi", user.Content)
	assert.Equal(t, model.SenderAssistant, reply.Sender)
	assert.Equal(t, model.KindText, reply.Kind)
	assert.Equal(t, "Hello", reply.Content)
	assert.NotEqual(t, user.ID, reply.ID)

	assert.Equal(t, []string{"Hi"}, gen.calls())
	assert.False(t, d.Pending())
}

func TestSendText_RawTextStoredAndSent(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	d, s := newDispatcher(gen)
	id := s.ActiveID()

	d.SendText(context.Background(), id, "  padded  ")

	conv, _ := s.Conversation(id)
	assert.Equal(t, "  padded  ", conv.Messages[0].Content)
	assert.Equal(t, []string{"  padded  "}, gen.calls())
}

func TestSendText_StatelessCalls(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	d, s := newDispatcher(gen)
	id := s.ActiveID()

	d.SendText(context.Background(), id, "first")
	d.SendText(context.Background(), id, "second")

	// Only the new input is sent, never the history.
	assert.Equal(t, []string{"first", "second"}, gen.calls())
	conv, _ := s.Conversation(id)
	assert.Equal(t, 4, conv.Count())
}

// =============================================================================
// FAILURE MAPPING
// =============================================================================

func TestSendText_FailureReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  string
	}{
		{"no candidates", "", gemini.ErrNoCandidates, NoResponseReply},
		{"wrapped no candidates", "", errors.Wrap(gemini.ErrNoCandidates, "ctx"), NoResponseReply},
		{"empty reply without error", "", nil, NoResponseReply},
		{"transport error", "", errors.New("connection refused"), ErrorReply},
		{"not configured", "", gemini.ErrNotConfigured, NoResponseReply},
		{"wrapped not configured", "", errors.Wrap(gemini.ErrNotConfigured, "ctx"), NoResponseReply},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, s := newDispatcher(&fakeGenerator{reply: tc.reply, err: tc.err})
			id := s.ActiveID()

			require.True(t, d.SendText(context.Background(), id, "Hi"))

			conv, _ := s.Conversation(id)
			require.Len(t, conv.Messages, 2)
			assert.Equal(t, "Hi", conv.Messages[0].Content)
			assert.Equal(t, model.SenderAssistant, conv.Messages[1].Sender)
			assert.Equal(t, tc.want, conv.Messages[1].Content)
			assert.False(t, d.Pending())
		})
	}
}

// =============================================================================
// PENDING STATE
// =============================================================================

func TestSendText_PendingDuringCall(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	d, s := newDispatcher(gen)

	var during bool
	var userVisible bool
	gen.onCall = func() {
		during = d.Pending()
		userVisible = s.ActiveConversation().Count() == 1
	}

	d.SendText(context.Background(), s.ActiveID(), "Hi")

	assert.True(t, during)
	assert.True(t, userVisible, "user message is appended before the call")
	assert.False(t, d.Pending())
}

func TestSendText_PendingClearedAfterPanic(t *testing.T) {
	gen := &fakeGenerator{onCall: func() { panic("generator blew up") }}
	d, s := newDispatcher(gen)

	assert.Panics(t, func() {
		d.SendText(context.Background(), s.ActiveID(), "Hi")
	})
	assert.False(t, d.Pending())
}

// =============================================================================
// CONVERSATION SWITCHES
// =============================================================================

func TestSendText_ReplyLandsInOriginConversation(t *testing.T) {
	gen := &fakeGenerator{reply: "late"}
	d, s := newDispatcher(gen)
	origin := s.ActiveID()

	var switched string
	gen.onCall = func() { switched = s.AddConversation() }

	d.SendText(context.Background(), origin, "Hi")

	conv, _ := s.Conversation(origin)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "late", conv.Messages[1].Content)

	assert.Equal(t, switched, s.ActiveID())
	assert.True(t, s.ActiveConversation().IsEmpty())
}

// =============================================================================
// END TO END
// =============================================================================

func TestSendText_WithGeminiClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hello"}]}}]}`))
	}))
	defer srv.Close()

	client := gemini.NewClient("k", srv.URL, zerolog.Nop())
	d, s := newDispatcher(client)
	d.WithTimeout(5 * time.Second)

	d.SendText(context.Background(), s.ActiveID(), "Hi")

	last, ok := s.ActiveConversation().LastFrom(model.SenderAssistant)
	require.True(t, ok)
	assert.Equal(t, "Hello", last.Content)
}

func TestSendText_WithGeminiClientWithoutKey(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	d, s := newDispatcher(gemini.NewClient("", srv.URL, zerolog.Nop()))
	require.True(t, d.SendText(context.Background(), s.ActiveID(), "Hi"))

	last, ok := s.ActiveConversation().LastFrom(model.SenderAssistant)
	require.True(t, ok)
	assert.Equal(t, NoResponseReply, last.Content)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestSendText_WithGeminiClientServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	d, s := newDispatcher(gemini.NewClient("k", url, zerolog.Nop()))
	d.SendText(context.Background(), s.ActiveID(), "Hi")

	last, _ := s.ActiveConversation().LastMessage()
	assert.Equal(t, ErrorReply, last.Content)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch turns a user's text into a user message, one generation
// call and an assistant reply in the same conversation.
package dispatch

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jeranaias/finai/internal/activity"
	"github.com/jeranaias/finai/internal/gemini"
	"github.com/jeranaias/finai/internal/model"
)

// Replies used when generation does not produce text.
const (
	NoResponseReply = "Sorry, no response."
	ErrorReply      = "Error contacting Gemini."
)

// Generator produces a reply for a single prompt.
// *gemini.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Appender is the part of the conversation store the dispatcher writes to.
type Appender interface {
	AppendMessage(conversationID string, msg model.Message)
}

// Dispatcher sends user text and folds the reply into the store.
type Dispatcher struct {
	store   Appender
	gen     Generator
	pending *activity.Tracker
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a dispatcher.
func New(store Appender, gen Generator, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store:   store,
		gen:     gen,
		pending: activity.NewTracker("pending"),
		log:     log.With().Str("component", "dispatch").Logger(),
	}
}

// WithTimeout bounds each generation call. Zero means no bound.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	d.timeout = timeout
	return d
}

// Pending reports whether a send is waiting on the generator.
func (d *Dispatcher) Pending() bool {
	return d.pending.Busy()
}

// Activity returns the tracker behind Pending.
func (d *Dispatcher) Activity() *activity.Tracker {
	return d.pending
}

// SendText appends text as a user message to the conversation, asks the
// generator for a reply and appends that reply as an assistant message.
//
// Whitespace-only text is rejected and SendText returns false without
// touching the store. Otherwise it returns true once the assistant message
// has been appended. Generation failures are never returned: they become a
// fixed assistant reply.
func (d *Dispatcher) SendText(ctx context.Context, conversationID, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	d.store.AppendMessage(conversationID, model.NewTextMessage(model.SenderUser, text))

	done := d.pending.Begin()
	defer done()

	reply := d.generate(ctx, conversationID, text)
	d.store.AppendMessage(conversationID, model.NewTextMessage(model.SenderAssistant, reply))
	return true
}

// generate runs one generation call and maps its outcome to reply text.
func (d *Dispatcher) generate(ctx context.Context, conversationID, text string) string {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	reply, err := d.gen.Generate(ctx, text)
	switch {
	case err == nil && reply != "":
		return reply
	case err == nil || errors.Is(err, gemini.ErrNoCandidates):
		d.log.Info().Str("conversation", conversationID).Msg("empty reply")
		return NoResponseReply
	case errors.Is(err, gemini.ErrNotConfigured):
		// Keyless requests are rejected upstream with a body that has no
		// candidates, so the reply is the same as for an empty answer.
		d.log.Warn().Str("conversation", conversationID).Msg("no Gemini API key configured")
		return NoResponseReply
	default:
		d.log.Warn().Err(err).Str("conversation", conversationID).Msg("generation failed")
		return ErrorReply
	}
}

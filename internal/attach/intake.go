// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attach adds image and document attachments to a conversation.
//
// An attachment is picked in two stages: the image picker is shown first,
// and only when it yields nothing is the document picker shown. Whatever is
// picked is appended as a user message referencing the file; the file's
// bytes are never read into the conversation.
package attach

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jeranaias/finai/internal/activity"
	"github.com/jeranaias/finai/internal/model"
)

// Appender is the part of the conversation store intake writes to.
type Appender interface {
	AppendMessage(conversationID string, msg model.Message)
}

// Intake runs the picker sequence and records the result.
type Intake struct {
	store     Appender
	images    ImagePicker
	docs      DocumentPicker
	imageReq  ImageRequest
	docReq    DocumentRequest
	uploading *activity.Tracker
	log       zerolog.Logger
}

// NewIntake creates an intake using the default picker requests.
func NewIntake(store Appender, images ImagePicker, docs DocumentPicker, log zerolog.Logger) *Intake {
	return &Intake{
		store:     store,
		images:    images,
		docs:      docs,
		imageReq:  DefaultImageRequest(),
		docReq:    DefaultDocumentRequest(),
		uploading: activity.NewTracker("uploading"),
		log:       log.With().Str("component", "attach").Logger(),
	}
}

// Uploading reports whether a pick is in progress.
func (in *Intake) Uploading() bool {
	return in.uploading.Busy()
}

// Activity returns the tracker behind Uploading.
func (in *Intake) Activity() *activity.Tracker {
	return in.uploading
}

// PickAttachment shows the image picker and, if that yields nothing, the
// document picker. The first usable pick is appended to the conversation
// and returned. When both are cancelled nothing is appended and ok is false.
func (in *Intake) PickAttachment(ctx context.Context, conversationID string) (msg model.Message, ok bool) {
	done := in.uploading.Begin()
	defer done()

	if asset, ok := in.pickImage(ctx); ok {
		msg = model.NewImageMessage(asset.URI, asset.Name)
		in.store.AppendMessage(conversationID, msg)
		return msg, true
	}

	if asset, ok := in.pickDocument(ctx); ok {
		msg = model.NewDocumentMessage(asset.URI, asset.Name)
		in.store.AppendMessage(conversationID, msg)
		return msg, true
	}

	in.log.Debug().Str("conversation", conversationID).Msg("attachment cancelled")
	return model.Message{}, false
}

func (in *Intake) pickImage(ctx context.Context) (Asset, bool) {
	if in.images == nil {
		return Asset{}, false
	}
	sel, err := in.images.PickImage(ctx, in.imageReq)
	if err != nil {
		in.log.Warn().Err(err).Msg("image picker failed")
		return Asset{}, false
	}
	asset, ok := sel.First()
	if !ok {
		return Asset{}, false
	}
	if asset.MIMEType != "" && !MediaAccepts(in.imageReq.MediaTypes, asset.MIMEType) {
		in.log.Warn().Str("mime", asset.MIMEType).Msg("image picker returned unsupported media")
		return Asset{}, false
	}
	return asset, true
}

func (in *Intake) pickDocument(ctx context.Context) (Asset, bool) {
	if in.docs == nil {
		return Asset{}, false
	}
	sel, err := in.docs.PickDocument(ctx, in.docReq)
	if err != nil {
		in.log.Warn().Err(err).Msg("document picker failed")
		return Asset{}, false
	}
	asset, ok := sel.First()
	if !ok {
		return Asset{}, false
	}
	if asset.MIMEType != "" && !TypeAccepted(in.docReq.Types, asset.MIMEType) {
		in.log.Warn().Str("mime", asset.MIMEType).Msg("document picker returned unsupported type")
		return Asset{}, false
	}
	return asset, true
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"context"
)

// =============================================================================
// PICKER REQUESTS
// =============================================================================

// MediaType filters what the image picker offers.
type MediaType string

const (
	MediaAll    MediaType = "all"
	MediaImages MediaType = "images"
	MediaVideos MediaType = "videos"
)

// PDFType is the only document type finai asks for.
const PDFType = "application/pdf"

// ImageRequest configures one image picker invocation.
type ImageRequest struct {
	MediaTypes    MediaType
	AllowsEditing bool
	// Quality is the compression quality in [0,1]; 1 keeps the original.
	Quality float64
}

// DefaultImageRequest offers all media, uncropped, at full quality.
func DefaultImageRequest() ImageRequest {
	return ImageRequest{MediaTypes: MediaAll, AllowsEditing: false, Quality: 1}
}

// DocumentRequest configures one document picker invocation.
type DocumentRequest struct {
	Types                []string
	CopyToCacheDirectory bool
}

// DefaultDocumentRequest offers PDFs and copies the pick into the cache.
func DefaultDocumentRequest() DocumentRequest {
	return DocumentRequest{Types: []string{PDFType}, CopyToCacheDirectory: true}
}

// =============================================================================
// SELECTIONS
// =============================================================================

// Asset is one picked file.
type Asset struct {
	URI      string
	Name     string
	MIMEType string
}

// Selection is the result of a picker invocation.
type Selection struct {
	Cancelled bool
	Assets    []Asset
}

// Cancelled is the selection returned when the user backs out.
func Cancelled() Selection {
	return Selection{Cancelled: true}
}

// Picked wraps assets in a non-cancelled selection.
func Picked(assets ...Asset) Selection {
	return Selection{Assets: assets}
}

// First returns the first asset of a usable selection.
func (s Selection) First() (Asset, bool) {
	if s.Cancelled || len(s.Assets) == 0 {
		return Asset{}, false
	}
	return s.Assets[0], true
}

// =============================================================================
// PICKERS
// =============================================================================

// ImagePicker lets the user choose an image or other media.
type ImagePicker interface {
	PickImage(ctx context.Context, req ImageRequest) (Selection, error)
}

// DocumentPicker lets the user choose a document.
type DocumentPicker interface {
	PickDocument(ctx context.Context, req DocumentRequest) (Selection, error)
}

// ImagePickerFunc adapts a func to ImagePicker.
type ImagePickerFunc func(ctx context.Context, req ImageRequest) (Selection, error)

// PickImage calls f.
func (f ImagePickerFunc) PickImage(ctx context.Context, req ImageRequest) (Selection, error) {
	return f(ctx, req)
}

// DocumentPickerFunc adapts a func to DocumentPicker.
type DocumentPickerFunc func(ctx context.Context, req DocumentRequest) (Selection, error)

// PickDocument calls f.
func (f DocumentPickerFunc) PickDocument(ctx context.Context, req DocumentRequest) (Selection, error) {
	return f(ctx, req)
}

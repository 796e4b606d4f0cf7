// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func fixedPath(path string) PathSource {
	return PathSourceFunc(func(context.Context, PathPrompt) (string, error) {
		return path, nil
	})
}

// =============================================================================
// SNIFFING
// =============================================================================

func TestSniff(t *testing.T) {
	dir := t.TempDir()

	mime, err := Sniff(writeFile(t, dir, "report.bin", pdfBytes))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mime)

	mime, err = Sniff(writeFile(t, dir, "cat.pdf", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime, "content wins over extension")

	_, err = Sniff(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestTypeAccepted(t *testing.T) {
	assert.True(t, TypeAccepted([]string{PDFType}, "application/pdf"))
	assert.False(t, TypeAccepted([]string{PDFType}, "text/plain; charset=utf-8"))
	assert.True(t, TypeAccepted([]string{"image/*"}, "image/jpeg"))
	assert.False(t, TypeAccepted([]string{"image/*"}, "video/mp4"))
	assert.True(t, TypeAccepted(nil, "anything/at-all"))

	assert.True(t, MediaAccepts(MediaAll, "video/mp4"))
	assert.True(t, MediaAccepts(MediaAll, "image/gif"))
	assert.False(t, MediaAccepts(MediaAll, "application/pdf"))
	assert.False(t, MediaAccepts(MediaImages, "video/mp4"))
}

// =============================================================================
// FILE PICKER
// =============================================================================

func TestFilePicker_Image(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cat.png", pngBytes)
	p := NewFilePicker(fixedPath(path), filepath.Join(dir, "cache"))

	sel, err := p.PickImage(context.Background(), DefaultImageRequest())
	require.NoError(t, err)

	asset, ok := sel.First()
	require.True(t, ok)
	assert.Equal(t, "cat.png", asset.Name)
	assert.Equal(t, "image/png", asset.MIMEType)
	assert.True(t, strings.HasPrefix(asset.URI, "file://"))
	assert.Equal(t, path, LocalPath(asset.URI))
}

func TestFilePicker_ImageRejectsDocument(t *testing.T) {
	dir := t.TempDir()
	p := NewFilePicker(fixedPath(writeFile(t, dir, "a.pdf", pdfBytes)), dir)

	sel, err := p.PickImage(context.Background(), DefaultImageRequest())
	assert.True(t, errors.Is(err, ErrUnsupportedType))
	assert.True(t, sel.Cancelled)
}

func TestFilePicker_DocumentCopiedToCache(t *testing.T) {
	dir := t.TempDir()
	cache := filepath.Join(dir, "cache")
	src := writeFile(t, dir, "report.pdf", pdfBytes)
	p := NewFilePicker(fixedPath(src), cache)

	sel, err := p.PickDocument(context.Background(), DefaultDocumentRequest())
	require.NoError(t, err)

	asset, ok := sel.First()
	require.True(t, ok)
	assert.Equal(t, "report.pdf", asset.Name)
	assert.Equal(t, PDFType, asset.MIMEType)

	cached := LocalPath(asset.URI)
	assert.Equal(t, cache, filepath.Dir(cached))
	assert.NotEqual(t, src, cached)
	got, err := os.ReadFile(cached)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, got)
}

func TestFilePicker_DocumentWithoutCache(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "report.pdf", pdfBytes)
	p := NewFilePicker(fixedPath(src), filepath.Join(dir, "cache"))

	sel, err := p.PickDocument(context.Background(), DocumentRequest{Types: []string{PDFType}})
	require.NoError(t, err)
	asset, _ := sel.First()
	assert.Equal(t, src, LocalPath(asset.URI))

	_, err = os.Stat(filepath.Join(dir, "cache"))
	assert.True(t, os.IsNotExist(err))
}

func TestFilePicker_DocumentRejectsNonPDF(t *testing.T) {
	dir := t.TempDir()
	p := NewFilePicker(fixedPath(writeFile(t, dir, "notes.pdf", []byte("just text"))), dir)

	sel, err := p.PickDocument(context.Background(), DefaultDocumentRequest())
	assert.True(t, errors.Is(err, ErrUnsupportedType))
	assert.True(t, sel.Cancelled)
}

func TestFilePicker_EmptyPathIsCancel(t *testing.T) {
	p := NewFilePicker(fixedPath("   "), t.TempDir())

	sel, err := p.PickDocument(context.Background(), DefaultDocumentRequest())
	require.NoError(t, err)
	assert.True(t, sel.Cancelled)
}

func TestFilePicker_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFilePicker(fixedPath(filepath.Join(dir, "missing.pdf")), dir).
		PickDocument(context.Background(), DefaultDocumentRequest())
	assert.Error(t, err)

	_, err = NewFilePicker(fixedPath(dir), dir).
		PickImage(context.Background(), DefaultImageRequest())
	assert.Error(t, err)

	failing := PathSourceFunc(func(context.Context, PathPrompt) (string, error) {
		return "", errors.New("terminal closed")
	})
	_, err = NewFilePicker(failing, dir).PickImage(context.Background(), DefaultImageRequest())
	assert.Error(t, err)
}

// =============================================================================
// CACHE
// =============================================================================

func TestMaterialize_UniqueCopies(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.pdf", pdfBytes)
	cache := filepath.Join(dir, "c")

	first, err := Materialize(src, cache)
	require.NoError(t, err)
	second, err := Materialize(src, cache)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(first, "-a.pdf"))

	_, err = Materialize(dir, cache)
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/docs/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "docs", "a.pdf"), got)

	got, err = ExpandPath("rel.pdf")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestLocalPath_NonFileURI(t *testing.T) {
	assert.Equal(t, "https://x/y.png", LocalPath("https://x/y.png"))
	assert.Equal(t, "/plain/path", LocalPath("/plain/path"))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// PathPrompt describes what a PathSource is being asked for.
type PathPrompt struct {
	Title string
	// Types lists acceptable MIME types; "image/*" style wildcards allowed.
	Types []string
}

// PathSource asks the user for a local file path.
// An empty path means the user cancelled.
type PathSource interface {
	ChoosePath(ctx context.Context, prompt PathPrompt) (string, error)
}

// PathSourceFunc adapts a func to PathSource.
type PathSourceFunc func(ctx context.Context, prompt PathPrompt) (string, error)

// ChoosePath calls f.
func (f PathSourceFunc) ChoosePath(ctx context.Context, prompt PathPrompt) (string, error) {
	return f(ctx, prompt)
}

// FilePicker implements ImagePicker and DocumentPicker on top of a path
// prompt, sniffing each pick and caching documents when asked to.
type FilePicker struct {
	src      PathSource
	cacheDir string
}

// NewFilePicker creates a picker. An empty cacheDir uses DefaultCacheDir.
func NewFilePicker(src PathSource, cacheDir string) *FilePicker {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}
	return &FilePicker{src: src, cacheDir: cacheDir}
}

// PickImage asks for a media file.
func (p *FilePicker) PickImage(ctx context.Context, req ImageRequest) (Selection, error) {
	path, err := p.choose(ctx, PathPrompt{Title: "Attach image", Types: mediaTypes(req.MediaTypes)})
	if err != nil || path == "" {
		return Cancelled(), err
	}

	mime, err := Sniff(path)
	if err != nil {
		return Cancelled(), err
	}
	if !MediaAccepts(req.MediaTypes, mime) {
		return Cancelled(), errors.Wrapf(ErrUnsupportedType, "%s is %s", filepath.Base(path), mime)
	}
	return Picked(Asset{URI: FileURI(path), Name: filepath.Base(path), MIMEType: mime}), nil
}

// PickDocument asks for a document and copies it into the cache when
// req.CopyToCacheDirectory is set.
func (p *FilePicker) PickDocument(ctx context.Context, req DocumentRequest) (Selection, error) {
	path, err := p.choose(ctx, PathPrompt{Title: "Attach document", Types: req.Types})
	if err != nil || path == "" {
		return Cancelled(), err
	}

	mime, err := Sniff(path)
	if err != nil {
		return Cancelled(), err
	}
	if !TypeAccepted(req.Types, mime) {
		return Cancelled(), errors.Wrapf(ErrUnsupportedType, "%s is %s", filepath.Base(path), mime)
	}

	name := filepath.Base(path)
	if req.CopyToCacheDirectory {
		cached, err := Materialize(path, p.cacheDir)
		if err != nil {
			return Cancelled(), err
		}
		path = cached
	}
	return Picked(Asset{URI: FileURI(path), Name: name, MIMEType: mime}), nil
}

// choose prompts for a path and resolves it to an absolute, existing file.
func (p *FilePicker) choose(ctx context.Context, prompt PathPrompt) (string, error) {
	raw, err := p.src.ChoosePath(ctx, prompt)
	if err != nil {
		return "", errors.Wrap(err, "choose path")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	path, err := ExpandPath(raw)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrap(err, "picked file")
	}
	if info.IsDir() {
		return "", errors.Errorf("%s is a directory", path)
	}
	return path, nil
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home directory")
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", path)
	}
	return abs, nil
}

// FileURI returns the file:// URI for an absolute path.
func FileURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// LocalPath returns the filesystem path behind a file:// URI, or the input
// unchanged if it is not one.
func LocalPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	return filepath.FromSlash(u.Path)
}

func mediaTypes(media MediaType) []string {
	switch media {
	case MediaImages:
		return []string{"image/*"}
	case MediaVideos:
		return []string{"video/*"}
	default:
		return []string{"image/*", "video/*"}
	}
}

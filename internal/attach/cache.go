// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultCacheDir returns <user cache dir>/finai/documents.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "finai", "documents")
}

// Materialize copies src into cacheDir and returns the copy's path.
// Each copy gets a unique prefix so picking the same file twice yields
// two independent cache entries.
func Materialize(src, cacheDir string) (string, error) {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}
	if err := os.MkdirAll(cacheDir, 0o700); err != nil {
		return "", errors.Wrap(err, "create cache directory")
	}

	in, err := os.Open(src)
	if err != nil {
		return "", errors.Wrap(err, "open picked file")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", errors.Wrap(err, "stat picked file")
	}
	if info.IsDir() {
		return "", errors.Errorf("%s is a directory", src)
	}

	name := uuid.NewString()[:8] + "-" + filepath.Base(src)
	dst := filepath.Join(cacheDir, name)

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", errors.Wrap(err, "create cache file")
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return "", errors.Wrap(err, "copy into cache")
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", errors.Wrap(err, "close cache file")
	}
	return dst, nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// ErrUnsupportedType is returned when a picked file's content does not
// match what the picker asked for.
var ErrUnsupportedType = errors.New("unsupported file type")

// Sniff detects a file's MIME type from its content, not its extension.
func Sniff(path string) (string, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "detect type of %s", path)
	}
	return m.String(), nil
}

// TypeAccepted reports whether mime matches one of types.
// A type of the form "image/*" matches every subtype.
func TypeAccepted(types []string, mime string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if prefix, ok := strings.CutSuffix(t, "/*"); ok {
			if strings.HasPrefix(strings.ToLower(mime), strings.ToLower(prefix)+"/") {
				return true
			}
			continue
		}
		if mimetype.EqualsAny(mime, t) {
			return true
		}
	}
	return false
}

// MediaAccepts reports whether mime is allowed by the image picker filter.
func MediaAccepts(media MediaType, mime string) bool {
	return TypeAccepted(mediaTypes(media), mime)
}

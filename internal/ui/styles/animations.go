// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"time"
)

// =============================================================================
// TYPING LOADER
// =============================================================================

// SpinnerConfig holds the configuration for a frame animation.
type SpinnerConfig struct {
	Frames   []string
	Interval time.Duration
}

// TypingDots is shown while a reply is pending: one to three dots,
// advancing every 400ms.
var TypingDots = SpinnerConfig{
	Frames:   []string{".", "..", "..."},
	Interval: 400 * time.Millisecond,
}

// =============================================================================
// SIDEBAR SLIDE
// =============================================================================

// Sidebar slide parameters for the harmonica spring.
const (
	SidebarWidth     = 28
	SidebarFPS       = 60
	SidebarFrequency = 8.0
	SidebarDamping   = 1.0
)

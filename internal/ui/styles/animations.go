// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// Spinner converts the config for bubbles/spinner.
func (s SpinnerConfig) Spinner() spinner.Spinner {
	return spinner.Spinner{Frames: s.Frames, FPS: s.Duration()}
}

// TypingDots is shown while the assistant composes a reply.
var TypingDots = SpinnerConfig{
	Frames: []string{"●∙∙", "∙●∙", "∙∙●", "∙∙∙"},
	FPS:    6,
}

// RecordingPulse blinks next to the voice indicator.
var RecordingPulse = SpinnerConfig{
	Frames: []string{"●", "○"},
	FPS:    2,
}

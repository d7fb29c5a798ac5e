// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/docildos/internal/cards"
	"github.com/jeranaias/docildos/internal/model"
)

// StatsLoadedMsg carries a refreshed dashboard snapshot.
type StatsLoadedMsg struct {
	Stats model.Stats
	Err   error
}

// OrderAdvancedMsg reports the outcome of a status change sent to the
// backend. Err is nil in local mode, where nothing is sent.
type OrderAdvancedMsg struct {
	Change cards.StatusChange
	Err    error

	card cardKey
}

// VoiceStartedMsg is returned once the capture hook ran.
type VoiceStartedMsg struct {
	Err error
}

// VoiceStoppedMsg carries the text captured between start and stop. The
// text is placed in the input for the user to review.
type VoiceStoppedMsg struct {
	Text string
	Err  error
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation holds the chat transcript and the state machine that
// moves it between idle and composing.
//
// Submit returns a tea.Cmd; the Bubble Tea runtime runs it off the event
// loop and feeds the resulting DispatchedMsg back, which the owner passes to
// Complete. Front ends without an event loop use SubmitAndWait.
package conversation

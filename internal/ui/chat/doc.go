// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view of the dashboard.
//
// The view is a Bubble Tea model layered over a conversation.Store. It owns
// the widgets (text input, transcript viewport, typing spinner), the toast
// stack and the order-card selection; the transcript and the
// composing/recording flags belong to the store.
//
// # Keys
//
//   - enter: submit the input
//   - alt+1 .. alt+6: quick actions
//   - ctrl+r: toggle voice capture
//   - ctrl+n / ctrl+p: select an order card
//   - ctrl+a: advance the selected order
//   - ctrl+l: start over
//   - esc: dismiss toasts
//
// # Usage
//
//	store := conversation.New(dispatcher)
//	m := chat.New(theme, store, chat.WithCatalog(catalog))
//	p := tea.NewProgram(m)
package chat

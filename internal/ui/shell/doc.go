// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package shell is the top-level Bubble Tea model: a sidebar with the five
// dashboard views and a header, wrapping one long-lived chat model.
//
// Only the chat view is interactive. The other views render a placeholder
// pointing the user back to the chat. The chat model is created once and
// receives every non-key message whatever view is visible, so a reply that
// arrives while the user looks at another view still lands.
package shell

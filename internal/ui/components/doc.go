// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the rendering functions for the docildos TUI:
// message bubbles, order/recipe/stats cards, toasts and the shell chrome.
//
// Components are stateless render functions over a *styles.Theme, except
// ToastManager which tracks visible notifications.
package components

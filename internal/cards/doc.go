// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cards resolves card attachments into render descriptors.
//
// A model.Card carries a type tag and a raw JSON payload. Registry.Resolve
// decodes the payload for the tag, validates it with struct tags and returns
// an OrderView, RecipeView or StatsView. Unknown tags and malformed payloads
// are rejected; nothing is rendered from a payload that failed validation.
package cards

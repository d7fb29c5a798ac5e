// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch decides what the assistant answers.
//
// Every implementation of Dispatcher returns the same Reply shape (text plus
// optional cards), so the conversation store does not know whether a reply
// came from local rules or from the backend:
//
//   - IntentDispatcher classifies the text (KeywordClassifier by default) and
//     answers from a Catalog: SampleCatalog for local mode, APICatalog for a
//     backend reached through package api.
//   - RemoteDispatcher forwards the text to POST /api/chat.
//   - Paced enforces a minimum reply latency around any of them.
//
// QuickActions maps shortcut ids to canned messages that go through the
// same path as typed text.
package dispatch

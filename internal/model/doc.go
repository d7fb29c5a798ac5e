// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages and
// the card payloads attached to assistant turns.
//
// # Key Types
//
//   - Message: one turn with role, content, timestamp and optional cards
//   - Card: a tagged attachment whose JSON payload is decoded by package cards
//   - Order, Recipe, Stats: the typed payloads behind the three card tags
//   - OrderStatus: the linear novo -> producao -> pronto -> entregue progression
//   - Conversation: the append-only transcript, starting from Greeting
//
// # Usage
//
//	conv := model.NewConversation()
//	card, _ := model.NewOrderCard(order)
//	_ = conv.Append(model.NewAssistantMessage("Aqui está", card))
package model

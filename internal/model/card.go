// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CardType tags the payload carried by a Card.
type CardType string

const (
	CardOrder  CardType = "order"
	CardRecipe CardType = "recipe"
	CardStats  CardType = "stats"
)

// String returns the tag.
func (t CardType) String() string {
	return string(t)
}

// Card is a structured attachment on an assistant message. The payload is
// kept as raw JSON; only the card registry decodes it.
type Card struct {
	Type CardType        `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NewCard marshals payload into a card of the given type.
func NewCard(t CardType, payload any) (Card, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Card{}, fmt.Errorf("encode %s card: %w", t, err)
	}
	return Card{Type: t, Data: data}, nil
}

// NewOrderCard wraps an order.
func NewOrderCard(o Order) (Card, error) {
	return NewCard(CardOrder, o)
}

// NewRecipeCard wraps a recipe.
func NewRecipeCard(r Recipe) (Card, error) {
	return NewCard(CardRecipe, r)
}

// NewStatsCard wraps a stats snapshot.
func NewStatsCard(s Stats) (Card, error) {
	return NewCard(CardStats, s)
}

// Clone copies the payload bytes.
func (c Card) Clone() Card {
	return Card{Type: c.Type, Data: bytes.Clone(c.Data)}
}

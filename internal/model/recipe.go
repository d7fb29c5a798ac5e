// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Ingredient is one line of a recipe's technical sheet.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// Recipe is the payload of a recipe card.
type Recipe struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description,omitempty"`
	PrepTime      int          `json:"prepTime"` // minutes
	Yield         string       `json:"yield"`
	EstimatedCost float64      `json:"estimatedCost"`
	Ingredients   []Ingredient `json:"ingredients"`
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"encoding/json"

	"github.com/jeranaias/docildos/internal/model"
)

type ingredientPayload struct {
	Name     string `json:"name" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
	Unit     string `json:"unit"`
}

type recipePayload struct {
	ID            string              `json:"id" validate:"required"`
	Name          string              `json:"name" validate:"required"`
	Description   string              `json:"description"`
	PrepTime      *int                `json:"prepTime" validate:"required,gte=0"`
	Yield         string              `json:"yield"`
	EstimatedCost *float64            `json:"estimatedCost" validate:"required,gte=0"`
	Ingredients   []ingredientPayload `json:"ingredients" validate:"dive"`
}

// RecipeView is the resolved form of a recipe card.
type RecipeView struct {
	Recipe model.Recipe
}

func (RecipeView) CardType() model.CardType { return model.CardRecipe }
func (RecipeView) descriptor()              {}

// IngredientRows pairs ingredients two per row. The last row may hold one.
func (v RecipeView) IngredientRows() [][]model.Ingredient {
	ings := v.Recipe.Ingredients
	rows := make([][]model.Ingredient, 0, (len(ings)+1)/2)
	for i := 0; i < len(ings); i += 2 {
		end := min(i+2, len(ings))
		rows = append(rows, ings[i:end:end])
	}
	return rows
}

func resolveRecipe(r *Registry, data json.RawMessage) (Descriptor, error) {
	var p recipePayload
	if err := r.decode(model.CardRecipe, data, &p); err != nil {
		return nil, err
	}
	rec := model.Recipe{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		PrepTime:      *p.PrepTime,
		Yield:         p.Yield,
		EstimatedCost: *p.EstimatedCost,
		Ingredients:   make([]model.Ingredient, len(p.Ingredients)),
	}
	for i, ing := range p.Ingredients {
		rec.Ingredients[i] = model.Ingredient{Name: ing.Name, Quantity: ing.Quantity, Unit: ing.Unit}
	}
	return RecipeView{Recipe: rec}, nil
}

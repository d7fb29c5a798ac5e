// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ============================================================================
// INTENTS
// ============================================================================

// Intent is what the user asked for. The concrete type is one of ShowOrder,
// ShowRecipe, ShowStats or Acknowledge.
type Intent interface {
	Name() string
	intent()
}

// ShowOrder asks for the most recent order.
type ShowOrder struct{}

// ShowRecipe asks for a technical sheet. Query holds the words after the
// keyword, e.g. "panetone" in "ficha técnica do panetone"; it may be empty.
type ShowRecipe struct {
	Query string
}

// ShowStats asks for the daily summary.
type ShowStats struct{}

// Acknowledge is everything else.
type Acknowledge struct{}

func (ShowOrder) Name() string   { return "show_order" }
func (ShowRecipe) Name() string  { return "show_recipe" }
func (ShowStats) Name() string   { return "show_stats" }
func (Acknowledge) Name() string { return "acknowledge" }

func (ShowOrder) intent()   {}
func (ShowRecipe) intent()  {}
func (ShowStats) intent()   {}
func (Acknowledge) intent() {}

// Classifier maps free text to an intent.
type Classifier interface {
	Classify(text string) Intent
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(text string) Intent

// Classify calls f.
func (f ClassifierFunc) Classify(text string) Intent {
	return f(text)
}

// ============================================================================
// KEYWORD CLASSIFIER
// ============================================================================

// KeywordClassifier matches case-folded substrings.
//
// Classification rules (in order of priority):
//  1. ShowOrder: "pedido"
//  2. ShowRecipe: "receita", "ficha"
//  3. ShowStats: "hoje"
//  4. Acknowledge: default fallback
//
// The first matching rule wins, so "pedidos de hoje" is an order request.
type KeywordClassifier struct{}

var (
	orderKeywords  = []string{"pedido"}
	recipeKeywords = []string{"receita", "ficha"}
	statsKeywords  = []string{"hoje"}
)

// Classify implements Classifier.
func (KeywordClassifier) Classify(text string) Intent {
	q := fold(text)

	if _, ok := findAny(q, orderKeywords); ok {
		return ShowOrder{}
	}
	if end, ok := findAny(q, recipeKeywords); ok {
		return ShowRecipe{Query: recipeQuery(q[end:])}
	}
	if _, ok := findAny(q, statsKeywords); ok {
		return ShowStats{}
	}
	return Acknowledge{}
}

// fold lowercases with Portuguese rules. A Caser is stateful, so one is
// built per call.
func fold(s string) string {
	return cases.Lower(language.BrazilianPortuguese).String(s)
}

// findAny returns the end offset of the earliest keyword occurrence.
func findAny(q string, keywords []string) (int, bool) {
	best, found := -1, false
	for _, kw := range keywords {
		if i := strings.Index(q, kw); i >= 0 && (!found || i < best) {
			best, found = i+len(kw), true
		}
	}
	return best, found
}

// fillers are skipped between the keyword and the recipe name. "s" is what
// remains of a plural keyword ("receitas").
var fillers = map[string]bool{
	"s": true, "de": true, "do": true, "da": true, "dos": true, "das": true,
	"técnica": true, "tecnica": true, "técnicas": true, "tecnicas": true,
	"o": true, "a": true, "os": true, "as": true, "para": true, "pra": true,
	"um": true, "uma": true, "me": true, "mostra": true,
}

// recipeQuery extracts the recipe name following a keyword.
func recipeQuery(rest string) string {
	words := strings.FieldsFunc(rest, func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '-')
	})
	i := 0
	for i < len(words) && fillers[words[i]] {
		i++
	}
	return strings.Join(words[i:], " ")
}

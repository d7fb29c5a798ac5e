// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jeranaias/docildos/internal/model"
)

// =============================================================================
// DESCRIPTORS
// =============================================================================

// Descriptor is a resolved, validated card ready to render. The concrete
// type is one of OrderView, RecipeView or StatsView.
type Descriptor interface {
	CardType() model.CardType
	descriptor()
}

// ResolverFunc decodes and validates one card type.
type ResolverFunc func(r *Registry, data json.RawMessage) (Descriptor, error)

// =============================================================================
// REGISTRY
// =============================================================================

// Registry maps card type tags to resolvers. A Registry is immutable after
// construction apart from Register, which is meant for setup code.
type Registry struct {
	resolvers map[model.CardType]ResolverFunc
	validate  *validator.Validate
}

// NewRegistry returns a registry with the order, recipe and stats resolvers.
func NewRegistry() *Registry {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	r := &Registry{
		resolvers: make(map[model.CardType]ResolverFunc),
		validate:  v,
	}
	r.Register(model.CardOrder, resolveOrder)
	r.Register(model.CardRecipe, resolveRecipe)
	r.Register(model.CardStats, resolveStats)
	return r
}

// Register installs or replaces the resolver for t.
func (r *Registry) Register(t model.CardType, fn ResolverFunc) {
	r.resolvers[t] = fn
}

// Types returns the registered tags in sorted order.
func (r *Registry) Types() []model.CardType {
	out := make([]model.CardType, 0, len(r.resolvers))
	for t := range r.resolvers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Resolve validates a card and returns its descriptor. Unknown tags fail with
// ErrUnknownCardType; there is no fallback rendering.
func (r *Registry) Resolve(card model.Card) (Descriptor, error) {
	fn, ok := r.resolvers[card.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCardType, card.Type)
	}
	return fn(r, card.Data)
}

// ResolveAll resolves every card of a message in order. It stops at the
// first rejected card.
func (r *Registry) ResolveAll(msg model.Message) ([]Descriptor, error) {
	out := make([]Descriptor, 0, len(msg.Cards))
	for i, c := range msg.Cards {
		d, err := r.Resolve(c)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// decode unmarshals data into v and runs struct validation.
func (r *Registry) decode(t model.CardType, data json.RawMessage, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &PayloadError{Type: t, Reason: "empty payload"}
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return &PayloadError{Type: t, Err: err}
	}
	if err := r.validate.Struct(v); err != nil {
		return &PayloadError{Type: t, Reason: describeValidation(err), Err: err}
	}
	return nil
}

// describeValidation turns validator errors into "field: rule" pairs.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, ", ")
}

// jsonFieldName reports fields by their wire name in validation errors.
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

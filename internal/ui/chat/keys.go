// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/ui/components"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of the chat view.
type KeyMap struct {
	Submit       key.Binding
	QuickActions []key.Binding
	Voice        key.Binding
	NextCard     key.Binding
	PrevCard     key.Binding
	Advance      key.Binding
	Reset        key.Binding
	Dismiss      key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
}

// DefaultKeyMap returns the default bindings. Quick actions get alt+1 and
// onwards in table order.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "enviar"),
		),
		Voice: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "voz"),
		),
		NextCard: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "próximo pedido"),
		),
		PrevCard: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "pedido anterior"),
		),
		Advance: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "avançar status"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "nova conversa"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "fechar avisos"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "rolar para cima"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "rolar para baixo"),
		),
	}
	for i, qa := range dispatch.QuickActions {
		k := fmt.Sprintf("alt+%d", i+1)
		km.QuickActions = append(km.QuickActions, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, qa.Label),
		))
	}
	return km
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Voice, k.NextCard, k.Advance, k.Reset}
}

// Shortcuts converts bindings for components.RenderStatusBar.
func Shortcuts(bindings []key.Binding) []components.Shortcut {
	out := make([]components.Shortcut, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return out
}

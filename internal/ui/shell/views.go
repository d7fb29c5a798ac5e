// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

// View identifies a dashboard section.
type View string

const (
	ViewChat      View = "chat"
	ViewOrders    View = "pedidos"
	ViewSchedule  View = "agenda"
	ViewRecipes   View = "receitas"
	ViewInventory View = "estoque"
)

// Views lists the sections in sidebar order.
var Views = []View{ViewChat, ViewOrders, ViewSchedule, ViewRecipes, ViewInventory}

// Label is the sidebar entry.
func (v View) Label() string {
	switch v {
	case ViewChat:
		return "Chat"
	case ViewOrders:
		return "Pedidos"
	case ViewSchedule:
		return "Agenda"
	case ViewRecipes:
		return "Receitas"
	case ViewInventory:
		return "Estoque"
	}
	return string(v)
}

// Title is the heading of the section.
func (v View) Title() string {
	switch v {
	case ViewChat:
		return "Assistente IA"
	case ViewOrders:
		return "Pedidos"
	case ViewSchedule:
		return "Agenda de Entregas"
	case ViewRecipes:
		return "Receitas & Cardápio"
	case ViewInventory:
		return "Controle de Estoque"
	}
	return string(v)
}

// PlaceholderText is shown in place of a section that is managed through
// the chat.
func (v View) PlaceholderText() string {
	return "Use o chat para gerenciar " + string(v) + ". Digite ou fale o que precisa e a IA vai te ajudar!"
}

// IsValid reports whether v is a known section.
func (v View) IsValid() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

// QuickAction is a shortcut that submits a canned message.
type QuickAction struct {
	ID    string
	Label string
	Text  string
}

// QuickActions is the fixed shortcut table, in display order.
var QuickActions = []QuickAction{
	{ID: "pedidos-hoje", Label: "Pedidos de hoje", Text: "Me mostra os pedidos de hoje"},
	{ID: "entregas-amanha", Label: "Entregas amanhã", Text: "O que tem para entregar amanhã?"},
	{ID: "lista-compras", Label: "Lista de compras", Text: "Gerar lista de compras para os próximos pedidos"},
	{ID: "cardapio", Label: "Ver cardápio", Text: "Me mostra o cardápio completo"},
	{ID: "estoque", Label: "Estoque", Text: "Qual o status do estoque?"},
	{ID: "sugestoes", Label: "Sugestões IA", Text: "Me dá sugestões de organização para hoje"},
}

// LookupQuickAction finds a shortcut by id.
func LookupQuickAction(id string) (QuickAction, bool) {
	for _, qa := range QuickActions {
		if qa.ID == id {
			return qa, true
		}
	}
	return QuickAction{}, false
}

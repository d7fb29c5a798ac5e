// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// StatusPedido is the backend spelling of an order status.
type StatusPedido string

const (
	StatusNovo       StatusPedido = "novo"
	StatusEmProducao StatusPedido = "em_producao"
	StatusPronto     StatusPedido = "pronto"
	StatusEntregue   StatusPedido = "entregue"
	StatusCancelado  StatusPedido = "cancelado"
)

// Decimal is a number the backend may encode either as a JSON number or as a
// JSON string ("28.50").
type Decimal float64

// UnmarshalJSON accepts 28.5, "28.5" and null.
func (d *Decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("decimal %q: %w", s, err)
		}
		*d = Decimal(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*d = Decimal(f)
	return nil
}

// String renders the value without trailing zeros.
func (d Decimal) String() string {
	return strconv.FormatFloat(float64(d), 'f', -1, 64)
}

// =============================================================================
// CHAT
// =============================================================================

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
}

// CardPayload is a card as the backend sends it; the data is decoded by the
// card registry.
type CardPayload struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Action is a suggested follow-up button.
type Action struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ChatResponse is the reply of POST /api/chat.
type ChatResponse struct {
	Response             string        `json:"response"`
	Cards                []CardPayload `json:"cards,omitempty"`
	Actions              []Action      `json:"actions,omitempty"`
	RequiresConfirmation bool          `json:"requires_confirmation"`
	ConfirmationQuestion string        `json:"confirmation_question,omitempty"`
}

// =============================================================================
// PEDIDOS
// =============================================================================

// ItemPedido is one line of an order.
type ItemPedido struct {
	ID              int     `json:"id"`
	ReceitaID       int     `json:"receita_id"`
	Quantidade      int     `json:"quantidade"`
	Unidade         *string `json:"unidade,omitempty"`
	Personalizacoes *string `json:"personalizacoes,omitempty"`
	ReceitaNome     *string `json:"receita_nome,omitempty"`
}

// Pedido is an order as returned by /api/pedidos.
type Pedido struct {
	ID          int          `json:"id"`
	Cliente     string       `json:"cliente"`
	Status      StatusPedido `json:"status"`
	DataEntrega string       `json:"data_entrega"`
	Horario     *string      `json:"horario,omitempty"`
	Local       *string      `json:"local,omitempty"`
	Observacoes *string      `json:"observacoes,omitempty"`
	PrecoTotal  *Decimal     `json:"preco_total,omitempty"`
	Itens       []ItemPedido `json:"itens"`
}

// ItemPedidoCreate is one line of a new order.
type ItemPedidoCreate struct {
	ReceitaID       int    `json:"receita_id" binding:"required,gt=0"`
	Quantidade      int    `json:"quantidade" binding:"required,gt=0"`
	Unidade         string `json:"unidade,omitempty"`
	Personalizacoes string `json:"personalizacoes,omitempty"`
}

// PedidoCreate is the body of POST /api/pedidos.
type PedidoCreate struct {
	Cliente     string             `json:"cliente" binding:"required"`
	DataEntrega string             `json:"data_entrega" binding:"required,datetime=2006-01-02"`
	Horario     string             `json:"horario,omitempty" binding:"omitempty,datetime=15:04"`
	Local       string             `json:"local,omitempty"`
	Observacoes string             `json:"observacoes,omitempty"`
	Itens       []ItemPedidoCreate `json:"itens" binding:"required,min=1,dive"`
	PrecoTotal  *float64           `json:"preco_total,omitempty" binding:"omitempty,gte=0"`
}

// PedidoStatusUpdate is the body of PATCH /api/pedidos/{id}/status.
type PedidoStatusUpdate struct {
	Status StatusPedido `json:"status" binding:"required,oneof=novo em_producao pronto entregue cancelado"`
}

// OrderFilter narrows GET /api/pedidos. Dates use YYYY-MM-DD.
type OrderFilter struct {
	DataInicio string
	DataFim    string
	Status     StatusPedido
	Cliente    string
}

// =============================================================================
// RECEITAS
// =============================================================================

// IngredienteReceita is one ingredient line of a recipe.
type IngredienteReceita struct {
	ID              int     `json:"id"`
	IngredienteID   int     `json:"ingrediente_id"`
	Quantidade      Decimal `json:"quantidade"`
	Unidade         string  `json:"unidade"`
	IngredienteNome *string `json:"ingrediente_nome,omitempty"`
}

// Receita is a recipe as returned by /api/receitas.
type Receita struct {
	ID           int                  `json:"id"`
	Nome         string               `json:"nome"`
	Descricao    *string              `json:"descricao,omitempty"`
	TempoPreparo *int                 `json:"tempo_preparo,omitempty"`
	Rendimento   *string              `json:"rendimento,omitempty"`
	Ingredientes []IngredienteReceita `json:"ingredientes"`

	// CustoEstimado is not part of the backend schema; servers that know the
	// cost of a recipe may add it.
	CustoEstimado *Decimal `json:"custo_estimado,omitempty"`
}

// =============================================================================
// STATS AND AGENDA
// =============================================================================

// Stats holds the daily counters of GET /api/stats.
type Stats struct {
	PedidosHoje       int      `json:"pedidos_hoje"`
	PedidosNovos      int      `json:"pedidos_novos"`
	EntregasPendentes int      `json:"entregas_pendentes"`
	EmProducao        int      `json:"em_producao"`
	EstoqueBaixo      int      `json:"estoque_baixo"`
	TotalPedidosHoje  *Decimal `json:"total_pedidos_hoje,omitempty"`

	// TendenciaPedidos is the percent change of pedidos_hoje against
	// yesterday. Absent when there were no orders yesterday.
	TendenciaPedidos *float64 `json:"tendencia_pedidos,omitempty"`
}

// AgendaEntrega is a scheduled delivery.
type AgendaEntrega struct {
	ID            int     `json:"id"`
	PedidoID      int     `json:"pedido_id"`
	DataHora      string  `json:"data_hora"`
	Local         *string `json:"local,omitempty"`
	Responsavel   *string `json:"responsavel,omitempty"`
	PedidoCliente *string `json:"pedido_cliente,omitempty"`
}

// AgendaFilter narrows GET /api/agenda. Dates use YYYY-MM-DD.
type AgendaFilter struct {
	DataInicio string
	DataFim    string
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Stats is the payload of a stats card: the daily counters of the business.
type Stats struct {
	PedidosHoje       int `json:"pedidos_hoje"`
	PedidosNovos      int `json:"pedidos_novos"`
	EntregasPendentes int `json:"entregas_pendentes"`
	EmProducao        int `json:"em_producao"`
	EstoqueBaixo      int `json:"estoque_baixo"`

	// TotalPedidosHoje is the revenue of today's orders, when known.
	TotalPedidosHoje *float64 `json:"total_pedidos_hoje,omitempty"`
	// TendenciaPedidos is the percent change of orders vs. yesterday.
	TendenciaPedidos *float64 `json:"tendencia_pedidos,omitempty"`
}

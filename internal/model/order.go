// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// =============================================================================
// ORDER STATUS
// =============================================================================

// OrderStatus is the production stage of an order. Stages only move forward:
// novo -> producao -> pronto -> entregue.
type OrderStatus string

const (
	StatusNovo     OrderStatus = "novo"
	StatusProducao OrderStatus = "producao"
	StatusPronto   OrderStatus = "pronto"
	StatusEntregue OrderStatus = "entregue"
)

// OrderStatuses lists every stage in progression order.
var OrderStatuses = []OrderStatus{StatusNovo, StatusProducao, StatusPronto, StatusEntregue}

// ParseOrderStatus validates s.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

// IsValid reports whether s is one of the four stages.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusNovo, StatusProducao, StatusPronto, StatusEntregue:
		return true
	}
	return false
}

// Next returns the stage after s. Entregue is terminal.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case StatusNovo:
		return StatusProducao, true
	case StatusProducao:
		return StatusPronto, true
	case StatusPronto:
		return StatusEntregue, true
	}
	return "", false
}

// Transitions returns the transitions offered to the user: next(s) or none.
func (s OrderStatus) Transitions() []OrderStatus {
	if next, ok := s.Next(); ok {
		return []OrderStatus{next}
	}
	return nil
}

// IsTerminal reports whether no transition is offered.
func (s OrderStatus) IsTerminal() bool {
	_, ok := s.Next()
	return !ok
}

// Label is the badge text.
func (s OrderStatus) Label() string {
	switch s {
	case StatusNovo:
		return "Novo"
	case StatusProducao:
		return "Em Produção"
	case StatusPronto:
		return "Pronto"
	case StatusEntregue:
		return "Entregue"
	}
	return string(s)
}

// ActionLabel is the button text that moves an order out of s.
func (s OrderStatus) ActionLabel() string {
	switch s {
	case StatusNovo:
		return "Iniciar Produção"
	case StatusProducao:
		return "Marcar Pronto"
	case StatusPronto:
		return "Confirmar Entrega"
	}
	return ""
}

// AckPhrase completes "Pedido #001 foi marcado ..." for a target stage.
func (s OrderStatus) AckPhrase() string {
	switch s {
	case StatusProducao:
		return "em produção"
	case StatusPronto:
		return "como pronto"
	case StatusEntregue:
		return "como entregue"
	}
	return ""
}

// =============================================================================
// ORDER
// =============================================================================

// OrderItem is one line of an order.
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Variant  string `json:"variant,omitempty"`
}

// Order is the payload of an order card.
type Order struct {
	ID          string      `json:"id"`
	Cliente     string      `json:"cliente"`
	Items       []OrderItem `json:"items"`
	Status      OrderStatus `json:"status"`
	DataEntrega time.Time   `json:"dataEntrega"`
	Horario     string      `json:"horario,omitempty"`
	Local       string      `json:"local,omitempty"`
}

// ItemCount sums item quantities.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

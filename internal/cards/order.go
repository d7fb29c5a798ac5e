// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/docildos/internal/model"
)

type orderItemPayload struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Variant  string `json:"variant"`
}

type orderPayload struct {
	ID          string             `json:"id" validate:"required"`
	Cliente     string             `json:"cliente" validate:"required"`
	Items       []orderItemPayload `json:"items" validate:"required,min=1,dive"`
	Status      string             `json:"status" validate:"required,oneof=novo producao pronto entregue"`
	DataEntrega *time.Time         `json:"dataEntrega" validate:"required"`
	Horario     string             `json:"horario" validate:"omitempty,datetime=15:04"`
	Local       string             `json:"local"`
}

// Transition is the single forward move offered on an order card.
type Transition struct {
	Target model.OrderStatus
	Label  string
}

// StatusChange is emitted when the user advances an order. The conversation
// store turns it into an acknowledgment message.
type StatusChange struct {
	OrderID string
	From    model.OrderStatus
	To      model.OrderStatus
}

// OrderView is the resolved form of an order card.
type OrderView struct {
	Order       model.Order
	StatusLabel string

	// Transition is nil once the order is delivered.
	Transition *Transition
}

func (OrderView) CardType() model.CardType { return model.CardOrder }
func (OrderView) descriptor()              {}

// NewOrderView builds the descriptor for an already typed order.
func NewOrderView(o model.Order) OrderView {
	v := OrderView{Order: o, StatusLabel: o.Status.Label()}
	if next, ok := o.Status.Next(); ok {
		v.Transition = &Transition{Target: next, Label: o.Status.ActionLabel()}
	}
	return v
}

// Advance validates a user request to move the order to target. Only
// next(status) is accepted. The view itself is not modified; the card keeps
// showing the status it was created with.
func (v OrderView) Advance(orderID string, target model.OrderStatus) (StatusChange, error) {
	if orderID != v.Order.ID {
		return StatusChange{}, fmt.Errorf("%w: card shows order %s, not %s", ErrInvalidTransition, v.Order.ID, orderID)
	}
	if v.Transition == nil || v.Transition.Target != target {
		return StatusChange{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, v.Order.Status, target)
	}
	return StatusChange{OrderID: orderID, From: v.Order.Status, To: target}, nil
}

// AdvanceNext is Advance with the offered target.
func (v OrderView) AdvanceNext() (StatusChange, error) {
	if v.Transition == nil {
		return StatusChange{}, fmt.Errorf("%w: %s is final", ErrInvalidTransition, v.Order.Status)
	}
	return v.Advance(v.Order.ID, v.Transition.Target)
}

func resolveOrder(r *Registry, data json.RawMessage) (Descriptor, error) {
	var p orderPayload
	if err := r.decode(model.CardOrder, data, &p); err != nil {
		return nil, err
	}
	o := model.Order{
		ID:          p.ID,
		Cliente:     p.Cliente,
		Status:      model.OrderStatus(p.Status),
		DataEntrega: *p.DataEntrega,
		Horario:     p.Horario,
		Local:       p.Local,
		Items:       make([]model.OrderItem, len(p.Items)),
	}
	for i, it := range p.Items {
		o.Items[i] = model.OrderItem{Name: it.Name, Quantity: it.Quantity, Variant: it.Variant}
	}
	return NewOrderView(o), nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/jeranaias/docildos/internal/model"
)

// SampleCatalog answers with a fixed representative order, recipe and stats
// snapshot. It backs the local mode, where no backend is configured.
type SampleCatalog struct {
	// Now returns the reference time for the delivery date. Defaults to
	// time.Now.
	Now func() time.Time

	mu      sync.Mutex
	changes []StatusUpdate
}

// StatusUpdate is a status change recorded by SampleCatalog.
type StatusUpdate struct {
	OrderID string
	Status  model.OrderStatus
}

// SampleOrder is the representative order, delivered the day after now.
func SampleOrder(now time.Time) model.Order {
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return model.Order{
		ID:      "001",
		Cliente: "Nicole Silva",
		Items: []model.OrderItem{
			{Name: "Chocotone", Quantity: 2, Variant: "500g recheado"},
			{Name: "Panetone", Quantity: 1, Variant: "300g tradicional"},
		},
		Status:      model.StatusNovo,
		DataEntrega: tomorrow,
		Horario:     "15:00",
		Local:       "Rua das Flores, 123",
	}
}

// SampleRecipe is the representative technical sheet.
func SampleRecipe() model.Recipe {
	return model.Recipe{
		ID:            "001",
		Name:          "Panetone 500g Recheado",
		Description:   "Panetone artesanal com recheio de chocolate belga",
		PrepTime:      180,
		Yield:         "2 unidades",
		EstimatedCost: 28.5,
		Ingredients: []model.Ingredient{
			{Name: "Farinha", Quantity: "500", Unit: "g"},
			{Name: "Açúcar", Quantity: "150", Unit: "g"},
			{Name: "Manteiga", Quantity: "100", Unit: "g"},
			{Name: "Ovos", Quantity: "4", Unit: "un"},
			{Name: "Chocolate", Quantity: "200", Unit: "g"},
			{Name: "Leite", Quantity: "200", Unit: "ml"},
		},
	}
}

// SampleStats is the representative daily snapshot.
func SampleStats() model.Stats {
	total, trend := 1240.0, 12.0
	return model.Stats{
		PedidosHoje:       8,
		PedidosNovos:      3,
		EntregasPendentes: 5,
		EmProducao:        3,
		EstoqueBaixo:      2,
		TotalPedidosHoje:  &total,
		TendenciaPedidos:  &trend,
	}
}

func (c *SampleCatalog) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// LatestOrder implements Catalog.
func (c *SampleCatalog) LatestOrder(context.Context) (model.Order, error) {
	return SampleOrder(c.now()), nil
}

// FindRecipe implements Catalog. The query is ignored.
func (c *SampleCatalog) FindRecipe(context.Context, string) (model.Recipe, error) {
	return SampleRecipe(), nil
}

// Stats implements Catalog.
func (c *SampleCatalog) Stats(context.Context) (model.Stats, error) {
	return SampleStats(), nil
}

// UpdateOrderStatus implements OrderUpdater by remembering the change.
func (c *SampleCatalog) UpdateOrderStatus(_ context.Context, orderID string, status model.OrderStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changes = append(c.changes, StatusUpdate{OrderID: orderID, Status: status})
	return nil
}

// Updates returns the recorded status changes.
func (c *SampleCatalog) Updates() []StatusUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]StatusUpdate(nil), c.changes...)
}

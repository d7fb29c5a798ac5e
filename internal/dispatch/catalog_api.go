// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jeranaias/docildos/internal/api"
	"github.com/jeranaias/docildos/internal/logging"
	"github.com/jeranaias/docildos/internal/model"
)

// Backend is the part of the API client the catalog needs.
type Backend interface {
	ListOrders(ctx context.Context, f api.OrderFilter) ([]api.Pedido, error)
	UpdateOrderStatus(ctx context.Context, id int, status api.StatusPedido) (*api.Pedido, error)
	ListRecipes(ctx context.Context, nome string) ([]api.Receita, error)
	Stats(ctx context.Context) (*api.Stats, error)
}

// APICatalog answers from the backend through the API client.
type APICatalog struct {
	backend Backend
	logger  *slog.Logger
}

// NewAPICatalog wraps a backend client.
func NewAPICatalog(backend Backend, logger *slog.Logger) *APICatalog {
	return &APICatalog{backend: backend, logger: logging.Component(logger, "catalog")}
}

// LatestOrder implements Catalog. The backend lists orders by delivery date,
// newest first; orders with a status the cards cannot show are skipped.
func (c *APICatalog) LatestOrder(ctx context.Context) (model.Order, error) {
	orders, err := c.backend.ListOrders(ctx, api.OrderFilter{})
	if err != nil {
		return model.Order{}, err
	}
	for _, p := range orders {
		o, err := api.ToModelOrder(p)
		if errors.Is(err, api.ErrUnmappedStatus) {
			continue
		}
		if err != nil {
			c.logger.WarnContext(ctx, "skipping order", "id", p.ID, "error", err)
			continue
		}
		return o, nil
	}
	return model.Order{}, ErrNotFound
}

// FindRecipe implements Catalog. An unmatched query falls back to the first
// recipe on file.
func (c *APICatalog) FindRecipe(ctx context.Context, query string) (model.Recipe, error) {
	recipes, err := c.backend.ListRecipes(ctx, query)
	if err != nil {
		return model.Recipe{}, err
	}
	if len(recipes) == 0 && query != "" {
		if recipes, err = c.backend.ListRecipes(ctx, ""); err != nil {
			return model.Recipe{}, err
		}
	}
	if len(recipes) == 0 {
		return model.Recipe{}, ErrNotFound
	}
	return api.ToModelRecipe(recipes[0]), nil
}

// Stats implements Catalog.
func (c *APICatalog) Stats(ctx context.Context) (model.Stats, error) {
	s, err := c.backend.Stats(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	return api.ToModelStats(*s), nil
}

// UpdateOrderStatus implements OrderUpdater.
func (c *APICatalog) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	id, err := api.ParseOrderID(orderID)
	if err != nil {
		return err
	}
	backendStatus, err := api.FromModelStatus(status)
	if err != nil {
		return err
	}
	_, err = c.backend.UpdateOrderStatus(ctx, id, backendStatus)
	return err
}

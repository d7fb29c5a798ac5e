// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Chat sends a message to the assistant.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListOrders returns orders, most recent delivery date first.
func (c *Client) ListOrders(ctx context.Context, f OrderFilter) ([]Pedido, error) {
	q := url.Values{}
	setIf(q, "data_inicio", f.DataInicio)
	setIf(q, "data_fim", f.DataFim)
	setIf(q, "status", string(f.Status))
	setIf(q, "cliente", f.Cliente)

	var out []Pedido
	if err := c.do(ctx, http.MethodGet, "/api/pedidos", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, id int) (*Pedido, error) {
	var out Pedido
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/pedidos/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder registers a new order.
func (c *Client) CreateOrder(ctx context.Context, p PedidoCreate) (*Pedido, error) {
	var out Pedido
	if err := c.do(ctx, http.MethodPost, "/api/pedidos", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrderStatus sets the status of an order.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int, status StatusPedido) (*Pedido, error) {
	var out Pedido
	path := fmt.Sprintf("/api/pedidos/%d/status", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, PedidoStatusUpdate{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRecipes returns recipes whose name contains nome (all when empty).
func (c *Client) ListRecipes(ctx context.Context, nome string) ([]Receita, error) {
	q := url.Values{}
	setIf(q, "nome", nome)

	var out []Receita
	if err := c.do(ctx, http.MethodGet, "/api/receitas", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRecipe fetches one recipe.
func (c *Client) GetRecipe(ctx context.Context, id int) (*Receita, error) {
	var out Receita
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/receitas/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns today's counters.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Agenda returns scheduled deliveries.
func (c *Client) Agenda(ctx context.Context, f AgendaFilter) ([]AgendaEntrega, error) {
	q := url.Values{}
	setIf(q, "data_inicio", f.DataInicio)
	setIf(q, "data_fim", f.DataFim)

	var out []AgendaEntrega
	if err := c.do(ctx, http.MethodGet, "/api/agenda", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/docildos/internal/model"
)

// ErrUnmappedStatus is returned for backend statuses the UI has no stage
// for, such as "cancelado".
var ErrUnmappedStatus = errors.New("order status has no card stage")

// ToModelStatus maps the backend spelling to the card stage.
func ToModelStatus(s StatusPedido) (model.OrderStatus, error) {
	switch s {
	case StatusNovo:
		return model.StatusNovo, nil
	case StatusEmProducao:
		return model.StatusProducao, nil
	case StatusPronto:
		return model.StatusPronto, nil
	case StatusEntregue:
		return model.StatusEntregue, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnmappedStatus, s)
}

// FromModelStatus maps a card stage to the backend spelling.
func FromModelStatus(s model.OrderStatus) (StatusPedido, error) {
	switch s {
	case model.StatusNovo:
		return StatusNovo, nil
	case model.StatusProducao:
		return StatusEmProducao, nil
	case model.StatusPronto:
		return StatusPronto, nil
	case model.StatusEntregue:
		return StatusEntregue, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// FormatOrderID renders a backend id the way cards show it ("001").
func FormatOrderID(id int) string {
	return fmt.Sprintf("%03d", id)
}

// ParseOrderID reverses FormatOrderID.
func ParseOrderID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimLeft(s, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid order id %q", s)
	}
	return id, nil
}

// ParseDate accepts "2006-01-02" and RFC 3339 timestamps, with or without
// a zone.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ToModelOrder converts a backend order into a card payload.
func ToModelOrder(p Pedido) (model.Order, error) {
	status, err := ToModelStatus(p.Status)
	if err != nil {
		return model.Order{}, err
	}
	date, err := ParseDate(p.DataEntrega, time.Local)
	if err != nil {
		return model.Order{}, err
	}

	o := model.Order{
		ID:          FormatOrderID(p.ID),
		Cliente:     p.Cliente,
		Status:      status,
		DataEntrega: date,
		Horario:     shortClock(deref(p.Horario)),
		Local:       deref(p.Local),
		Items:       make([]model.OrderItem, 0, len(p.Itens)),
	}
	for _, it := range p.Itens {
		name := deref(it.ReceitaNome)
		if name == "" {
			name = fmt.Sprintf("Receita #%d", it.ReceitaID)
		}
		variant := deref(it.Personalizacoes)
		if variant == "" {
			variant = deref(it.Unidade)
		}
		o.Items = append(o.Items, model.OrderItem{Name: name, Quantity: it.Quantidade, Variant: variant})
	}
	return o, nil
}

// ToModelRecipe converts a backend recipe into a card payload.
func ToModelRecipe(r Receita) model.Recipe {
	rec := model.Recipe{
		ID:          FormatOrderID(r.ID),
		Name:        r.Nome,
		Description: deref(r.Descricao),
		Yield:       deref(r.Rendimento),
		Ingredients: make([]model.Ingredient, 0, len(r.Ingredientes)),
	}
	if r.TempoPreparo != nil && *r.TempoPreparo > 0 {
		rec.PrepTime = *r.TempoPreparo
	}
	if r.CustoEstimado != nil && *r.CustoEstimado > 0 {
		rec.EstimatedCost = float64(*r.CustoEstimado)
	}
	for _, ing := range r.Ingredientes {
		name := deref(ing.IngredienteNome)
		if name == "" {
			name = fmt.Sprintf("Ingrediente #%d", ing.IngredienteID)
		}
		rec.Ingredients = append(rec.Ingredients, model.Ingredient{
			Name:     name,
			Quantity: ing.Quantidade.String(),
			Unit:     ing.Unidade,
		})
	}
	return rec
}

// ToModelStats converts the backend counters into a card payload.
func ToModelStats(s Stats) model.Stats {
	out := model.Stats{
		PedidosHoje:       s.PedidosHoje,
		PedidosNovos:      s.PedidosNovos,
		EntregasPendentes: s.EntregasPendentes,
		EmProducao:        s.EmProducao,
		EstoqueBaixo:      s.EstoqueBaixo,
	}
	if s.TotalPedidosHoje != nil {
		total := float64(*s.TotalPedidosHoje)
		out.TotalPedidosHoje = &total
	}
	if s.TendenciaPedidos != nil {
		trend := *s.TendenciaPedidos
		out.TendenciaPedidos = &trend
	}
	return out
}

// shortClock trims "15:00:00" to "15:00".
func shortClock(s string) string {
	if len(s) == len("15:04:05") && s[2] == ':' && s[5] == ':' {
		return s[:5]
	}
	return s
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/jeranaias/docildos/internal/model"
	"github.com/jeranaias/docildos/internal/util"
)

// Variant is the visual emphasis of a metric.
type Variant string

const (
	VariantDefault Variant = "default"
	VariantPrimary Variant = "primary"
	VariantWarning Variant = "warning"
	VariantSuccess Variant = "success"
)

// Trend is a percentage delta against the previous day.
type Trend struct {
	Value    float64
	Positive bool
}

// String renders "+12% vs. ontem".
func (t Trend) String() string {
	sign := "+"
	if !t.Positive {
		sign = "-"
	}
	return fmt.Sprintf("%s%g%% vs. ontem", sign, math.Abs(t.Value))
}

// Metric is one labelled number on a stats card.
type Metric struct {
	Label    string
	Value    string
	Subtitle string
	Trend    *Trend
	Variant  Variant
}

// statsPayload uses pointers so a missing counter is distinguishable from 0.
type statsPayload struct {
	PedidosHoje       *int     `json:"pedidos_hoje" validate:"required,gte=0"`
	PedidosNovos      *int     `json:"pedidos_novos" validate:"required,gte=0"`
	EntregasPendentes *int     `json:"entregas_pendentes" validate:"required,gte=0"`
	EmProducao        *int     `json:"em_producao" validate:"required,gte=0"`
	EstoqueBaixo      *int     `json:"estoque_baixo" validate:"required,gte=0"`
	TotalPedidosHoje  *float64 `json:"total_pedidos_hoje" validate:"omitempty,gte=0"`
	TendenciaPedidos  *float64 `json:"tendencia_pedidos"`
}

// StatsView is the resolved form of a stats card.
type StatsView struct {
	Stats   model.Stats
	Metrics []Metric
}

func (StatsView) CardType() model.CardType { return model.CardStats }
func (StatsView) descriptor()              {}

// NewStatsView derives the metrics shown for a snapshot.
func NewStatsView(s model.Stats) StatsView {
	var metrics []Metric

	if s.TotalPedidosHoje != nil {
		metrics = append(metrics, Metric{
			Label:    "Total Pedidos",
			Value:    util.FormatCurrency(*s.TotalPedidosHoje),
			Subtitle: "hoje",
			Variant:  VariantSuccess,
		})
	}

	orders := Metric{
		Label:    "Pedidos Hoje",
		Value:    util.FormatInt(s.PedidosHoje),
		Subtitle: fmt.Sprintf("%d novos", s.PedidosNovos),
		Variant:  VariantPrimary,
	}
	if s.TendenciaPedidos != nil {
		orders.Trend = &Trend{Value: math.Abs(*s.TendenciaPedidos), Positive: *s.TendenciaPedidos >= 0}
	}

	lowStock := Metric{
		Label:    "Estoque Baixo",
		Value:    util.FormatInt(s.EstoqueBaixo),
		Subtitle: "itens críticos",
		Variant:  VariantWarning,
	}
	if s.EstoqueBaixo == 0 {
		lowStock.Subtitle = "tudo em dia"
		lowStock.Variant = VariantSuccess
	}

	metrics = append(metrics,
		orders,
		Metric{
			Label:    "Entregas",
			Value:    util.FormatInt(s.EntregasPendentes),
			Subtitle: "pendentes",
			Variant:  VariantDefault,
		},
		Metric{
			Label:    "Em Produção",
			Value:    util.FormatInt(s.EmProducao),
			Subtitle: "para produzir",
			Variant:  VariantWarning,
		},
		lowStock,
	)
	return StatsView{Stats: s, Metrics: metrics}
}

func resolveStats(r *Registry, data json.RawMessage) (Descriptor, error) {
	var p statsPayload
	if err := r.decode(model.CardStats, data, &p); err != nil {
		return nil, err
	}
	return NewStatsView(model.Stats{
		PedidosHoje:       *p.PedidosHoje,
		PedidosNovos:      *p.PedidosNovos,
		EntregasPendentes: *p.EntregasPendentes,
		EmProducao:        *p.EmProducao,
		EstoqueBaixo:      *p.EstoqueBaixo,
		TotalPedidosHoje:  p.TotalPedidosHoje,
		TendenciaPedidos:  p.TendenciaPedidos,
	}), nil
}

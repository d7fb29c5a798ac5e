// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docildos/internal/cards"
	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/model"
	"github.com/jeranaias/docildos/internal/ui/styles"
)

var refNow = time.Date(2025, 10, 20, 9, 0, 0, 0, time.Local)

func TestRenderOrderCard(t *testing.T) {
	theme := styles.NewTheme()
	view := cards.NewOrderView(dispatch.SampleOrder(refNow))

	out := RenderOrderCard(theme, view, CardOptions{Width: 60, Now: refNow, Selected: true})

	for _, want := range []string{
		"Pedido #001",
		"Novo",
		"Nicole Silva",
		"Amanhã às 15:00",
		"Rua das Flores, 123",
		"2x Chocotone (500g recheado)",
		"1x Panetone (300g tradicional)",
		"Iniciar Produção",
		"ctrl+a",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("order card missing %q:\n%s", want, out)
		}
	}
}

func TestRenderOrderCard_DeliveredHasNoButton(t *testing.T) {
	order := dispatch.SampleOrder(refNow)
	order.Status = model.StatusEntregue

	out := RenderOrderCard(styles.NewTheme(), cards.NewOrderView(order), CardOptions{Width: 60, Now: refNow})
	if !strings.Contains(out, "Entregue") {
		t.Errorf("missing status label:\n%s", out)
	}
	for _, label := range []string{"Iniciar Produção", "Marcar Pronto", "Confirmar Entrega"} {
		if strings.Contains(out, label) {
			t.Errorf("delivered order should not offer %q", label)
		}
	}
}

func TestRenderRecipeCard(t *testing.T) {
	out := RenderRecipeCard(styles.NewTheme(), cards.RecipeView{Recipe: dispatch.SampleRecipe()}, CardOptions{Width: 70})

	for _, want := range []string{"Panetone 500g Recheado", "3h", "2 unidades", "R$ 28,50", "Ingredientes", "Farinha", "Leite"} {
		if !strings.Contains(out, want) {
			t.Errorf("recipe card missing %q:\n%s", want, out)
		}
	}
}

func TestRenderStatsCard(t *testing.T) {
	view := cards.NewStatsView(dispatch.SampleStats())
	out := RenderStatsCard(styles.NewTheme(), view, CardOptions{Width: 100})

	for _, want := range []string{"Total Pedidos", "R$ 1.240,00", "Pedidos Hoje", "3 novos", "+12% vs. ontem", "Estoque Baixo"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats card missing %q:\n%s", want, out)
		}
	}
}

func TestRenderMetrics_WrapsOnNarrowWidth(t *testing.T) {
	theme := styles.NewTheme()
	metrics := cards.NewStatsView(dispatch.SampleStats()).Metrics

	wide := RenderMetrics(theme, metrics, 200)
	narrow := RenderMetrics(theme, metrics, 30)
	if lipgloss.Height(narrow) <= lipgloss.Height(wide) {
		t.Errorf("narrow layout should be taller: %d <= %d", lipgloss.Height(narrow), lipgloss.Height(wide))
	}
	if lipgloss.Width(narrow) > lipgloss.Width(wide) {
		t.Error("narrow layout should not be wider")
	}
}

func TestRenderStatsHeader_OmitsRevenue(t *testing.T) {
	out := RenderStatsHeader(styles.NewTheme(), dispatch.SampleStats(), 120)
	if strings.Contains(out, "Total Pedidos") {
		t.Error("stats header should not repeat the revenue metric")
	}
	for _, want := range []string{"Pedidos Hoje", "Entregas", "Em Produção", "Estoque Baixo"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats header missing %q", want)
		}
	}
}

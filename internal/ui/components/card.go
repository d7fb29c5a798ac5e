// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docildos/internal/cards"
	"github.com/jeranaias/docildos/internal/ui/styles"
	"github.com/jeranaias/docildos/internal/util"
)

// CardOptions controls card rendering.
type CardOptions struct {
	Width    int
	Selected bool
	// Now anchors relative delivery dates. Zero means time.Now.
	Now time.Time
}

func (o CardOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// innerWidth is the usable width inside the card border and padding.
func (o CardOptions) innerWidth() int {
	return max(o.Width-4, 20)
}

// RenderCard renders a resolved card.
func RenderCard(theme *styles.Theme, d cards.Descriptor, opts CardOptions) string {
	switch v := d.(type) {
	case cards.OrderView:
		return RenderOrderCard(theme, v, opts)
	case cards.RecipeView:
		return RenderRecipeCard(theme, v, opts)
	case cards.StatsView:
		return RenderStatsCard(theme, v, opts)
	}
	return ""
}

func frame(theme *styles.Theme, opts CardOptions, body string) string {
	style := theme.Card
	if opts.Selected {
		style = theme.CardSelected
	}
	return style.Width(opts.innerWidth() + 2).Render(body)
}

// spread places left and right on one line of width columns.
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + "\n" + right
	}
	return left + strings.Repeat(" ", gap) + right
}

// =============================================================================
// ORDER CARD
// =============================================================================

// RenderOrderCard renders an order with its status badge and the button for
// the next transition.
func RenderOrderCard(theme *styles.Theme, v cards.OrderView, opts CardOptions) string {
	o := v.Order
	w := opts.innerWidth()

	var b strings.Builder
	title := theme.CardTitle.Render("Pedido #" + o.ID)
	b.WriteString(spread(title, theme.StatusBadge(string(o.Status), v.StatusLabel), w))
	b.WriteString("\n")
	b.WriteString(theme.CardValue.Render(util.TruncateWidth(o.Cliente, w)))
	b.WriteString("\n")

	when := util.FormatDeliveryDate(o.DataEntrega, opts.now())
	if o.Horario != "" {
		when += " às " + o.Horario
	}
	b.WriteString(theme.CardLabel.Render("📅 " + when))
	if o.Local != "" {
		b.WriteString("\n")
		b.WriteString(theme.CardLabel.Render("📍 " + util.TruncateWidth(o.Local, w-3)))
	}
	b.WriteString("\n")
	b.WriteString(theme.CardMuted.Render(strings.Repeat("─", w)))

	for _, it := range o.Items {
		line := fmt.Sprintf("%dx %s", it.Quantity, it.Name)
		if it.Variant != "" {
			line += " (" + it.Variant + ")"
		}
		b.WriteString("\n")
		b.WriteString(util.TruncateWidth(line, w))
	}

	if v.Transition != nil {
		b.WriteString("\n\n")
		b.WriteString(theme.ActionButton.Render(v.Transition.Label))
		if opts.Selected {
			b.WriteString(theme.CardMuted.Render("  ctrl+a"))
		}
	}
	return frame(theme, opts, b.String())
}

// =============================================================================
// RECIPE CARD
// =============================================================================

// RenderRecipeCard renders a technical sheet with ingredients two per row.
func RenderRecipeCard(theme *styles.Theme, v cards.RecipeView, opts CardOptions) string {
	r := v.Recipe
	w := opts.innerWidth()

	var b strings.Builder
	b.WriteString(theme.CardTitle.Render(util.TruncateWidth(r.Name, w)))
	if r.Description != "" {
		for _, line := range util.WrapWords(r.Description, w) {
			b.WriteString("\n")
			b.WriteString(theme.CardMuted.Render(line))
		}
	}
	b.WriteString("\n\n")

	facts := []string{
		theme.CardLabel.Render("⏱ ") + theme.CardValue.Render(util.FormatPrepTime(r.PrepTime)),
	}
	if r.Yield != "" {
		facts = append(facts, theme.CardLabel.Render("🍽 ")+theme.CardValue.Render(r.Yield))
	}
	facts = append(facts, theme.CardLabel.Render("💰 ")+theme.CardValue.Render(util.FormatCurrency(r.EstimatedCost)))
	b.WriteString(strings.Join(facts, "   "))

	if rows := v.IngredientRows(); len(rows) > 0 {
		b.WriteString("\n\n")
		b.WriteString(theme.CardLabel.Render("Ingredientes"))
		col := (w - 2) / 2
		for _, row := range rows {
			b.WriteString("\n")
			for i, ing := range row {
				cell := util.TruncateWidth(ing.Name, max(col-8, 6)) + " " +
					theme.CardMuted.Render(strings.TrimSpace(ing.Quantity+" "+ing.Unit))
				if i == 0 && len(row) > 1 {
					cell += strings.Repeat(" ", max(col-lipgloss.Width(cell), 0)+2)
				}
				b.WriteString(cell)
			}
		}
	}
	return frame(theme, opts, b.String())
}

// =============================================================================
// STATS CARD
// =============================================================================

// RenderStatsCard renders the metrics side by side, wrapping to a column on
// narrow terminals.
func RenderStatsCard(theme *styles.Theme, v cards.StatsView, opts CardOptions) string {
	w := opts.innerWidth()
	return frame(theme, opts, RenderMetrics(theme, v.Metrics, w))
}

// RenderMetrics lays out metric boxes in as many rows as width requires.
func RenderMetrics(theme *styles.Theme, metrics []cards.Metric, width int) string {
	if len(metrics) == 0 {
		return ""
	}
	const boxWidth = 18
	perRow := max(width/(boxWidth+2), 1)

	var rows []string
	for i := 0; i < len(metrics); i += perRow {
		end := min(i+perRow, len(metrics))
		boxes := make([]string, 0, end-i)
		for _, m := range metrics[i:end] {
			boxes = append(boxes, renderMetric(theme, m, boxWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderMetric(theme *styles.Theme, m cards.Metric, width int) string {
	inner := width - 2
	value := theme.MetricValue.Foreground(styles.VariantColor(string(m.Variant))).Render(m.Value)
	lines := []string{
		theme.CardLabel.Render(util.TruncateWidth(m.Label, inner)),
		value,
		theme.CardMuted.Render(util.TruncateWidth(m.Subtitle, inner)),
	}
	if m.Trend != nil {
		trend := theme.TrendPositive
		if !m.Trend.Positive {
			trend = theme.TrendNegative
		}
		lines = append(lines, trend.Render(util.TruncateWidth(m.Trend.String(), inner)))
	}
	return theme.MetricBox.Width(width).Render(strings.Join(lines, "\n"))
}

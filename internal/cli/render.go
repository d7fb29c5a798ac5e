// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/docildos/internal/cards"
	"github.com/jeranaias/docildos/internal/model"
	"github.com/jeranaias/docildos/internal/ui/components"
	"github.com/jeranaias/docildos/internal/ui/styles"
	"github.com/jeranaias/docildos/internal/util"
)

// replyPrinter writes assistant messages for the line-mode commands. Styled
// output reuses the dashboard's bubbles and cards; plain output is one
// line per fact so it can be piped.
type replyPrinter struct {
	w        io.Writer
	registry *cards.Registry
	styled   bool
	width    int
	now      func() time.Time

	theme *styles.Theme
	md    *glamour.TermRenderer
}

func newReplyPrinter(w io.Writer, registry *cards.Registry, styled, markdown bool, width int) *replyPrinter {
	p := &replyPrinter{
		w:        w,
		registry: registry,
		styled:   styled,
		width:    width,
		now:      time.Now,
	}
	if styled {
		p.theme = styles.NewTheme()
		if markdown {
			// Without a renderer assistant text is wrapped as plain text.
			p.md, _ = components.NewMarkdownRenderer(p.theme, width-4)
		}
	}
	return p
}

// Print writes one message followed by a blank line.
func (p *replyPrinter) Print(msg model.Message) {
	if p.styled {
		fmt.Fprintln(p.w, components.RenderMessage(p.theme, msg, components.MessageOptions{
			Width:        p.width,
			Now:          p.now(),
			Markdown:     p.md,
			Registry:     p.registry,
			SelectedCard: -1,
		}))
		fmt.Fprintln(p.w)
		return
	}

	if msg.Role == model.RoleUser {
		fmt.Fprintf(p.w, "> %s\n\n", msg.Content)
		return
	}
	if msg.Content != "" {
		fmt.Fprintln(p.w, msg.Content)
	}
	for _, card := range msg.Cards {
		d, err := p.registry.Resolve(card)
		if err != nil {
			continue
		}
		fmt.Fprintln(p.w)
		fmt.Fprint(p.w, plainCard(d, p.now()))
	}
	fmt.Fprintln(p.w)
}

// plainCard renders a resolved card as indented text.
func plainCard(d cards.Descriptor, now time.Time) string {
	var b strings.Builder
	switch v := d.(type) {
	case cards.OrderView:
		o := v.Order
		fmt.Fprintf(&b, "Pedido #%s · %s · %s\n", o.ID, o.Cliente, v.StatusLabel)
		when := util.FormatDeliveryDate(o.DataEntrega, now)
		if o.Horario != "" {
			when += " às " + o.Horario
		}
		if o.Local != "" {
			when += " · " + o.Local
		}
		fmt.Fprintf(&b, "  Entrega: %s\n", when)
		for _, it := range o.Items {
			line := fmt.Sprintf("%dx %s", it.Quantity, it.Name)
			if it.Variant != "" {
				line += " (" + it.Variant + ")"
			}
			fmt.Fprintf(&b, "  %s\n", line)
		}
		if v.Transition != nil {
			fmt.Fprintf(&b, "  Próximo passo: %s\n", v.Transition.Label)
		}

	case cards.RecipeView:
		r := v.Recipe
		fmt.Fprintf(&b, "Ficha técnica: %s\n", r.Name)
		fmt.Fprintf(&b, "  Preparo: %s · Rendimento: %s · Custo: %s\n",
			util.FormatPrepTime(r.PrepTime), r.Yield, util.FormatCurrency(r.EstimatedCost))
		for _, ing := range r.Ingredients {
			fmt.Fprintf(&b, "  - %s: %s %s\n", ing.Name, ing.Quantity, ing.Unit)
		}

	case cards.StatsView:
		b.WriteString("Resumo do dia\n")
		for _, m := range v.Metrics {
			line := fmt.Sprintf("  %s: %s", m.Label, m.Value)
			if m.Subtitle != "" {
				line += " (" + m.Subtitle + ")"
			}
			if m.Trend != nil {
				line += " " + m.Trend.String()
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docildos/internal/cards"
	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/model"
	"github.com/jeranaias/docildos/internal/ui/styles"
)

// Brand is the product name shown in the header and sidebar.
const Brand = "🧁 Docildos"

// =============================================================================
// HEADER
// =============================================================================

// RenderHeader renders the top bar with the current view title.
func RenderHeader(theme *styles.Theme, title, tagline string, width int) string {
	left := theme.HeaderTitle.Render(title)
	if tagline != "" {
		left += "  " + theme.HeaderTagline.Render(tagline)
	}
	return theme.Header.Width(max(width-2, 10)).Render(left)
}

// RenderStatsHeader renders the dashboard counters above the chat. The
// revenue total is left to the stats card.
func RenderStatsHeader(theme *styles.Theme, s model.Stats, width int) string {
	metrics := cards.NewStatsView(s).Metrics
	out := metrics[:0:0]
	for _, m := range metrics {
		if m.Label != "Total Pedidos" {
			out = append(out, m)
		}
	}
	return RenderMetrics(theme, out, width)
}

// =============================================================================
// SIDEBAR
// =============================================================================

// SidebarItem is one navigation entry.
type SidebarItem struct {
	Key    string
	Title  string
	Active bool
}

// RenderSidebar renders the navigation column, width columns wide including
// its border.
func RenderSidebar(theme *styles.Theme, items []SidebarItem, width, height int) string {
	lines := []string{theme.HeaderTitle.Render(Brand), ""}
	for _, it := range items {
		style := theme.SidebarItem
		if it.Active {
			style = theme.SidebarItemActive
		}
		lines = append(lines, style.Render(it.Title)+" "+theme.SidebarKey.Render(it.Key))
	}
	lines = append(lines, "", theme.SidebarKey.Render("ctrl+b ocultar"))
	return theme.Sidebar.
		Width(max(width-1, 10)).
		Height(max(height-2, 0)).
		Render(strings.Join(lines, "\n"))
}

// =============================================================================
// QUICK ACTIONS
// =============================================================================

// RenderQuickActions renders the shortcut chips, wrapping to width.
func RenderQuickActions(theme *styles.Theme, actions []dispatch.QuickAction, width int, disabled bool) string {
	var rows []string
	var row []string
	rowWidth := 0
	for i, qa := range actions {
		label := qa.Label
		if disabled {
			label = theme.InputDisabled.Render(label)
		}
		chip := theme.QuickAction.Render(theme.QuickActionKey.Render(fmt.Sprintf("alt+%d ", i+1)) + label)
		w := lipgloss.Width(chip)
		if rowWidth > 0 && rowWidth+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		row = append(row, chip)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is a key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// RenderStatusBar renders the mode on the left and key hints on the right.
// Hints that do not fit are dropped from the end.
func RenderStatusBar(theme *styles.Theme, left string, shortcuts []Shortcut, width int) string {
	leftText := theme.StatusBar.Render(left)
	avail := width - lipgloss.Width(leftText) - 2

	var hints []string
	used := 0
	for _, s := range shortcuts {
		hint := theme.ShortcutKey.Render(s.Key) + " " + theme.ShortcutDesc.Render(s.Desc)
		w := lipgloss.Width(hint) + 2
		if used+w > avail {
			break
		}
		hints = append(hints, hint)
		used += w
	}
	return spread(leftText, strings.Join(hints, "  "), max(width, 0))
}

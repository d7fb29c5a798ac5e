// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/ui/components"
)

// View renders the chat view.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Carregando..."
	}

	var parts []string
	if header := m.renderStatsHeader(); header != "" {
		parts = append(parts, header)
	}
	parts = append(parts, m.viewport.View(), m.renderFooter())
	base := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.toasts.HasToasts() {
		return m.overlayToasts(base, components.RenderToastStack(m.toasts.Toasts(), m.width))
	}
	return base
}

// =============================================================================
// LAYOUT
// =============================================================================

// layout sizes the viewport to whatever the fixed parts leave over. It
// must run again whenever the footer or the stats header change height.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	fixed := lipgloss.Height(m.renderFooter())
	if header := m.renderStatsHeader(); header != "" {
		fixed += lipgloss.Height(header)
	}

	m.input.Width = max(m.width-6, 10)
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-fixed, 1)

	if m.useMarkdown && m.theme != nil && m.markdownWidth != m.contentWidth() {
		md, err := components.NewMarkdownRenderer(m.theme, m.contentWidth()-4)
		if err != nil {
			m.logger.Warn("markdown renderer unavailable", "error", err)
			md = nil
		}
		m.markdown = md
		m.markdownWidth = m.contentWidth()
	}
}

func (m Model) contentWidth() int {
	return max(m.width-2, 30)
}

// refresh re-renders the transcript into the viewport. The view follows the
// newest message when bottom is set or it was already at the bottom.
func (m *Model) refresh(bottom bool) {
	if m.theme == nil {
		return
	}
	follow := bottom || m.viewport.AtBottom()

	msgs := m.store.Messages()
	blocks := make([]string, 0, len(msgs)+1)
	now := m.now()
	for i, msg := range msgs {
		selected := -1
		if i == m.selMsg {
			selected = m.selCard
		}
		blocks = append(blocks, components.RenderMessage(m.theme, msg, components.MessageOptions{
			Width:        m.contentWidth(),
			Now:          now,
			Markdown:     m.markdown,
			Registry:     m.registry,
			SelectedCard: selected,
		}))
	}
	if m.store.Composing() {
		blocks = append(blocks, components.RenderTyping(m.theme, m.spinner.View()))
	}

	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
	if follow {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m Model) renderStatsHeader() string {
	if !m.showStats || m.stats == nil || m.theme == nil {
		return ""
	}
	return components.RenderStatsHeader(m.theme, *m.stats, m.width)
}

func (m Model) renderFooter() string {
	if m.theme == nil {
		return ""
	}
	busy := m.store.Composing() || m.store.Recording()

	var rows []string
	if len(m.lastActions) > 0 {
		rows = append(rows, m.renderSuggestions())
	}
	rows = append(rows,
		components.RenderQuickActions(m.theme, dispatch.QuickActions, m.width, busy),
		m.renderInput(),
		components.RenderStatusBar(m.theme, m.statusText(), Shortcuts(m.keys.ShortHelp()), m.width),
	)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderSuggestions() string {
	labels := make([]string, 0, len(m.lastActions))
	for _, a := range m.lastActions {
		labels = append(labels, m.theme.QuickAction.Render(a.Label))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(
		m.theme.CardMuted.Render("Sugestões: ") + strings.Join(labels, " "))
}

func (m Model) renderInput() string {
	var line string
	switch {
	case m.store.Recording():
		line = m.theme.RecordingIndicator.Render(m.spinner.View() + " Gravando... pressione ctrl+r para parar")
	case m.store.Composing():
		line = m.theme.InputDisabled.Render(m.input.Prompt + "Aguarde a resposta...")
	default:
		line = m.input.View()
	}
	return m.theme.InputContainer.Width(max(m.width-2, 10)).Render(line)
}

func (m Model) statusText() string {
	parts := []string{}
	if m.modeLabel != "" {
		parts = append(parts, m.modeLabel)
	}
	if view, ok := m.SelectedOrder(); ok {
		parts = append(parts, "Pedido #"+view.Order.ID+" selecionado")
	}
	if len(m.pendingOrder) > 0 {
		parts = append(parts, "atualizando pedido...")
	}
	return strings.Join(parts, " · ")
}

// overlayToasts draws the toast stack over the top-right corner of base.
func (m Model) overlayToasts(base, stack string) string {
	baseLines := strings.Split(base, "\n")
	toastLines := strings.Split(stack, "\n")

	for i, toastLine := range toastLines {
		if i >= len(baseLines) {
			break
		}
		tw := lipgloss.Width(toastLine)
		if tw == 0 {
			continue
		}
		cut := max(m.width-tw-1, 0)
		line := baseLines[i]
		if w := lipgloss.Width(line); w > cut {
			line = lipgloss.NewStyle().MaxWidth(cut).Render(line)
		} else {
			line += strings.Repeat(" ", cut-w)
		}
		baseLines[i] = line + toastLine
	}
	return strings.Join(baseLines, "\n")
}

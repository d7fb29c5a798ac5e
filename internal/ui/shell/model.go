// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docildos/internal/ui/chat"
	"github.com/jeranaias/docildos/internal/ui/components"
	"github.com/jeranaias/docildos/internal/ui/styles"
)

// Tagline is shown next to the view title.
const Tagline = "Gestão Inteligente"

// sidebarWidth includes the sidebar border.
const sidebarWidth = 24

// KeyMap holds the shell-level bindings. They take precedence over chat.
type KeyMap struct {
	Views         []key.Binding
	ToggleSidebar key.Binding
	Quit          key.Binding
}

// DefaultKeyMap maps f1 onwards to Views in order.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		ToggleSidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "sair"),
		),
	}
	for i, v := range Views {
		k := fmt.Sprintf("f%d", i+1)
		km.Views = append(km.Views, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, v.Label()),
		))
	}
	return km
}

// Model is the top-level model.
type Model struct {
	theme *styles.Theme
	keys  KeyMap
	chat  chat.Model

	current     View
	showSidebar bool
	width       int
	height      int
}

// New wraps chatModel. The sidebar starts visible when showSidebar is set.
func New(theme *styles.Theme, chatModel chat.Model, showSidebar bool) Model {
	return Model{
		theme:       theme,
		keys:        DefaultKeyMap(),
		chat:        chatModel,
		current:     ViewChat,
		showSidebar: showSidebar,
	}
}

// Current returns the visible view.
func (m Model) Current() View { return m.current }

// SidebarVisible reports whether the sidebar is shown.
func (m Model) SidebarVisible() bool { return m.showSidebar }

// Chat returns the wrapped chat model.
func (m Model) Chat() chat.Model { return m.chat }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.chat.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.resizeChat()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Dispatch completions, ticks and the like always reach the chat.
	next, cmd := m.chat.Update(msg)
	m.chat = next.(chat.Model)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.showSidebar = !m.showSidebar
		m.resizeChat()
		return m, nil
	}

	for i, b := range m.keys.Views {
		if key.Matches(msg, b) {
			return m.Select(Views[i])
		}
	}

	if m.current != ViewChat {
		return m, nil
	}
	next, cmd := m.chat.Update(msg)
	m.chat = next.(chat.Model)
	return m, cmd
}

// Select switches the visible view. The chat model is kept as is.
func (m Model) Select(v View) (Model, tea.Cmd) {
	if !v.IsValid() || v == m.current {
		return m, nil
	}
	m.current = v
	if v == ViewChat {
		cmd := m.chat.Focus()
		return m, cmd
	}
	m.chat.Blur()
	return m, nil
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m Model) contentWidth() int {
	if m.showSidebar && m.width >= sidebarWidth+40 {
		return m.width - sidebarWidth
	}
	return m.width
}

func (m Model) headerView() string {
	return components.RenderHeader(m.theme, m.current.Title(), Tagline, m.contentWidth())
}

func (m *Model) resizeChat() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := max(m.height-lipgloss.Height(m.headerView()), 1)
	m.chat.SetSize(m.contentWidth(), h)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Carregando..."
	}

	header := m.headerView()
	var body string
	if m.current == ViewChat {
		body = m.chat.View()
	} else {
		body = m.placeholderView(m.height - lipgloss.Height(header))
	}
	main := lipgloss.JoinVertical(lipgloss.Left, header, body)

	if m.contentWidth() == m.width {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), main)
}

func (m Model) sidebarView() string {
	items := make([]components.SidebarItem, 0, len(Views))
	for i, v := range Views {
		items = append(items, components.SidebarItem{
			Key:    m.keys.Views[i].Help().Key,
			Title:  v.Label(),
			Active: v == m.current,
		})
	}
	return components.RenderSidebar(m.theme, items, sidebarWidth, m.height)
}

func (m Model) placeholderView(height int) string {
	width := m.contentWidth()
	text := lipgloss.JoinVertical(lipgloss.Center,
		"🎂",
		"",
		m.theme.PlaceholderTitle.Render(m.current.Title()),
		"",
		m.theme.Placeholder.Width(min(width-4, 48)).Render(m.current.PlaceholderText()),
	)
	return lipgloss.Place(width, max(height, 1), lipgloss.Center, lipgloss.Center, text)
}

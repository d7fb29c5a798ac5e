// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/docildos/internal/conversation"
	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/model"
	"github.com/jeranaias/docildos/internal/ui/chat"
	"github.com/jeranaias/docildos/internal/ui/styles"
)

func newShell(t *testing.T) Model {
	t.Helper()
	now := func() time.Time { return time.Date(2025, 10, 20, 9, 0, 0, 0, time.Local) }
	d := dispatch.NewIntentDispatcher(nil, &dispatch.SampleCatalog{Now: now}, nil)
	store := conversation.New(d, conversation.WithTimeout(0))
	theme := styles.NewTheme()

	m := New(theme, chat.New(theme, store, chat.WithMarkdown(false), chat.WithClock(now)), true)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestView_TitlesAndPlaceholders(t *testing.T) {
	tests := []struct {
		view  View
		label string
		title string
	}{
		{ViewChat, "Chat", "Assistente IA"},
		{ViewOrders, "Pedidos", "Pedidos"},
		{ViewSchedule, "Agenda", "Agenda de Entregas"},
		{ViewRecipes, "Receitas", "Receitas & Cardápio"},
		{ViewInventory, "Estoque", "Controle de Estoque"},
	}
	for _, tc := range tests {
		t.Run(string(tc.view), func(t *testing.T) {
			assert.Equal(t, tc.label, tc.view.Label())
			assert.Equal(t, tc.title, tc.view.Title())
			assert.True(t, tc.view.IsValid())
		})
	}

	assert.Equal(t,
		"Use o chat para gerenciar estoque. Digite ou fale o que precisa e a IA vai te ajudar!",
		ViewInventory.PlaceholderText())
	assert.False(t, View("configuracoes").IsValid())
}

func TestFunctionKeysSwitchViews(t *testing.T) {
	m := newShell(t)
	assert.Equal(t, ViewChat, m.Current())

	keys := []tea.KeyType{tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4, tea.KeyF5}
	for i, k := range keys {
		m, _ = send(t, m, tea.KeyMsg{Type: k})
		assert.Equal(t, Views[i], m.Current())
	}

	out := m.View()
	assert.Contains(t, out, "Controle de Estoque")
	assert.Contains(t, out, "gerenciar estoque")
}

func TestSidebarToggle(t *testing.T) {
	m := newShell(t)
	require.True(t, m.SidebarVisible())
	assert.Contains(t, m.View(), "Receitas")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.False(t, m.SidebarVisible())
	assert.False(t, strings.Contains(m.View(), "ctrl+b ocultar"))
}

func TestKeysOutsideChatAreIgnored(t *testing.T) {
	m := newShell(t)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyF2})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("oi")})
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Chat().Store().Len())
}

func TestReplyLandsWhileAnotherViewIsVisible(t *testing.T) {
	m := newShell(t)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("último pedido")})
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyF3})
	require.Equal(t, ViewSchedule, m.Current())

	var reply conversation.DispatchedMsg
	for _, msg := range runBatch(cmd) {
		if d, ok := msg.(conversation.DispatchedMsg); ok {
			reply = d
		}
	}
	m, _ = send(t, m, reply)

	assert.Equal(t, 3, m.Chat().Store().Len())
	last, _ := m.Chat().Store().Last()
	require.Len(t, last.Cards, 1)
	assert.Equal(t, model.CardOrder, last.Cards[0].Type)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyF1})
	assert.Contains(t, m.View(), "Pedido #001", "the same transcript is shown after switching back")
}

func TestQuit(t *testing.T) {
	m := newShell(t)
	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

// runBatch executes cmd, expanding batches. Commands that block on timers
// are skipped.
func runBatch(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, runBatch(c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

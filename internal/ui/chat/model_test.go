// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/docildos/internal/api"
	"github.com/jeranaias/docildos/internal/conversation"
	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/model"
	"github.com/jeranaias/docildos/internal/ui/styles"
)

var testNow = time.Date(2025, 10, 20, 9, 0, 0, 0, time.Local)

func clock() time.Time { return testNow }

func sampleDispatcher() dispatch.Dispatcher {
	return dispatch.NewIntentDispatcher(nil, &dispatch.SampleCatalog{Now: clock}, nil)
}

func newTestModel(t *testing.T, d dispatch.Dispatcher, opts ...Option) Model {
	t.Helper()
	store := conversation.New(d, conversation.WithTimeout(0))
	base := []Option{WithClock(clock), WithMarkdown(false)}
	m := New(styles.NewTheme(), store, append(base, opts...)...)
	m.SetSize(100, 40)
	return m
}

// run executes cmd and flattens batches. Commands that do not finish
// promptly (cursor blink, tick timers) are abandoned.
func run(cmd tea.Cmd) []tea.Msg {
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
				out = append(out, run(c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// pump feeds the results of cmd back into the model until no more domain
// messages are produced.
func pump(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range run(cmd) {
		switch msg.(type) {
		case conversation.DispatchedMsg, OrderAdvancedMsg, StatsLoadedMsg, VoiceStartedMsg, VoiceStoppedMsg:
			next, c := m.Update(msg)
			m = pump(t, next.(Model), c)
		}
	}
	return m
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func submit(t *testing.T, m Model, text string) Model {
	t.Helper()
	m = typeText(t, m, text)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	return pump(t, m, cmd)
}

// =============================================================================
// SUBMIT
// =============================================================================

func TestSubmit_AppendsUserAndAssistant(t *testing.T) {
	m := newTestModel(t, sampleDispatcher())

	m = typeText(t, m, "me mostra o último pedido")
	assert.Equal(t, "me mostra o último pedido", m.Input())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.Store().Composing())
	assert.Empty(t, m.Input(), "input is cleared on submit")
	assert.Contains(t, m.View(), "digitando")

	m = pump(t, m, cmd)
	assert.False(t, m.Store().Composing())
	require.Equal(t, 3, m.Store().Len())

	last, _ := m.Store().Last()
	assert.Equal(t, model.RoleAssistant, last.Role)
	require.Len(t, last.Cards, 1)
	assert.Equal(t, model.CardOrder, last.Cards[0].Type)
	assert.Contains(t, m.View(), "Pedido #001")
}

func TestSubmit_EmptyInputIsIgnored(t *testing.T) {
	m := newTestModel(t, sampleDispatcher())
	m = typeText(t, m, "   ")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Store().Len())
}

func TestQuickAction_SubmitsCannedText(t *testing.T) {
	m := newTestModel(t, sampleDispatcher())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}, Alt: true})
	require.NotNil(t, cmd)
	m = pump(t, m, cmd)

	msgs := m.Store().Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, dispatch.QuickActions[0].Text, msgs[1].Content)
	assert.Equal(t, dispatch.ReplyOrder, msgs[2].Content)
}

// =============================================================================
// ERRORS AND RESET
// =============================================================================

func TestDispatchFailure_RaisesToast(t *testing.T) {
	failing := dispatch.DispatcherFunc(func(context.Context, string) (dispatch.Reply, error) {
		return dispatch.Reply{}, fmt.Errorf("%w: dial tcp: connection refused", api.ErrNetwork)
	})
	m := newTestModel(t, failing)
	m = submit(t, m, "oi")

	last, _ := m.Store().Last()
	assert.Equal(t, "Erro de conexão com o servidor.", last.Content)
	require.Len(t, m.Toasts(), 1)
	assert.Contains(t, m.Toasts()[0].Message, "Verifique se o backend está rodando")
	assert.True(t, m.ticking)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.Toasts())
}

func TestClientError_NoToast(t *testing.T) {
	failing := dispatch.DispatcherFunc(func(context.Context, string) (dispatch.Reply, error) {
		return dispatch.Reply{}, &api.Error{Status: 404, StatusText: "Not Found", Detail: "Pedido não encontrado"}
	})
	m := newTestModel(t, failing)
	m = submit(t, m, "oi")

	last, _ := m.Store().Last()
	assert.Equal(t, "Recurso não encontrado.", last.Content)
	assert.Empty(t, m.Toasts())
}

func TestReset_DropsPendingReply(t *testing.T) {
	m := newTestModel(t, sampleDispatcher())
	m = typeText(t, m, "resumo de hoje")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.False(t, m.Store().Composing())

	m = pump(t, m, cmd)
	assert.Equal(t, 1, m.Store().Len(), "a reply from before the reset must not land")
}

// =============================================================================
// VOICE
// =============================================================================

func TestVoice_DisablesInputWhileRecording(t *testing.T) {
	var started, stopped bool
	hooks := VoiceHooks{
		Start: func(context.Context) error { started = true; return nil },
		Stop: func(context.Context) (string, error) {
			stopped = true
			return "receita de brigadeiro", nil
		},
	}
	m := newTestModel(t, sampleDispatcher(), WithVoice(hooks))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m = pump(t, m, cmd)
	assert.True(t, started)
	assert.True(t, m.Store().Recording())
	assert.Contains(t, m.View(), "Gravando")

	m = typeText(t, m, "abc")
	assert.Empty(t, m.Input(), "typing is ignored while recording")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Store().Len())

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m = pump(t, m, cmd)
	assert.True(t, stopped)
	assert.False(t, m.Store().Recording())
	assert.Equal(t, "receita de brigadeiro", m.Input())
}

func TestVoice_StartFailureStopsRecording(t *testing.T) {
	hooks := VoiceHooks{Start: func(context.Context) error { return errors.New("no microphone") }}
	m := newTestModel(t, sampleDispatcher(), WithVoice(hooks))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m = pump(t, m, cmd)
	assert.False(t, m.Store().Recording())
	assert.Len(t, m.Toasts(), 1)
}

// =============================================================================
// ORDER CARDS
// =============================================================================

func TestAdvance_LocalAcknowledges(t *testing.T) {
	m := newTestModel(t, sampleDispatcher())
	m = submit(t, m, "último pedido")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	view, ok := m.SelectedOrder()
	require.True(t, ok)
	assert.Equal(t, "001", view.Order.ID)
	assert.Contains(t, m.View(), "Pedido #001 selecionado")
	n := m.Store().Len()

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	m = pump(t, m, cmd)
	require.Equal(t, n+1, m.Store().Len())
	last, _ := m.Store().Last()
	assert.Equal(t, "Perfeito! ✅ Pedido #001 foi marcado em produção. Precisa de mais alguma coisa?", last.Content)

	view, ok = m.SelectedOrder()
	require.True(t, ok)
	assert.Equal(t, model.StatusNovo, view.Order.Status, "card keeps the status it was sent with")
	assert.Equal(t, "Novo", view.StatusLabel)
	assert.Contains(t, m.View(), "Iniciar Produção")
}

func TestAdvance_SameCardTwice(t *testing.T) {
	catalog := &dispatch.SampleCatalog{Now: clock}
	m := newTestModel(t, sampleDispatcher(), WithOrderUpdater(catalog))
	m = submit(t, m, "pedido")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	m = pump(t, m, cmd)
	n := m.Store().Len()

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	m = pump(t, m, cmd)
	assert.Equal(t, n, m.Store().Len())
	assert.Len(t, catalog.Updates(), 1, "a stale card does not send its transition again")
	require.NotEmpty(t, m.Toasts())
	assert.Contains(t, m.Toasts()[0].Message, "já foi atualizado")
}

// statusCatalog serves the sample order with a status the test controls.
type statusCatalog struct {
	dispatch.SampleCatalog
	status model.OrderStatus
}

func (c *statusCatalog) LatestOrder(ctx context.Context) (model.Order, error) {
	o, err := c.SampleCatalog.LatestOrder(ctx)
	o.Status = c.status
	return o, err
}

func TestAdvance_RequeryShowsBackendStatus(t *testing.T) {
	catalog := &statusCatalog{SampleCatalog: dispatch.SampleCatalog{Now: clock}, status: model.StatusNovo}
	d := dispatch.NewIntentDispatcher(nil, catalog, nil)
	m := newTestModel(t, d, WithOrderUpdater(catalog))
	m = submit(t, m, "pedido")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	m = pump(t, m, cmd)
	assert.Equal(t, []dispatch.StatusUpdate{{OrderID: "001", Status: model.StatusProducao}}, catalog.Updates())

	// Someone else moved the order on while this one was acknowledged.
	catalog.status = model.StatusPronto
	m = submit(t, m, "pedido")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	view, ok := m.SelectedOrder()
	require.True(t, ok)
	assert.Equal(t, model.StatusPronto, view.Order.Status)
	assert.Equal(t, "Pronto", view.StatusLabel)
	assert.Contains(t, m.View(), "Confirmar Entrega")

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	m = pump(t, m, cmd)
	updates := catalog.Updates()
	require.Len(t, updates, 2)
	assert.Equal(t, model.StatusEntregue, updates[1].Status)
	last, _ := m.Store().Last()
	assert.Contains(t, last.Content, "foi marcado como entregue")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	view, ok = m.SelectedOrder()
	require.True(t, ok)
	assert.Equal(t, model.StatusNovo, view.Order.Status, "older card is left as it was drawn")
}

func TestAdvance_DeliveredOrderIsFinal(t *testing.T) {
	catalog := &statusCatalog{SampleCatalog: dispatch.SampleCatalog{Now: clock}, status: model.StatusEntregue}
	m := newTestModel(t, dispatch.NewIntentDispatcher(nil, catalog, nil))
	m = submit(t, m, "pedido")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	n := m.Store().Len()

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.Equal(t, n, m.Store().Len())
	require.NotEmpty(t, m.Toasts())
	assert.Contains(t, m.Toasts()[0].Message, "já foi entregue")
}

func TestAdvance_WithoutSelection(t *testing.T) {
	m := newTestModel(t, sampleDispatcher())
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})

	assert.Equal(t, 1, m.Store().Len())
	require.Len(t, m.Toasts(), 1)
	assert.Contains(t, m.Toasts()[0].Message, "ctrl+n")
}

func TestAdvance_SendsToBackend(t *testing.T) {
	catalog := &dispatch.SampleCatalog{Now: clock}
	m := newTestModel(t, sampleDispatcher(), WithOrderUpdater(catalog))
	m = submit(t, m, "pedido")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "atualizando pedido")

	m = pump(t, m, cmd)
	assert.Equal(t, []dispatch.StatusUpdate{{OrderID: "001", Status: model.StatusProducao}}, catalog.Updates())
	last, _ := m.Store().Last()
	assert.Contains(t, last.Content, "Pedido #001 foi marcado em produção")
}

type failingUpdater struct{ err error }

func (f failingUpdater) UpdateOrderStatus(context.Context, string, model.OrderStatus) error {
	return f.err
}

func TestAdvance_BackendFailureKeepsStatus(t *testing.T) {
	updater := failingUpdater{err: &api.Error{Status: 500, StatusText: "Internal Server Error"}}
	m := newTestModel(t, sampleDispatcher(), WithOrderUpdater(updater))
	m = submit(t, m, "pedido")
	n := m.Store().Len()

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	m = pump(t, m, cmd)

	assert.Equal(t, n, m.Store().Len(), "no acknowledgment on failure")
	view, ok := m.SelectedOrder()
	require.True(t, ok)
	assert.Equal(t, model.StatusNovo, view.Order.Status)
	require.Len(t, m.Toasts(), 1)
	assert.Equal(t, "Erro interno do servidor. Tente novamente mais tarde.", m.Toasts()[0].Message)
}

func TestSelection_MovesBetweenCards(t *testing.T) {
	m := newTestModel(t, sampleDispatcher())
	m = submit(t, m, "pedido")
	m = submit(t, m, "receita de bolo")
	m = submit(t, m, "pedido")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, 6, m.selMsg, "starts at the newest order card")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, 2, m.selMsg)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, 2, m.selMsg, "stays on the oldest card")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	_, ok := m.SelectedOrder()
	assert.False(t, ok)
}

// =============================================================================
// STATS HEADER
// =============================================================================

func TestInit_LoadsStats(t *testing.T) {
	m := newTestModel(t, sampleDispatcher(), WithCatalog(&dispatch.SampleCatalog{Now: clock}))
	m = pump(t, m, m.Init())

	stats, ok := m.Stats()
	require.True(t, ok)
	assert.Equal(t, 8, stats.PedidosHoje)
	assert.Contains(t, m.View(), "Pedidos Hoje")
}

func TestInit_HiddenStatsHeader(t *testing.T) {
	m := newTestModel(t, sampleDispatcher(),
		WithCatalog(&dispatch.SampleCatalog{Now: clock}),
		WithStatsHeader(false))
	m = pump(t, m, m.Init())

	_, ok := m.Stats()
	assert.False(t, ok)
	assert.False(t, strings.Contains(m.View(), "Estoque Baixo"))
}

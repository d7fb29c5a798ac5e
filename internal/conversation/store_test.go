// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/docildos/internal/api"
	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/errmap"
	"github.com/jeranaias/docildos/internal/model"
)

func newLocalStore() *Store {
	return New(dispatch.NewIntentDispatcher(nil, &dispatch.SampleCatalog{}, nil))
}

func run(t *testing.T, cmd tea.Cmd) DispatchedMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(DispatchedMsg)
	require.True(t, ok)
	return msg
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmit_AppendsUserThenAssistant(t *testing.T) {
	s := newLocalStore()
	require.Equal(t, 1, s.Len())

	cmd := s.Submit("  Me mostra o último pedido  ")
	assert.True(t, s.Composing())
	assert.Equal(t, 2, s.Len())

	last, _ := s.Last()
	assert.Equal(t, model.RoleUser, last.Role)
	assert.Equal(t, "Me mostra o último pedido", last.Content)

	out := s.Complete(run(t, cmd))
	assert.False(t, s.Composing())
	assert.False(t, out.Stale)
	assert.Nil(t, out.Notice)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, model.RoleAssistant, out.Message.Role)
	require.Len(t, out.Message.Cards, 1)
	assert.Equal(t, model.CardOrder, out.Message.Cards[0].Type)
}

func TestSubmit_NoOps(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Store)
		text  string
	}{
		{"empty", func(*Store) {}, ""},
		{"whitespace", func(*Store) {}, " \t\n "},
		{"composing", func(s *Store) { s.Submit("oi") }, "de novo"},
		{"recording", func(s *Store) { s.SetVoiceCapture(true) }, "oi"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newLocalStore()
			tc.setup(s)
			before := s.Len()
			composing := s.Composing()

			assert.Nil(t, s.Submit(tc.text))
			assert.Equal(t, before, s.Len())
			assert.Equal(t, composing, s.Composing())
		})
	}
}

func TestSubmit_KeywordCards(t *testing.T) {
	tests := []struct {
		text string
		want []model.CardType
	}{
		{"PEDIDO", []model.CardType{model.CardOrder}},
		{"Ficha técnica do panetone", []model.CardType{model.CardRecipe}},
		{"resumo de hoje", []model.CardType{model.CardStats}},
		{"obrigada!", nil},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			s := newLocalStore()
			out, ok := s.SubmitAndWait(tc.text)
			require.True(t, ok)

			var got []model.CardType
			for _, c := range out.Message.Cards {
				got = append(got, c.Type)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTriggerQuickAction(t *testing.T) {
	s := newLocalStore()
	assert.Nil(t, s.TriggerQuickAction("desconhecida"))
	assert.Equal(t, 1, s.Len())

	cmd := s.TriggerQuickAction("pedidos-hoje")
	require.NotNil(t, cmd)
	last, _ := s.Last()
	assert.Equal(t, "Me mostra os pedidos de hoje", last.Content)

	out := s.Complete(run(t, cmd))
	require.Len(t, out.Message.Cards, 1)
	assert.Equal(t, model.CardOrder, out.Message.Cards[0].Type)
}

// =============================================================================
// FAILURE TESTS
// =============================================================================

func TestComplete_MapsErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantText  string
		wantToast bool
	}{
		{"network", fmt.Errorf("%w: dial tcp: refused", api.ErrNetwork), errmap.MsgNetwork, true},
		{"server", &api.Error{Status: http.StatusBadGateway, StatusText: "Bad Gateway"}, errmap.MsgServer, true},
		{"not found", &api.Error{Status: http.StatusNotFound}, errmap.MsgNotFound, false},
		{"unknown", errors.New("algo quebrou"), "algo quebrou", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(dispatch.DispatcherFunc(func(context.Context, string) (dispatch.Reply, error) {
				return dispatch.Reply{}, tc.err
			}))
			out, ok := s.SubmitAndWait("oi")
			require.True(t, ok)

			assert.False(t, s.Composing())
			assert.Equal(t, 3, s.Len())
			assert.Equal(t, model.RoleAssistant, out.Message.Role)
			assert.Equal(t, tc.wantText, out.Message.Content)
			require.NotNil(t, out.Notice)
			assert.Equal(t, tc.wantToast, out.HasToast())
		})
	}
}

func TestComplete_RecoversPanics(t *testing.T) {
	s := New(dispatch.DispatcherFunc(func(context.Context, string) (dispatch.Reply, error) {
		panic("kaboom")
	}))
	msg := run(t, s.Submit("oi"))
	assert.ErrorIs(t, msg.Err, ErrDispatchPanic)

	out := s.Complete(msg)
	assert.False(t, s.Composing())
	assert.Contains(t, out.Message.Content, "kaboom")
}

func TestReset_DropsPendingReply(t *testing.T) {
	s := newLocalStore()
	cmd := s.Submit("pedido")
	s.SetVoiceCapture(true)

	s.Reset()
	assert.False(t, s.Composing())
	assert.False(t, s.Recording())
	assert.Equal(t, 1, s.Len())

	out := s.Complete(run(t, cmd))
	assert.True(t, out.Stale)
	assert.Equal(t, 1, s.Len())

	first, _ := s.Last()
	assert.Equal(t, model.Greeting, first.Content)
}

// =============================================================================
// STATUS CHANGE TESTS
// =============================================================================

func TestReportOrderStatusChange(t *testing.T) {
	s := newLocalStore()
	before := s.Messages()

	msg, err := s.ReportOrderStatusChange("001", model.StatusProducao)
	require.NoError(t, err)
	assert.Equal(t, "Perfeito! ✅ Pedido #001 foi marcado em produção. Precisa de mais alguma coisa?", msg.Content)
	assert.Equal(t, len(before)+1, s.Len())
	assert.Equal(t, before, s.Messages()[:len(before)])

	msg, err = s.ReportOrderStatusChange("#7", model.StatusEntregue)
	require.NoError(t, err)
	assert.Contains(t, msg.Content, "Pedido #7 foi marcado como entregue.")
}

func TestReportOrderStatusChange_Rejects(t *testing.T) {
	s := newLocalStore()
	for _, status := range []model.OrderStatus{model.StatusNovo, "cancelado", ""} {
		_, err := s.ReportOrderStatusChange("001", status)
		assert.ErrorIs(t, err, ErrInvalidStatusChange, string(status))
	}
	_, err := s.ReportOrderStatusChange("  ", model.StatusPronto)
	assert.ErrorIs(t, err, ErrInvalidStatusChange)
	assert.Equal(t, 1, s.Len())
}

func TestSetVoiceCapture(t *testing.T) {
	s := newLocalStore()
	s.SetVoiceCapture(true)
	assert.True(t, s.Recording())
	assert.Nil(t, s.Submit("oi"))

	s.SetVoiceCapture(false)
	assert.NotNil(t, s.Submit("oi"))
}

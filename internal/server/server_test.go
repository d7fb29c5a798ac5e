// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/docildos/internal/api"
	"github.com/jeranaias/docildos/internal/cards"
	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/logging"
	"github.com/jeranaias/docildos/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fixedNow is noon on the reference day of the seed data.
func fixedNow() time.Time {
	return time.Date(2025, 10, 20, 12, 0, 0, 0, time.Local)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := NewStore(fixedNow)
	store.Seed()
	return NewServer("", store)
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type detailBody struct {
	Detail string `json:"detail"`
}

type issuesBody struct {
	Detail []ValidationIssue `json:"detail"`
}

func orderIDs(orders []api.Pedido) []int {
	ids := make([]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

// =============================================================================
// HEALTH AND ROUTING
// =============================================================================

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(t).Handler(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	w := do(t, newTestServer(t).Handler(), http.MethodGet, "/api/estoque", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not Found", decode[detailBody](t, w).Detail)
}

// =============================================================================
// PEDIDOS
// =============================================================================

func TestListOrders(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"all, latest delivery first", "", []int{1, 3, 2, 4}},
		{"status", "?status=novo", []int{1, 3}},
		{"cliente ignores case", "?cliente=SILVA", []int{1}},
		{"date range", "?data_inicio=2025-10-20&data_fim=2025-10-20", []int{3, 2}},
		{"from date", "?data_inicio=2025-10-21", []int{1}},
		{"no match", "?status=cancelado", []int{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, http.MethodGet, "/api/pedidos"+tc.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.want, orderIDs(decode[[]api.Pedido](t, w)))
		})
	}
}

func TestListOrders_InvalidFilters(t *testing.T) {
	h := newTestServer(t).Handler()

	for _, query := range []string{"?status=voando", "?data_inicio=20/10/2025", "?data_fim=amanha"} {
		t.Run(query, func(t *testing.T) {
			w := do(t, h, http.MethodGet, "/api/pedidos"+query, nil)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			issues := decode[issuesBody](t, w).Detail
			require.Len(t, issues, 1)
			assert.Equal(t, "query", issues[0].Loc[0])
		})
	}
}

func TestGetOrder(t *testing.T) {
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodGet, "/api/pedidos/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	order := decode[api.Pedido](t, w)
	assert.Equal(t, "Nicole Silva", order.Cliente)
	assert.Equal(t, "2025-10-21", order.DataEntrega)
	require.Len(t, order.Itens, 2)
	require.NotNil(t, order.Itens[0].ReceitaNome)
	assert.Equal(t, "Chocotone 500g", *order.Itens[0].ReceitaNome)

	w = do(t, h, http.MethodGet, "/api/pedidos/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Pedido não encontrado", decode[detailBody](t, w).Detail)

	w = do(t, h, http.MethodGet, "/api/pedidos/abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"path", "id"}, decode[issuesBody](t, w).Detail[0].Loc)
}

func TestCreateOrder(t *testing.T) {
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodPost, "/api/pedidos", map[string]any{
		"cliente":      "Beatriz Costa",
		"data_entrega": "2025-10-25",
		"horario":      "14:00",
		"itens":        []map[string]any{{"receita_id": SeedPanetone, "quantidade": 2}},
		"preco_total":  57,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	order := decode[api.Pedido](t, w)
	assert.Equal(t, 5, order.ID)
	assert.Equal(t, api.StatusNovo, order.Status)
	require.NotNil(t, order.Horario)
	assert.Equal(t, "14:00:00", *order.Horario)
	require.NotNil(t, order.PrecoTotal)
	assert.InDelta(t, 57, float64(*order.PrecoTotal), 0.001)
	require.Len(t, order.Itens, 1)
	assert.Equal(t, "Panetone 500g Recheado", *order.Itens[0].ReceitaNome)

	w = do(t, h, http.MethodGet, "/api/pedidos?cliente=beatriz", nil)
	assert.Equal(t, []int{5}, orderIDs(decode[[]api.Pedido](t, w)))
}

func TestCreateOrder_Validation(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name    string
		body    any
		wantLoc []string
		wantTyp string
	}{
		{
			name:    "missing cliente",
			body:    map[string]any{"data_entrega": "2025-10-25", "itens": []map[string]any{{"receita_id": 1, "quantidade": 1}}},
			wantLoc: []string{"body", "cliente"},
			wantTyp: "required",
		},
		{
			name:    "bad date",
			body:    map[string]any{"cliente": "X", "data_entrega": "25/10/2025", "itens": []map[string]any{{"receita_id": 1, "quantidade": 1}}},
			wantLoc: []string{"body", "data_entrega"},
			wantTyp: "datetime",
		},
		{
			name:    "zero quantity",
			body:    map[string]any{"cliente": "X", "data_entrega": "2025-10-25", "itens": []map[string]any{{"receita_id": 1, "quantidade": 0}}},
			wantLoc: []string{"body", "itens[0]", "quantidade"},
			wantTyp: "required",
		},
		{
			name:    "malformed json",
			body:    `{"cliente":`,
			wantLoc: []string{"body"},
			wantTyp: "json_invalid",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/pedidos", tc.body)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			issues := decode[issuesBody](t, w).Detail
			require.NotEmpty(t, issues)
			assert.Equal(t, tc.wantLoc, issues[0].Loc)
			assert.Equal(t, tc.wantTyp, issues[0].Type)
		})
	}
}

func TestCreateOrder_UnknownRecipe(t *testing.T) {
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodPost, "/api/pedidos", map[string]any{
		"cliente":      "X",
		"data_entrega": "2025-10-25",
		"itens":        []map[string]any{{"receita_id": 99, "quantidade": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Pedido inválido: receita 99 não encontrada", decode[detailBody](t, w).Detail)
}

func TestUpdateOrderStatus(t *testing.T) {
	h := newTestServer(t).Handler()
	patch := func(target, status string) *httptest.ResponseRecorder {
		return do(t, h, http.MethodPatch, target, map[string]string{"status": status})
	}

	w := patch("/api/pedidos/1/status", "em_producao")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, api.StatusEmProducao, decode[api.Pedido](t, w).Status)

	w = patch("/api/pedidos/1/status", "novo")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Transição de status inválida: em_producao → novo", decode[detailBody](t, w).Detail)

	w = patch("/api/pedidos/1/status", "entregue")
	assert.Equal(t, http.StatusOK, w.Code, "skipping a stage is still forward")

	w = patch("/api/pedidos/4/status", "cancelado")
	assert.Equal(t, http.StatusBadRequest, w.Code, "delivered orders are final")

	w = patch("/api/pedidos/3/status", "cancelado")
	assert.Equal(t, http.StatusOK, w.Code)

	w = patch("/api/pedidos/2/status", "voando")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "oneof", decode[issuesBody](t, w).Detail[0].Type)

	w = patch("/api/pedidos/99/status", "pronto")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to api.StatusPedido
		want     bool
	}{
		{api.StatusNovo, api.StatusEmProducao, true},
		{api.StatusEmProducao, api.StatusPronto, true},
		{api.StatusPronto, api.StatusEntregue, true},
		{api.StatusNovo, api.StatusPronto, true},
		{api.StatusNovo, api.StatusNovo, false},
		{api.StatusPronto, api.StatusEmProducao, false},
		{api.StatusEntregue, api.StatusPronto, false},
		{api.StatusNovo, api.StatusCancelado, true},
		{api.StatusEntregue, api.StatusCancelado, false},
		{api.StatusCancelado, api.StatusNovo, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, canTransition(tc.from, tc.to))
		})
	}
}

// =============================================================================
// RECEITAS, STATS, AGENDA
// =============================================================================

func TestRecipes(t *testing.T) {
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodGet, "/api/receitas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]api.Receita](t, w), 4)

	w = do(t, h, http.MethodGet, "/api/receitas?nome=PANE", nil)
	recipes := decode[[]api.Receita](t, w)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Panetone 500g Recheado", recipes[0].Nome)

	w = do(t, h, http.MethodGet, "/api/receitas/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	recipe := decode[api.Receita](t, w)
	require.Len(t, recipe.Ingredientes, 6)
	assert.Equal(t, "Farinha", *recipe.Ingredientes[0].IngredienteNome)
	assert.InDelta(t, 28.5, float64(*recipe.CustoEstimado), 0.001)

	w = do(t, h, http.MethodGet, "/api/receitas/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Receita não encontrada", decode[detailBody](t, w).Detail)
}

func TestStats(t *testing.T) {
	w := do(t, newTestServer(t).Handler(), http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stats := decode[api.Stats](t, w)
	assert.Equal(t, 2, stats.PedidosHoje)
	assert.Equal(t, 1, stats.PedidosNovos)
	assert.Equal(t, 2, stats.EntregasPendentes, "today 17:30 and tomorrow 15:00 are still ahead")
	assert.Equal(t, 1, stats.EmProducao)
	assert.Equal(t, 2, stats.EstoqueBaixo)
	require.NotNil(t, stats.TotalPedidosHoje)
	assert.InDelta(t, 215, float64(*stats.TotalPedidosHoje), 0.001)
	require.NotNil(t, stats.TendenciaPedidos, "one order yesterday, two today")
	assert.InDelta(t, 100, *stats.TendenciaPedidos, 0.001)
}

func TestStats_EmptyStore(t *testing.T) {
	srv := NewServer("", NewStore(fixedNow))
	w := do(t, srv.Handler(), http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[api.Stats](t, w)
	assert.Nil(t, stats.TotalPedidosHoje)
	assert.Nil(t, stats.TendenciaPedidos)
}

func TestAgenda(t *testing.T) {
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodGet, "/api/agenda", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]api.AgendaEntrega](t, w)
	require.Len(t, entries, 4)
	assert.Equal(t, []int{4, 2, 3, 1}, []int{entries[0].PedidoID, entries[1].PedidoID, entries[2].PedidoID, entries[3].PedidoID})
	require.NotNil(t, entries[3].PedidoCliente)
	assert.Equal(t, "Nicole Silva", *entries[3].PedidoCliente)
	assert.Equal(t, "2025-10-21T15:00:00", entries[3].DataHora)

	w = do(t, h, http.MethodGet, "/api/agenda?data_inicio=2025-10-20", nil)
	assert.Len(t, decode[[]api.AgendaEntrega](t, w), 3)
}

// =============================================================================
// CHAT
// =============================================================================

func TestChat(t *testing.T) {
	h := newTestServer(t).Handler()
	registry := cards.NewRegistry()

	tests := []struct {
		name      string
		message   string
		wantText  string
		wantCard  model.CardType
		checkCard func(t *testing.T, d cards.Descriptor)
	}{
		{
			name:     "latest order",
			message:  "Me mostra o último pedido",
			wantText: dispatch.ReplyOrder,
			wantCard: model.CardOrder,
			checkCard: func(t *testing.T, d cards.Descriptor) {
				view := d.(cards.OrderView)
				assert.Equal(t, "001", view.Order.ID)
				assert.Equal(t, "Nicole Silva", view.Order.Cliente)
				assert.Equal(t, "15:00", view.Order.Horario)
			},
		},
		{
			name:     "recipe by name",
			message:  "Ficha técnica do bolo",
			wantText: dispatch.ReplyRecipe,
			wantCard: model.CardRecipe,
			checkCard: func(t *testing.T, d cards.Descriptor) {
				assert.Equal(t, "Bolo de Cenoura", d.(cards.RecipeView).Recipe.Name)
			},
		},
		{
			name:     "stats",
			message:  "como está hoje?",
			wantText: dispatch.ReplyStats,
			wantCard: model.CardStats,
			checkCard: func(t *testing.T, d cards.Descriptor) {
				stats := d.(cards.StatsView).Stats
				assert.Equal(t, 2, stats.PedidosHoje)
				require.NotNil(t, stats.TendenciaPedidos)
				assert.InDelta(t, 100, *stats.TendenciaPedidos, 0.001)
			},
		},
		{
			name:     "acknowledge",
			message:  "olá",
			wantText: dispatch.ReplyAcknowledge,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/chat", api.ChatRequest{Message: tc.message})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Session-ID"))

			resp := decode[api.ChatResponse](t, w)
			assert.Equal(t, tc.wantText, resp.Response)
			if tc.wantCard == "" {
				assert.Empty(t, resp.Cards)
				return
			}
			require.Len(t, resp.Cards, 1)
			card := model.Card{Type: model.CardType(resp.Cards[0].Type), Data: resp.Cards[0].Data}
			assert.Equal(t, tc.wantCard, card.Type)
			d, err := registry.Resolve(card)
			require.NoError(t, err)
			tc.checkCard(t, d)
		})
	}
}

func TestChat_SessionAndValidation(t *testing.T) {
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodPost, "/api/chat", api.ChatRequest{Message: "oi", SessionID: "sessao-1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sessao-1", w.Header().Get("X-Session-ID"))

	for _, msg := range []string{"", "   "} {
		w = do(t, h, http.MethodPost, "/api/chat", api.ChatRequest{Message: msg})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, "message %q", msg)
		assert.Equal(t, []string{"body", "message"}, decode[issuesBody](t, w).Detail[0].Loc)
	}
}

func TestChat_DispatchError(t *testing.T) {
	srv := newTestServer(t).WithDispatcher(dispatch.DispatcherFunc(func(context.Context, string) (dispatch.Reply, error) {
		return dispatch.Reply{}, errors.New("boom")
	}))
	w := do(t, srv.Handler(), http.MethodPost, "/api/chat", api.ChatRequest{Message: "oi"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Erro ao processar a mensagem", decode[detailBody](t, w).Detail)
}

// =============================================================================
// CLIENT ROUND TRIP
// =============================================================================

func TestClientRoundTrip(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	t.Cleanup(ts.Close)
	client := api.NewClient(ts.URL).WithMaxRetries(0)
	ctx := context.Background()

	t.Run("catalog", func(t *testing.T) {
		catalog := dispatch.NewAPICatalog(client, nil)
		order, err := catalog.LatestOrder(ctx)
		require.NoError(t, err)
		assert.Equal(t, "001", order.ID)
		assert.Equal(t, model.StatusNovo, order.Status)

		require.NoError(t, catalog.UpdateOrderStatus(ctx, "003", model.StatusProducao))
		p, err := client.GetOrder(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, api.StatusEmProducao, p.Status)
	})

	t.Run("error detail", func(t *testing.T) {
		_, err := client.UpdateOrderStatus(ctx, 4, api.StatusNovo)
		var apiErr *api.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "Transição de status inválida: entregue → novo", apiErr.Detail)
	})

	t.Run("remote dispatcher", func(t *testing.T) {
		d := dispatch.NewRemoteDispatcher(client, nil, "", nil)
		reply, err := d.Dispatch(ctx, "receita de panetone")
		require.NoError(t, err)
		assert.Equal(t, dispatch.ReplyRecipe, reply.Text)
		require.Len(t, reply.Cards, 1)
		assert.Empty(t, reply.Rejected)
	})
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func TestRateLimitMiddleware(t *testing.T) {
	h := newTestServer(t).WithRateLimit(1, 1).Handler()

	w := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "Muitas requisições. Tente novamente em instantes.", decode[detailBody](t, w).Detail)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 2)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per client")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"), "one token refilled")
	assert.Equal(t, 2, rl.Clients())
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	for range 100 {
		require.True(t, rl.Allow("10.0.0.1"))
	}
	assert.Zero(t, rl.Clients())
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware(logging.Discard()))
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := do(t, r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Erro interno do servidor", decode[detailBody](t, w).Detail)
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, DefaultAddr, srv.Addr())
	assert.NoError(t, srv.Shutdown(context.Background()))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/jeranaias/docildos/internal/api"
)

// Wire layouts used by the backend.
const (
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04:05"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// Store errors. The message is what clients see in "detail".
var (
	ErrOrderNotFound  = errors.New("Pedido não encontrado")
	ErrRecipeNotFound = errors.New("Receita não encontrada")
	ErrInvalidOrder   = errors.New("Pedido inválido")
)

// TransitionError is returned when a status change would move an order
// backwards or out of a final state.
type TransitionError struct {
	From api.StatusPedido
	To   api.StatusPedido
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Transição de status inválida: %s → %s", e.From, e.To)
}

// FilterError reports a query parameter that could not be parsed.
type FilterError struct {
	Param string
	Value string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("Parâmetro %s inválido: %q", e.Param, e.Value)
}

// statusRank orders the production stages. Cancelled orders sit outside the
// sequence.
var statusRank = map[api.StatusPedido]int{
	api.StatusNovo:       0,
	api.StatusEmProducao: 1,
	api.StatusPronto:     2,
	api.StatusEntregue:   3,
}

// canTransition reports whether an order may move from one status to
// another. Stages only move forward; any open order may be cancelled.
func canTransition(from, to api.StatusPedido) bool {
	if from == api.StatusEntregue || from == api.StatusCancelado {
		return false
	}
	if to == api.StatusCancelado {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	return ok && toRank > fromRank
}

// stockItem is an inventory line. Only the low-stock counter reads it.
type stockItem struct {
	Nome            string
	QuantidadeAtual float64
	PontoReposicao  float64
}

// =============================================================================
// STORE
// =============================================================================

// Store is the in-memory data behind the dev backend. It is safe for
// concurrent use and satisfies the catalog's backend interface, so the chat
// endpoint answers from the same data the REST endpoints serve.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	pedidos      map[int]api.Pedido
	receitas     map[int]api.Receita
	ingredientes map[int]string
	agenda       []api.AgendaEntrega
	estoque      []stockItem

	nextPedido int
	nextItem   int
}

// NewStore creates an empty store. A nil clock means time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:          now,
		pedidos:      make(map[int]api.Pedido),
		receitas:     make(map[int]api.Receita),
		ingredientes: make(map[int]string),
		nextPedido:   1,
		nextItem:     1,
	}
}

// =============================================================================
// PEDIDOS
// =============================================================================

// ListOrders returns the orders matching f, latest delivery date first.
func (s *Store) ListOrders(_ context.Context, f api.OrderFilter) ([]api.Pedido, error) {
	if err := checkDateRange(f.DataInicio, f.DataFim); err != nil {
		return nil, err
	}
	if f.Status != "" && f.Status != api.StatusCancelado {
		if _, ok := statusRank[f.Status]; !ok {
			return nil, &FilterError{Param: "status", Value: string(f.Status)}
		}
	}
	cliente := cases.Fold().String(f.Cliente)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.Pedido, 0, len(s.pedidos))
	for _, p := range s.pedidos {
		switch {
		case f.DataInicio != "" && p.DataEntrega < f.DataInicio:
			continue
		case f.DataFim != "" && p.DataEntrega > f.DataFim:
			continue
		case f.Status != "" && p.Status != f.Status:
			continue
		case cliente != "" && !strings.Contains(cases.Fold().String(p.Cliente), cliente):
			continue
		}
		out = append(out, s.withNames(p))
	}
	slices.SortFunc(out, func(a, b api.Pedido) int {
		if c := cmp.Compare(b.DataEntrega, a.DataEntrega); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

// GetOrder returns one order.
func (s *Store) GetOrder(_ context.Context, id int) (*api.Pedido, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pedidos[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	p = s.withNames(p)
	return &p, nil
}

// CreateOrder registers a new order with status "novo". Every item must
// reference a known recipe.
func (s *Store) CreateOrder(_ context.Context, in api.PedidoCreate) (*api.Pedido, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range in.Itens {
		if _, ok := s.receitas[it.ReceitaID]; !ok {
			return nil, fmt.Errorf("%w: receita %d não encontrada", ErrInvalidOrder, it.ReceitaID)
		}
	}

	p := api.Pedido{
		ID:          s.nextPedido,
		Cliente:     in.Cliente,
		Status:      api.StatusNovo,
		DataEntrega: in.DataEntrega,
		Horario:     optional(normalizeClock(in.Horario)),
		Local:       optional(in.Local),
		Observacoes: optional(in.Observacoes),
		Itens:       make([]api.ItemPedido, 0, len(in.Itens)),
	}
	if in.PrecoTotal != nil {
		total := api.Decimal(*in.PrecoTotal)
		p.PrecoTotal = &total
	}
	for _, it := range in.Itens {
		p.Itens = append(p.Itens, api.ItemPedido{
			ID:              s.nextItem,
			ReceitaID:       it.ReceitaID,
			Quantidade:      it.Quantidade,
			Unidade:         optional(it.Unidade),
			Personalizacoes: optional(it.Personalizacoes),
		})
		s.nextItem++
	}
	s.pedidos[p.ID] = p
	s.nextPedido++

	p = s.withNames(p)
	return &p, nil
}

// UpdateOrderStatus moves an order to status. Backward moves and changes to
// delivered or cancelled orders fail with *TransitionError.
func (s *Store) UpdateOrderStatus(_ context.Context, id int, status api.StatusPedido) (*api.Pedido, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pedidos[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if !canTransition(p.Status, status) {
		return nil, &TransitionError{From: p.Status, To: status}
	}
	p.Status = status
	s.pedidos[id] = p

	p = s.withNames(p)
	return &p, nil
}

// withNames fills receita_nome on every item. Callers hold the lock.
func (s *Store) withNames(p api.Pedido) api.Pedido {
	itens := make([]api.ItemPedido, len(p.Itens))
	for i, it := range p.Itens {
		if r, ok := s.receitas[it.ReceitaID]; ok {
			it.ReceitaNome = optional(r.Nome)
		}
		itens[i] = it
	}
	p.Itens = itens
	return p
}

// =============================================================================
// RECEITAS
// =============================================================================

// ListRecipes returns recipes whose name contains nome, ignoring case.
func (s *Store) ListRecipes(_ context.Context, nome string) ([]api.Receita, error) {
	query := cases.Fold().String(strings.TrimSpace(nome))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.Receita, 0, len(s.receitas))
	for _, r := range s.receitas {
		if query != "" && !strings.Contains(cases.Fold().String(r.Nome), query) {
			continue
		}
		out = append(out, s.withIngredientNames(r))
	}
	slices.SortFunc(out, func(a, b api.Receita) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// GetRecipe returns one recipe.
func (s *Store) GetRecipe(_ context.Context, id int) (*api.Receita, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.receitas[id]
	if !ok {
		return nil, ErrRecipeNotFound
	}
	r = s.withIngredientNames(r)
	return &r, nil
}

func (s *Store) withIngredientNames(r api.Receita) api.Receita {
	ings := make([]api.IngredienteReceita, len(r.Ingredientes))
	for i, ing := range r.Ingredientes {
		if name, ok := s.ingredientes[ing.IngredienteID]; ok {
			ing.IngredienteNome = optional(name)
		}
		ings[i] = ing
	}
	r.Ingredientes = ings
	return r
}

// =============================================================================
// STATS AND AGENDA
// =============================================================================

// Stats computes today's counters:
//   - pedidos_hoje, pedidos_novos and total_pedidos_hoje cover orders
//     delivered today
//   - tendencia_pedidos compares pedidos_hoje with yesterday's count
//   - entregas_pendentes counts scheduled deliveries not yet due
//   - em_producao counts every order in production
//   - estoque_baixo counts items at or below their reorder point
func (s *Store) Stats(context.Context) (*api.Stats, error) {
	now := s.now()
	today := now.Format(dateLayout)
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, now.Location()).Format(dateLayout)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out api.Stats
	var total api.Decimal
	var priced bool
	var before int
	for _, p := range s.pedidos {
		if p.Status == api.StatusEmProducao {
			out.EmProducao++
		}
		if p.DataEntrega == yesterday {
			before++
		}
		if p.DataEntrega != today {
			continue
		}
		out.PedidosHoje++
		if p.Status == api.StatusNovo {
			out.PedidosNovos++
		}
		if p.PrecoTotal != nil {
			total += *p.PrecoTotal
			priced = true
		}
	}
	if priced {
		out.TotalPedidosHoje = &total
	}
	if before > 0 {
		trend := math.Round(float64(out.PedidosHoje-before) * 100 / float64(before))
		out.TendenciaPedidos = &trend
	}

	for _, e := range s.agenda {
		at, err := time.ParseInLocation(dateTimeLayout, e.DataHora, now.Location())
		if err == nil && !at.Before(now) {
			out.EntregasPendentes++
		}
	}
	for _, item := range s.estoque {
		if item.QuantidadeAtual <= item.PontoReposicao {
			out.EstoqueBaixo++
		}
	}
	return &out, nil
}

// Agenda returns scheduled deliveries in chronological order.
func (s *Store) Agenda(_ context.Context, f api.AgendaFilter) ([]api.AgendaEntrega, error) {
	if err := checkDateRange(f.DataInicio, f.DataFim); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.AgendaEntrega, 0, len(s.agenda))
	for _, e := range s.agenda {
		day, _, _ := strings.Cut(e.DataHora, "T")
		if f.DataInicio != "" && day < f.DataInicio {
			continue
		}
		if f.DataFim != "" && day > f.DataFim {
			continue
		}
		if p, ok := s.pedidos[e.PedidoID]; ok {
			e.PedidoCliente = optional(p.Cliente)
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b api.AgendaEntrega) int {
		if c := cmp.Compare(a.DataHora, b.DataHora); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// checkDateRange validates the data_inicio and data_fim filters.
func checkDateRange(from, to string) error {
	params := [][2]string{{"data_inicio", from}, {"data_fim", to}}
	for _, p := range params {
		if p[1] == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, p[1]); err != nil {
			return &FilterError{Param: p[0], Value: p[1]}
		}
	}
	return nil
}

// normalizeClock turns "15:00" into "15:00:00".
func normalizeClock(s string) string {
	if t, err := time.Parse("15:04", s); err == nil {
		return t.Format(clockLayout)
	}
	return s
}

func optional[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

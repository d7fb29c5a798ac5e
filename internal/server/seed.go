// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"time"

	"github.com/jeranaias/docildos/internal/api"
)

// Recipe ids in the seed data.
const (
	SeedPanetone = iota + 1
	SeedChocotone
	SeedBoloCenoura
	SeedBrigadeiro
)

var seedIngredients = map[int]string{
	1: "Farinha",
	2: "Açúcar",
	3: "Manteiga",
	4: "Ovos",
	5: "Chocolate",
	6: "Leite",
	7: "Cenoura",
	8: "Leite condensado",
	9: "Fermento",
}

// Seed replaces the store contents with a small bakery: four recipes, four
// orders around today and their deliveries. Order #001 is the newest
// delivery, so it is what "último pedido" returns.
func (s *Store) Seed() {
	now := s.now()
	day := func(offset int) string {
		return time.Date(now.Year(), now.Month(), now.Day()+offset, 0, 0, 0, 0, now.Location()).Format(dateLayout)
	}
	at := func(offset, hour, minute int) string {
		return time.Date(now.Year(), now.Month(), now.Day()+offset, hour, minute, 0, 0, now.Location()).Format(dateTimeLayout)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ingredientes = make(map[int]string, len(seedIngredients))
	for id, name := range seedIngredients {
		s.ingredientes[id] = name
	}

	s.receitas = map[int]api.Receita{
		SeedPanetone: {
			ID:            SeedPanetone,
			Nome:          "Panetone 500g Recheado",
			Descricao:     optional("Panetone artesanal com recheio de chocolate belga"),
			TempoPreparo:  optional(180),
			Rendimento:    optional("2 unidades"),
			CustoEstimado: optional(api.Decimal(28.5)),
			Ingredientes: []api.IngredienteReceita{
				{ID: 1, IngredienteID: 1, Quantidade: 500, Unidade: "g"},
				{ID: 2, IngredienteID: 2, Quantidade: 150, Unidade: "g"},
				{ID: 3, IngredienteID: 3, Quantidade: 100, Unidade: "g"},
				{ID: 4, IngredienteID: 4, Quantidade: 4, Unidade: "un"},
				{ID: 5, IngredienteID: 5, Quantidade: 200, Unidade: "g"},
				{ID: 6, IngredienteID: 6, Quantidade: 200, Unidade: "ml"},
			},
		},
		SeedChocotone: {
			ID:            SeedChocotone,
			Nome:          "Chocotone 500g",
			TempoPreparo:  optional(150),
			Rendimento:    optional("2 unidades"),
			CustoEstimado: optional(api.Decimal(24)),
			Ingredientes: []api.IngredienteReceita{
				{ID: 7, IngredienteID: 1, Quantidade: 500, Unidade: "g"},
				{ID: 8, IngredienteID: 5, Quantidade: 250, Unidade: "g"},
				{ID: 9, IngredienteID: 9, Quantidade: 15, Unidade: "g"},
			},
		},
		SeedBoloCenoura: {
			ID:           SeedBoloCenoura,
			Nome:         "Bolo de Cenoura",
			TempoPreparo: optional(60),
			Rendimento:   optional("12 fatias"),
			Ingredientes: []api.IngredienteReceita{
				{ID: 10, IngredienteID: 7, Quantidade: 3, Unidade: "un"},
				{ID: 11, IngredienteID: 1, Quantidade: 240, Unidade: "g"},
				{ID: 12, IngredienteID: 4, Quantidade: 3, Unidade: "un"},
				{ID: 13, IngredienteID: 2, Quantidade: 200, Unidade: "g"},
			},
		},
		SeedBrigadeiro: {
			ID:           SeedBrigadeiro,
			Nome:         "Brigadeiro Gourmet",
			TempoPreparo: optional(40),
			Rendimento:   optional("50 unidades"),
			Ingredientes: []api.IngredienteReceita{
				{ID: 14, IngredienteID: 8, Quantidade: 395, Unidade: "g"},
				{ID: 15, IngredienteID: 5, Quantidade: 100, Unidade: "g"},
				{ID: 16, IngredienteID: 3, Quantidade: 20, Unidade: "g"},
			},
		},
	}

	s.pedidos = make(map[int]api.Pedido)
	s.nextPedido, s.nextItem = 1, 1
	add := func(p api.Pedido) {
		p.ID = s.nextPedido
		for i := range p.Itens {
			p.Itens[i].ID = s.nextItem
			s.nextItem++
		}
		s.pedidos[p.ID] = p
		s.nextPedido++
	}
	add(api.Pedido{
		Cliente:     "Nicole Silva",
		Status:      api.StatusNovo,
		DataEntrega: day(1),
		Horario:     optional("15:00:00"),
		Local:       optional("Rua das Flores, 123"),
		PrecoTotal:  optional(api.Decimal(185)),
		Itens: []api.ItemPedido{
			{ReceitaID: SeedChocotone, Quantidade: 2, Personalizacoes: optional("500g recheado")},
			{ReceitaID: SeedPanetone, Quantidade: 1, Personalizacoes: optional("300g tradicional")},
		},
	})
	add(api.Pedido{
		Cliente:     "Maria Souza",
		Status:      api.StatusEmProducao,
		DataEntrega: day(0),
		Horario:     optional("10:00:00"),
		Local:       optional("Av. Brasil, 450"),
		PrecoTotal:  optional(api.Decimal(90)),
		Itens: []api.ItemPedido{
			{ReceitaID: SeedBoloCenoura, Quantidade: 1},
		},
	})
	add(api.Pedido{
		Cliente:     "Ana Lima",
		Status:      api.StatusNovo,
		DataEntrega: day(0),
		Horario:     optional("17:30:00"),
		Observacoes: optional("Retirada na loja"),
		PrecoTotal:  optional(api.Decimal(125)),
		Itens: []api.ItemPedido{
			{ReceitaID: SeedBrigadeiro, Quantidade: 50, Unidade: optional("un")},
		},
	})
	add(api.Pedido{
		Cliente:     "Carlos Pereira",
		Status:      api.StatusEntregue,
		DataEntrega: day(-1),
		Horario:     optional("09:00:00"),
		Local:       optional("Rua XV de Novembro, 80"),
		PrecoTotal:  optional(api.Decimal(60)),
		Itens: []api.ItemPedido{
			{ReceitaID: SeedBoloCenoura, Quantidade: 1},
		},
	})

	s.agenda = []api.AgendaEntrega{
		{ID: 1, PedidoID: 1, DataHora: at(1, 15, 0), Local: optional("Rua das Flores, 123"), Responsavel: optional("João")},
		{ID: 2, PedidoID: 2, DataHora: at(0, 10, 0), Local: optional("Av. Brasil, 450"), Responsavel: optional("João")},
		{ID: 3, PedidoID: 3, DataHora: at(0, 17, 30), Responsavel: optional("Paula")},
		{ID: 4, PedidoID: 4, DataHora: at(-1, 9, 0), Local: optional("Rua XV de Novembro, 80")},
	}

	s.estoque = []stockItem{
		{Nome: "Farinha", QuantidadeAtual: 12000, PontoReposicao: 5000},
		{Nome: "Chocolate", QuantidadeAtual: 800, PontoReposicao: 1000},
		{Nome: "Manteiga", QuantidadeAtual: 2000, PontoReposicao: 1000},
		{Nome: "Leite condensado", QuantidadeAtual: 4, PontoReposicao: 6},
		{Nome: "Ovos", QuantidadeAtual: 60, PontoReposicao: 24},
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jeranaias/docildos/internal/logging"
	"github.com/jeranaias/docildos/internal/model"
)

// Reply texts.
const (
	ReplyOrder       = "Aqui está o pedido mais recente que encontrei. Você pode atualizar o status usando os botões abaixo:"
	ReplyRecipe      = "Encontrei a ficha técnica que você pediu! Veja os detalhes abaixo:"
	ReplyStats       = "Aqui está o resumo do dia. Você tem pedidos para entregar e alguns precisam de atenção:"
	ReplyAcknowledge = "Entendi! Deixa eu processar isso para você. Você pode usar os atalhos abaixo para ações rápidas, ou me dizer mais detalhes sobre o que precisa."

	ReplyNoOrder  = "Ainda não encontrei nenhum pedido cadastrado. Quer registrar um novo?"
	ReplyNoRecipe = "Não encontrei essa ficha técnica. Pode me dizer o nome da receita?"
)

// ErrNotFound is returned by a Catalog that has nothing to show.
var ErrNotFound = errors.New("not found")

// Action is a suggested follow-up offered with a reply.
type Action struct {
	ID    string
	Label string
}

// Reply is the output of every dispatcher: text plus optional cards.
type Reply struct {
	Text    string
	Cards   []model.Card
	Actions []Action

	// Rejected lists attachments that failed card validation and were
	// dropped from Cards.
	Rejected []error
}

// Dispatcher computes the assistant reply for a user message.
// Implementations must be safe to call from a goroutine other than the UI.
type Dispatcher interface {
	Dispatch(ctx context.Context, text string) (Reply, error)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, text string) (Reply, error)

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, text string) (Reply, error) {
	return f(ctx, text)
}

// Catalog supplies the data behind order, recipe and stats replies.
type Catalog interface {
	LatestOrder(ctx context.Context) (model.Order, error)
	FindRecipe(ctx context.Context, query string) (model.Recipe, error)
	Stats(ctx context.Context) (model.Stats, error)
}

// OrderUpdater records a status change made from an order card.
type OrderUpdater interface {
	UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error
}

// =============================================================================
// INTENT DISPATCHER
// =============================================================================

// IntentDispatcher classifies the text and answers from a Catalog.
type IntentDispatcher struct {
	classifier Classifier
	catalog    Catalog
	logger     *slog.Logger
}

// NewIntentDispatcher builds a dispatcher. A nil classifier means
// KeywordClassifier.
func NewIntentDispatcher(classifier Classifier, catalog Catalog, logger *slog.Logger) *IntentDispatcher {
	if classifier == nil {
		classifier = KeywordClassifier{}
	}
	return &IntentDispatcher{
		classifier: classifier,
		catalog:    catalog,
		logger:     logging.Component(logger, "dispatch"),
	}
}

// Dispatch implements Dispatcher.
func (d *IntentDispatcher) Dispatch(ctx context.Context, text string) (Reply, error) {
	intent := d.classifier.Classify(text)
	ctx = logging.WithFields(ctx, logging.Fields{Intent: intent.Name()})
	d.logger.DebugContext(ctx, "classified message")

	switch in := intent.(type) {
	case ShowOrder:
		order, err := d.catalog.LatestOrder(ctx)
		if errors.Is(err, ErrNotFound) {
			return Reply{Text: ReplyNoOrder}, nil
		}
		if err != nil {
			d.logger.WarnContext(ctx, "catalog failed", "error", err)
			return Reply{}, fmt.Errorf("latest order: %w", err)
		}
		return cardReply(ReplyOrder, model.CardOrder, order)

	case ShowRecipe:
		recipe, err := d.catalog.FindRecipe(ctx, in.Query)
		if errors.Is(err, ErrNotFound) {
			return Reply{Text: ReplyNoRecipe}, nil
		}
		if err != nil {
			return Reply{}, fmt.Errorf("find recipe: %w", err)
		}
		return cardReply(ReplyRecipe, model.CardRecipe, recipe)

	case ShowStats:
		stats, err := d.catalog.Stats(ctx)
		if err != nil {
			return Reply{}, fmt.Errorf("stats: %w", err)
		}
		return cardReply(ReplyStats, model.CardStats, stats)
	}

	return Reply{Text: ReplyAcknowledge}, nil
}

func cardReply(text string, t model.CardType, payload any) (Reply, error) {
	card, err := model.NewCard(t, payload)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: text, Cards: []model.Card{card}}, nil
}

// =============================================================================
// PACING
// =============================================================================

// Paced delays replies so that at least Min elapses between the call and
// the return. Errors are paced the same way.
type Paced struct {
	Next Dispatcher
	Min  time.Duration
}

// Dispatch implements Dispatcher.
func (p Paced) Dispatch(ctx context.Context, text string) (Reply, error) {
	start := time.Now()
	reply, err := p.Next.Dispatch(ctx, text)

	if wait := p.Min - time.Since(start); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Reply{}, ctx.Err()
		case <-timer.C:
		}
	}
	return reply, err
}

// WithPacing wraps d in Paced when minDelay is positive.
func WithPacing(d Dispatcher, minDelay time.Duration) Dispatcher {
	if minDelay <= 0 {
		return d
	}
	return Paced{Next: d, Min: minDelay}
}

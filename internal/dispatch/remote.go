// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dispatch

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jeranaias/docildos/internal/api"
	"github.com/jeranaias/docildos/internal/cards"
	"github.com/jeranaias/docildos/internal/logging"
	"github.com/jeranaias/docildos/internal/model"
)

// ChatBackend is the part of the API client the remote dispatcher needs.
type ChatBackend interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

// RemoteDispatcher delegates classification to POST /api/chat. Cards in the
// response are checked against the registry; rejected ones are dropped and
// listed in Reply.Rejected while the reply text is kept.
type RemoteDispatcher struct {
	backend   ChatBackend
	registry  *cards.Registry
	sessionID string
	logger    *slog.Logger
}

// NewRemoteDispatcher creates a dispatcher bound to one chat session. An
// empty sessionID gets a fresh random one.
func NewRemoteDispatcher(backend ChatBackend, registry *cards.Registry, sessionID string, logger *slog.Logger) *RemoteDispatcher {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if registry == nil {
		registry = cards.NewRegistry()
	}
	return &RemoteDispatcher{
		backend:   backend,
		registry:  registry,
		sessionID: sessionID,
		logger:    logging.Component(logger, "dispatch"),
	}
}

// SessionID returns the chat session this dispatcher reports.
func (d *RemoteDispatcher) SessionID() string {
	return d.sessionID
}

// Dispatch implements Dispatcher.
func (d *RemoteDispatcher) Dispatch(ctx context.Context, text string) (Reply, error) {
	ctx = logging.WithFields(ctx, logging.Fields{SessionID: d.sessionID})
	resp, err := d.backend.Chat(ctx, api.ChatRequest{Message: text, SessionID: d.sessionID})
	if err != nil {
		return Reply{}, err
	}

	reply := Reply{Text: resp.Response}
	if resp.RequiresConfirmation && resp.ConfirmationQuestion != "" {
		reply.Text += "\n\n" + resp.ConfirmationQuestion
	}

	for _, c := range resp.Cards {
		card := model.Card{Type: model.CardType(c.Type), Data: c.Data}
		if _, err := d.registry.Resolve(card); err != nil {
			d.logger.WarnContext(ctx, "dropping card", "type", c.Type, "error", err)
			reply.Rejected = append(reply.Rejected, err)
			continue
		}
		reply.Cards = append(reply.Cards, card)
	}
	for _, a := range resp.Actions {
		reply.Actions = append(reply.Actions, Action{ID: a.ID, Label: a.Label})
	}
	return reply, nil
}

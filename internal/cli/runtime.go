// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jeranaias/docildos/internal/api"
	"github.com/jeranaias/docildos/internal/cards"
	"github.com/jeranaias/docildos/internal/config"
	"github.com/jeranaias/docildos/internal/conversation"
	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/logging"
)

// =============================================================================
// RUNTIME
// =============================================================================

// Runtime bundles the collaborators every front end needs for one dispatch
// mode: the TUI, `ask` and `chat` all build theirs with NewRuntime.
type Runtime struct {
	Mode       string
	Registry   *cards.Registry
	Dispatcher dispatch.Dispatcher

	// Catalog feeds the stats header.
	Catalog dispatch.Catalog

	// Updater sends order transitions to the backend. Nil in local mode,
	// where transitions only exist in the transcript.
	Updater dispatch.OrderUpdater

	// Client is nil in local mode.
	Client *api.Client

	// SessionID is the chat session reported to /api/chat in remote mode.
	SessionID string

	Logger *slog.Logger
	cfg    *config.Config
}

// NewRuntime wires a runtime for cfg.Dispatch.Mode. An empty mode means
// local.
func NewRuntime(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	rt := &Runtime{
		Mode:     cfg.Dispatch.Mode,
		Registry: cards.NewRegistry(),
		Logger:   logger,
		cfg:      cfg,
	}
	if rt.Mode == "" {
		rt.Mode = config.ModeLocal
	}

	var d dispatch.Dispatcher
	switch rt.Mode {
	case config.ModeLocal:
		sample := &dispatch.SampleCatalog{}
		rt.Catalog = sample
		d = dispatch.NewIntentDispatcher(nil, sample, logger)

	case config.ModeBackend, config.ModeRemote:
		rt.Client = api.NewClient(cfg.API.BaseURL).
			WithTimeout(cfg.API.Timeout()).
			WithMaxRetries(cfg.API.MaxRetries).
			WithRateLimit(cfg.API.RatePerSec, 0).
			WithLogger(logger)
		catalog := dispatch.NewAPICatalog(rt.Client, logger)
		rt.Catalog = catalog
		rt.Updater = catalog

		if rt.Mode == config.ModeRemote {
			remote := dispatch.NewRemoteDispatcher(rt.Client, rt.Registry, cfg.API.SessionID, logger)
			rt.SessionID = remote.SessionID()
			d = remote
		} else {
			d = dispatch.NewIntentDispatcher(nil, catalog, logger)
		}

	default:
		return nil, NewValidationErrorWithExample("mode", rt.Mode,
			fmt.Sprintf("must be one of %v", config.Modes), "docildos --mode backend ask \"pedido\"")
	}

	rt.Dispatcher = dispatch.WithPacing(d, cfg.Dispatch.ThinkDelay())
	return rt, nil
}

// NewStore creates a conversation store over the runtime's dispatcher.
func (rt *Runtime) NewStore() *conversation.Store {
	opts := []conversation.Option{conversation.WithLogger(rt.Logger)}
	if rt.Client != nil {
		// Retries happen inside one dispatch; leave room for all of them.
		attempts := time.Duration(max(rt.cfg.API.MaxRetries, 0) + 1)
		opts = append(opts, conversation.WithTimeout(rt.cfg.API.Timeout()*attempts))
	}
	return conversation.New(rt.Dispatcher, opts...)
}

// ModeLabel is the short mode name shown in the status line.
func (rt *Runtime) ModeLabel() string {
	switch rt.Mode {
	case config.ModeBackend:
		return "backend · " + rt.cfg.API.BaseURL
	case config.ModeRemote:
		return "remoto · " + rt.cfg.API.BaseURL
	default:
		return "local"
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides an in-memory development backend for the
// dashboard.
//
// It serves the routes the API client calls, so the TUI can run in backend
// or remote mode without the production service. Data lives in a Store
// seeded with a few recipes, orders and deliveries; nothing is persisted.
//
// # Endpoints
//
//   - GET   /health
//   - GET   /api/pedidos              - filters data_inicio, data_fim, status, cliente
//   - GET   /api/pedidos/:id
//   - POST  /api/pedidos
//   - PATCH /api/pedidos/:id/status   - forward transitions only
//   - GET   /api/receitas             - filter nome
//   - GET   /api/receitas/:id
//   - GET   /api/stats
//   - GET   /api/agenda               - filters data_inicio, data_fim
//   - POST  /api/chat
//
// Errors use the {"detail": ...} body the client expects: a string for 4xx
// and 5xx errors, a list of {loc, msg, type} for 422 validation failures.
//
// # Usage
//
//	store := server.NewStore(nil)
//	store.Seed()
//	srv := server.NewServer(cfg.Server.Addr, store).
//		WithLogger(logger).
//		WithRateLimit(cfg.Server.RatePerSec, 0)
//	if err := srv.Start(); !errors.Is(err, http.ErrServerClosed) {
//		return err
//	}
package server

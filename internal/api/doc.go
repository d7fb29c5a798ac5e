// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is a typed HTTP client for the confectionery backend.
//
// The client covers chat (/api/chat), orders (/api/pedidos), recipes
// (/api/receitas), daily stats (/api/stats) and the delivery schedule
// (/api/agenda). Every non-2xx response becomes an *Error whose message is
// the server's "detail" field, or "HTTP <status>: <statusText>" when the
// body is not JSON. Transport failures wrap ErrNetwork.
//
// Converters in convert.go translate backend records into the card payloads
// of package model, including the em_producao/producao status spelling.
package api

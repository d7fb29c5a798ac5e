// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package errmap turns errors from the dispatcher and the API client into
// the short Portuguese messages shown in the transcript, and decides which
// of them also deserve a toast.
package errmap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/jeranaias/docildos/internal/api"
)

// =============================================================================
// ERROR KINDS
// =============================================================================

// Kind classifies an error for display.
type Kind int

const (
	// KindUnknown is anything that is not a transport or HTTP error.
	KindUnknown Kind = iota
	// KindNetwork means the backend could not be reached.
	KindNetwork
	// KindClient is an HTTP 4xx response.
	KindClient
	// KindServer is an HTTP 5xx response.
	KindServer
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// User-facing texts.
const (
	MsgNetwork    = "Erro de conexão com o servidor."
	ToastNetwork  = "Erro de conexão. Verifique se o backend está rodando."
	MsgNotFound   = "Recurso não encontrado."
	MsgBadRequest = "Dados inválidos. Verifique as informações fornecidas."
	MsgServer     = "Erro interno do servidor."
	ToastServer   = "Erro interno do servidor. Tente novamente mais tarde."
	MsgUnexpected = "Ocorreu um erro inesperado."
)

// Notice is the display form of an error.
type Notice struct {
	Kind    Kind
	Message string

	// Toast is empty when the error is shown in the transcript only.
	Toast string
}

// HasToast reports whether a transient notification should be raised.
func (n Notice) HasToast() bool {
	return n.Toast != ""
}

// =============================================================================
// MAPPING
// =============================================================================

// Classify returns the kind of err.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsServerError():
			return KindServer
		case apiErr.IsClientError():
			return KindClient
		}
		return KindUnknown
	}

	if errors.Is(err, api.ErrNetwork) || errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindNetwork
	}
	if looksLikeNetwork(err.Error()) {
		return KindNetwork
	}
	return KindUnknown
}

// Map converts err into a Notice. Network and 5xx errors carry a toast;
// 4xx and unknown errors are transcript-only.
func Map(err error) Notice {
	kind := Classify(err)
	switch kind {
	case KindNetwork:
		return Notice{Kind: kind, Message: MsgNetwork, Toast: ToastNetwork}
	case KindServer:
		return Notice{Kind: kind, Message: MsgServer, Toast: ToastServer}
	case KindClient:
		var apiErr *api.Error
		errors.As(err, &apiErr)
		switch apiErr.Status {
		case http.StatusNotFound:
			return Notice{Kind: kind, Message: MsgNotFound}
		case http.StatusBadRequest:
			return Notice{Kind: kind, Message: MsgBadRequest}
		}
		return Notice{Kind: kind, Message: messageOr(apiErr.Error())}
	}
	if err == nil {
		return Notice{Kind: KindUnknown, Message: MsgUnexpected}
	}
	return Notice{Kind: KindUnknown, Message: messageOr(err.Error())}
}

// Message is Map(err).Message.
func Message(err error) string {
	return Map(err).Message
}

func messageOr(s string) string {
	if strings.TrimSpace(s) == "" {
		return MsgUnexpected
	}
	return s
}

// networkHints are substrings of transport errors that arrive unwrapped,
// e.g. from a dispatcher that formats errors itself.
var networkHints = []string{
	"connection refused",
	"no such host",
	"connection reset",
	"network is unreachable",
	"i/o timeout",
}

func looksLikeNetwork(msg string) bool {
	msg = strings.ToLower(msg)
	for _, h := range networkHints {
		if strings.Contains(msg, h) {
			return true
		}
	}
	return false
}

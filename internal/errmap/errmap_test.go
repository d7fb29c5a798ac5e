// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package errmap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jeranaias/docildos/internal/api"
)

func TestMap(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantKind  Kind
		wantMsg   string
		wantToast bool
	}{
		{
			name:      "network sentinel",
			err:       fmt.Errorf("%w: GET /api/stats: dial tcp", api.ErrNetwork),
			wantKind:  KindNetwork,
			wantMsg:   MsgNetwork,
			wantToast: true,
		},
		{
			name:      "deadline",
			err:       context.DeadlineExceeded,
			wantKind:  KindNetwork,
			wantMsg:   MsgNetwork,
			wantToast: true,
		},
		{
			name:      "unwrapped refusal",
			err:       errors.New("dial tcp 127.0.0.1:8000: connect: connection refused"),
			wantKind:  KindNetwork,
			wantMsg:   MsgNetwork,
			wantToast: true,
		},
		{
			name:     "not found",
			err:      &api.Error{Status: http.StatusNotFound, Detail: "Pedido não encontrado"},
			wantKind: KindClient,
			wantMsg:  MsgNotFound,
		},
		{
			name:     "bad request",
			err:      &api.Error{Status: http.StatusBadRequest},
			wantKind: KindClient,
			wantMsg:  MsgBadRequest,
		},
		{
			name:     "other 4xx keeps detail",
			err:      fmt.Errorf("chat: %w", &api.Error{Status: http.StatusConflict, Detail: "Já existe uma entrega agendada"}),
			wantKind: KindClient,
			wantMsg:  "Já existe uma entrega agendada",
		},
		{
			name:      "server error",
			err:       &api.Error{Status: http.StatusBadGateway, StatusText: "Bad Gateway"},
			wantKind:  KindServer,
			wantMsg:   MsgServer,
			wantToast: true,
		},
		{
			name:     "unknown keeps message",
			err:      errors.New("card rejected"),
			wantKind: KindUnknown,
			wantMsg:  "card rejected",
		},
		{
			name:     "unknown empty",
			err:      errors.New(""),
			wantKind: KindUnknown,
			wantMsg:  MsgUnexpected,
		},
		{
			name:     "nil",
			err:      nil,
			wantKind: KindUnknown,
			wantMsg:  MsgUnexpected,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := Map(tc.err)
			if n.Kind != tc.wantKind {
				t.Errorf("Kind = %v, want %v", n.Kind, tc.wantKind)
			}
			if n.Message != tc.wantMsg {
				t.Errorf("Message = %q, want %q", n.Message, tc.wantMsg)
			}
			if n.HasToast() != tc.wantToast {
				t.Errorf("HasToast() = %v, want %v", n.HasToast(), tc.wantToast)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindServer.String() != "server" || Kind(42).String() != "unknown" {
		t.Error("unexpected Kind names")
	}
}

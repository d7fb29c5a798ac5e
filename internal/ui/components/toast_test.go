// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/docildos/internal/errmap"
)

func TestNewErrorToast(t *testing.T) {
	toast := NewErrorToast("Erro de conexão")

	if toast.Kind != ToastKindError {
		t.Errorf("Expected ToastKindError, got %d", toast.Kind)
	}
	if toast.Duration != ErrorToastDuration {
		t.Errorf("Expected duration %v, got %v", ErrorToastDuration, toast.Duration)
	}
}

func TestToastIsExpired(t *testing.T) {
	toast := NewStatusToast("Test")
	toast.Duration = 10 * time.Millisecond
	toast.CreatedAt = time.Now().Add(-20 * time.Millisecond)

	if !toast.IsExpired() {
		t.Error("Toast should be expired")
	}
	if toast.TimeRemaining() != 0 {
		t.Errorf("TimeRemaining() = %v, want 0", toast.TimeRemaining())
	}
	if NewStatusToast("Fresh").IsExpired() {
		t.Error("Fresh toast should not be expired")
	}
}

func TestToastFromNotice(t *testing.T) {
	tests := []struct {
		name   string
		notice errmap.Notice
		want   bool
	}{
		{"network", errmap.Notice{Kind: errmap.KindNetwork, Message: errmap.MsgNetwork, Toast: errmap.ToastNetwork}, true},
		{"server", errmap.Notice{Kind: errmap.KindServer, Message: errmap.MsgServer, Toast: errmap.ToastServer}, true},
		{"client", errmap.Notice{Kind: errmap.KindClient, Message: errmap.MsgNotFound}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toast, ok := ToastFromNotice(tt.notice)
			if ok != tt.want {
				t.Fatalf("ToastFromNotice() ok = %v, want %v", ok, tt.want)
			}
			if ok && toast.Message != tt.notice.Toast {
				t.Errorf("Message = %q, want %q", toast.Message, tt.notice.Toast)
			}
		})
	}
}

func TestToastManager(t *testing.T) {
	manager := NewToastManager()
	if manager.HasToasts() {
		t.Error("New manager should have no toasts")
	}

	id1 := manager.AddError("Error 1")
	manager.AddSuccess("Success 1")
	if got := len(manager.Toasts()); got != 2 {
		t.Fatalf("Expected 2 toasts, got %d", got)
	}
	if manager.Toasts()[0].Message != "Success 1" {
		t.Error("newest toast should come first")
	}

	manager.Dismiss(id1)
	if got := len(manager.Toasts()); got != 1 {
		t.Errorf("Expected 1 toast after dismiss, got %d", got)
	}

	manager.DismissAll()
	if manager.HasToasts() {
		t.Error("DismissAll should remove every toast")
	}
}

func TestToastManager_MaxToasts(t *testing.T) {
	manager := NewToastManager()
	for i := 0; i < 10; i++ {
		manager.AddError("erro")
	}
	if got := len(manager.Toasts()); got != 3 {
		t.Errorf("Expected 3 toasts, got %d", got)
	}
}

func TestToastManager_Tick(t *testing.T) {
	manager := NewToastManager()
	expired := NewErrorToast("velho")
	expired.CreatedAt = time.Now().Add(-time.Minute)
	manager.Add(expired)
	manager.AddError("novo")

	if !manager.Tick() {
		t.Fatal("Tick() should report remaining toasts")
	}
	toasts := manager.Toasts()
	if len(toasts) != 1 || toasts[0].Message != "novo" {
		t.Errorf("Tick() left %+v", toasts)
	}
}

func TestRenderToast(t *testing.T) {
	out := RenderToast(NewErrorToast("Erro interno do servidor. Tente novamente mais tarde."), 80)
	if !strings.Contains(out, "Erro interno") {
		t.Errorf("RenderToast() = %q", out)
	}
	if RenderToastStack(nil, 80) != "" {
		t.Error("empty stack should render nothing")
	}
}

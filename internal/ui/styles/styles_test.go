// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"UserBubble", theme.UserBubble},
		{"AssistantBubble", theme.AssistantBubble},
		{"Card", theme.Card},
		{"CardSelected", theme.CardSelected},
		{"ToastError", theme.ToastError},
	}
	for _, s := range styles {
		if !strings.Contains(s.style.Render("test"), "test") {
			t.Errorf("%s style should render its content", s.name)
		}
	}
}

func TestStatusColor(t *testing.T) {
	tests := []struct {
		status string
		want   lipgloss.AdaptiveColor
	}{
		{"novo", Sky},
		{"producao", Amber},
		{"pronto", Mint},
		{"entregue", TextMuted},
		{"cancelado", TextMuted},
	}
	for _, tt := range tests {
		if got := StatusColor(tt.status); got != tt.want {
			t.Errorf("StatusColor(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestStatusBadge_IncludesLabel(t *testing.T) {
	badge := NewTheme().StatusBadge("pronto", "Pronto")
	if !strings.Contains(badge, "Pronto") {
		t.Errorf("StatusBadge() = %q, want label", badge)
	}
}

func TestVariantColor(t *testing.T) {
	if VariantColor("warning") != Amber || VariantColor("success") != Mint ||
		VariantColor("primary") != Rose || VariantColor("default") != TextPrimary {
		t.Error("VariantColor() returned an unexpected color")
	}
}

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{80, LayoutMedium},
		{120, LayoutWide},
	}
	theme := NewTheme()
	for _, tt := range tests {
		theme.SetSize(tt.width, 30)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: GetLayoutMode() = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestSpinnerConfig(t *testing.T) {
	if TypingDots.Duration() != time.Second/6 {
		t.Errorf("Duration() = %v", TypingDots.Duration())
	}
	if (SpinnerConfig{}).Duration() != time.Second {
		t.Error("zero FPS should fall back to one frame per second")
	}
	sp := TypingDots.Spinner()
	if len(sp.Frames) != len(TypingDots.Frames) {
		t.Errorf("Spinner() frames = %v", sp.Frames)
	}
}

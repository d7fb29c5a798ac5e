// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jeranaias/docildos/internal/cards"
	"github.com/jeranaias/docildos/internal/dispatch"
	"github.com/jeranaias/docildos/internal/model"
	"github.com/jeranaias/docildos/internal/ui/styles"
)

func TestRenderMessage_User(t *testing.T) {
	out := RenderMessage(styles.NewTheme(), model.NewUserMessage("Me mostra o último pedido"), MessageOptions{Width: 80, SelectedCard: -1})
	if !strings.Contains(out, "Você") || !strings.Contains(out, "Me mostra o último pedido") {
		t.Errorf("user message = %q", out)
	}
}

func TestRenderMessage_AssistantWithCards(t *testing.T) {
	card, err := model.NewStatsCard(dispatch.SampleStats())
	if err != nil {
		t.Fatal(err)
	}
	bad := model.Card{Type: model.CardStats, Data: json.RawMessage(`{"pedidos_hoje":1}`)}
	msg := model.NewAssistantMessage(dispatch.ReplyStats, card, bad)

	out := RenderMessage(styles.NewTheme(), msg, MessageOptions{
		Width:        100,
		Registry:     cards.NewRegistry(),
		SelectedCard: -1,
	})
	if !strings.Contains(out, "Assistente") {
		t.Error("missing author")
	}
	if !strings.Contains(out, "resumo do dia") {
		t.Error("missing reply text")
	}
	if strings.Count(out, "Pedidos Hoje") != 1 {
		t.Errorf("only the valid card should render:\n%s", out)
	}
}

func TestRenderMessage_Markdown(t *testing.T) {
	theme := styles.NewTheme()
	md, err := NewMarkdownRenderer(theme, 60)
	if err != nil {
		t.Fatal(err)
	}
	out := RenderMessage(theme, model.NewAssistantMessage("**Perfeito!** pedido atualizado"), MessageOptions{
		Width:        80,
		Markdown:     md,
		SelectedCard: -1,
	})
	if !strings.Contains(out, "Perfeito!") || strings.Contains(out, "**") {
		t.Errorf("markdown not rendered: %q", out)
	}
}

func TestRenderTyping(t *testing.T) {
	if out := RenderTyping(styles.NewTheme(), "●∙∙"); !strings.Contains(out, "digitando") {
		t.Errorf("RenderTyping() = %q", out)
	}
}

func TestRenderQuickActions(t *testing.T) {
	theme := styles.NewTheme()
	out := RenderQuickActions(theme, dispatch.QuickActions, 200, false)
	for i, qa := range dispatch.QuickActions {
		if !strings.Contains(out, qa.Label) {
			t.Errorf("missing quick action %d %q", i, qa.Label)
		}
	}
	if !strings.Contains(out, "alt+6") {
		t.Error("missing key hint for the last action")
	}
}

func TestRenderSidebar(t *testing.T) {
	out := RenderSidebar(styles.NewTheme(), []SidebarItem{
		{Key: "f1", Title: "Chat IA", Active: true},
		{Key: "f2", Title: "Pedidos"},
	}, 24, 20)
	for _, want := range []string{"Docildos", "Chat IA", "Pedidos", "f2"} {
		if !strings.Contains(out, want) {
			t.Errorf("sidebar missing %q", want)
		}
	}
}

func TestRenderStatusBar_DropsHintsThatDoNotFit(t *testing.T) {
	theme := styles.NewTheme()
	shortcuts := []Shortcut{{"enter", "enviar"}, {"ctrl+r", "voz"}, {"ctrl+l", "limpar"}}

	wide := RenderStatusBar(theme, "modo local", shortcuts, 120)
	if !strings.Contains(wide, "limpar") {
		t.Error("wide status bar should show every hint")
	}
	narrow := RenderStatusBar(theme, "modo local", shortcuts, 30)
	if strings.Contains(narrow, "limpar") {
		t.Error("narrow status bar should drop trailing hints")
	}
}

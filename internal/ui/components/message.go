// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docildos/internal/cards"
	"github.com/jeranaias/docildos/internal/model"
	"github.com/jeranaias/docildos/internal/ui/styles"
	"github.com/jeranaias/docildos/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// MessageOptions controls how a transcript entry is drawn.
type MessageOptions struct {
	Width int
	Now   time.Time

	// Markdown renders assistant text when set; nil means plain wrapping.
	Markdown *glamour.TermRenderer

	// Registry resolves attached cards. Cards it rejects are not drawn.
	Registry *cards.Registry

	// SelectedCard is the index of the highlighted card, or -1.
	SelectedCard int
}

// RenderMessage renders one transcript entry. User messages are right
// aligned; assistant messages are left aligned and followed by their cards.
func RenderMessage(theme *styles.Theme, msg model.Message, opts MessageOptions) string {
	width := max(opts.Width, 30)
	header := theme.Author.Render(msg.Role.DisplayName()) + " " +
		theme.Timestamp.Render(util.FormatClock(msg.Timestamp))

	if msg.Role == model.RoleUser {
		text := strings.Join(util.WrapWords(msg.Content, width*3/4-2), "\n")
		bubble := theme.UserBubble.Render(text)
		return lipgloss.JoinVertical(lipgloss.Right,
			lipgloss.PlaceHorizontal(width, lipgloss.Right, header),
			lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble),
		)
	}

	parts := []string{header}
	if text := renderAssistantText(msg.Content, width-4, opts.Markdown); text != "" {
		parts = append(parts, theme.AssistantBubble.Render(text))
	}

	if len(msg.Cards) > 0 && opts.Registry != nil {
		for i, c := range msg.Cards {
			d, err := opts.Registry.Resolve(c)
			if err != nil {
				continue
			}
			parts = append(parts, RenderCard(theme, d, CardOptions{
				Width:    min(width, 72),
				Selected: i == opts.SelectedCard,
				Now:      opts.Now,
			}))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderAssistantText(content string, width int, md *glamour.TermRenderer) string {
	if content == "" {
		return ""
	}
	if md != nil {
		if out, err := md.Render(content); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return strings.Join(util.WrapWords(content, width), "\n")
}

// NewMarkdownRenderer builds the glamour renderer used for assistant text.
func NewMarkdownRenderer(theme *styles.Theme, width int) (*glamour.TermRenderer, error) {
	style := "light"
	if theme == nil || theme.IsDark {
		style = "dark"
	}
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, 20)),
		glamour.WithEmoji(),
	)
}

// RenderTyping renders the composing indicator.
func RenderTyping(theme *styles.Theme, frame string) string {
	return theme.Author.Render(model.RoleAssistant.DisplayName()) + " " +
		theme.TypingIndicator.Render("está digitando "+frame)
}

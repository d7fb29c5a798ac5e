// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// SHELL
	// ==========================================================================

	Header        lipgloss.Style
	HeaderTitle   lipgloss.Style
	HeaderTagline lipgloss.Style

	Sidebar           lipgloss.Style
	SidebarItem       lipgloss.Style
	SidebarItemActive lipgloss.Style
	SidebarKey        lipgloss.Style

	Placeholder      lipgloss.Style
	PlaceholderTitle lipgloss.Style

	// ==========================================================================
	// CHAT
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	Timestamp       lipgloss.Style
	Author          lipgloss.Style

	InputContainer     lipgloss.Style
	InputPrompt        lipgloss.Style
	InputPlaceholder   lipgloss.Style
	InputDisabled      lipgloss.Style
	RecordingIndicator lipgloss.Style
	TypingIndicator    lipgloss.Style
	QuickAction        lipgloss.Style
	QuickActionKey     lipgloss.Style
	StatusBar          lipgloss.Style
	ShortcutKey        lipgloss.Style
	ShortcutDesc       lipgloss.Style

	// ==========================================================================
	// CARDS
	// ==========================================================================

	Card          lipgloss.Style
	CardSelected  lipgloss.Style
	CardTitle     lipgloss.Style
	CardLabel     lipgloss.Style
	CardValue     lipgloss.Style
	CardMuted     lipgloss.Style
	ActionButton  lipgloss.Style
	MetricBox     lipgloss.Style
	MetricValue   lipgloss.Style
	TrendPositive lipgloss.Style
	TrendNegative lipgloss.Style

	// ==========================================================================
	// TOASTS
	// ==========================================================================

	ToastError lipgloss.Style
	ToastInfo  lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Shell
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(Rose)
	t.HeaderTagline = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)

	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(1, 1)

	t.SidebarItem = lipgloss.NewStyle().Foreground(TextSecondary).Padding(0, 1)
	t.SidebarItemActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Bold(true).
		Padding(0, 1)
	t.SidebarKey = lipgloss.NewStyle().Foreground(TextMuted)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Align(lipgloss.Center).
		Padding(2, 4)
	t.PlaceholderTitle = lipgloss.NewStyle().Bold(true).Foreground(Chocolate)

	// Chat
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)

	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)
	t.Author = lipgloss.NewStyle().Bold(true).Foreground(Chocolate)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.InputPlaceholder = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.InputDisabled = lipgloss.NewStyle().Foreground(TextMuted)
	t.RecordingIndicator = lipgloss.NewStyle().Foreground(Cherry).Bold(true)
	t.TypingIndicator = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.QuickAction = lipgloss.NewStyle().
		Foreground(Chocolate).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.QuickActionKey = lipgloss.NewStyle().Foreground(TextMuted)

	t.StatusBar = lipgloss.NewStyle().Foreground(TextSecondary).Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)

	// Cards
	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.CardSelected = t.Card.BorderForeground(Rose)
	t.CardTitle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.CardLabel = lipgloss.NewStyle().Foreground(TextSecondary)
	t.CardValue = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.CardMuted = lipgloss.NewStyle().Foreground(TextMuted)
	t.ActionButton = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Bold(true).
		Padding(0, 1)
	t.MetricBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.MetricValue = lipgloss.NewStyle().Bold(true)
	t.TrendPositive = lipgloss.NewStyle().Foreground(Mint)
	t.TrendNegative = lipgloss.NewStyle().Foreground(Cherry)

	// Toasts
	t.ToastError = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cherry).
		Bold(true).
		Padding(0, 1)
	t.ToastInfo = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Sky).
		Padding(0, 1)
}

// StatusColor returns the badge color of an order status. Unknown values
// are muted.
func StatusColor(status string) lipgloss.AdaptiveColor {
	switch status {
	case "novo":
		return Sky
	case "producao":
		return Amber
	case "pronto":
		return Mint
	}
	return TextMuted
}

// StatusBadge renders an order status label in its color.
func (t *Theme) StatusBadge(status, label string) string {
	return lipgloss.NewStyle().
		Foreground(StatusColor(status)).
		Bold(true).
		Render("● " + label)
}

// VariantColor returns the accent of a metric variant.
func VariantColor(variant string) lipgloss.AdaptiveColor {
	switch variant {
	case "primary":
		return Rose
	case "warning":
		return Amber
	case "success":
		return Mint
	}
	return TextPrimary
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

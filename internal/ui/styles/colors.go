// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// Rose - Brand color, primary accent, selections
var Rose = lipgloss.AdaptiveColor{Light: "#DB2777", Dark: "#F472B6"}

// RoseDeep - Darker rose for backgrounds
var RoseDeep = lipgloss.AdaptiveColor{Light: "#BE185D", Dark: "#831843"}

// Chocolate - Headings and the sidebar
var Chocolate = lipgloss.AdaptiveColor{Light: "#78350F", Dark: "#D6A77A"}

// Cream - Card backgrounds
var Cream = lipgloss.AdaptiveColor{Light: "#FFF7ED", Dark: "#2A2320"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Mint - Success states, ready orders
var Mint = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Amber - Warnings, orders in production
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Sky - New orders, informational states
var Sky = lipgloss.AdaptiveColor{Light: "#0284C7", Dark: "#38BDF8"}

// Cherry - Errors and failure toasts
var Cherry = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1917"}

// SurfaceDim - Header and sidebar background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#FDF2F8", Dark: "#292524"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E7E5E4", Dark: "#44403C"}

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1C1917", Dark: "#F5F5F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#57534E", Dark: "#D6D3D1"}

// TextMuted - Hints, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#A8A29E", Dark: "#78716C"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1917"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#DB2777", Dark: "#9D174D"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FCE7F3"}

var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#292524", Dark: "#E7E5E4"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#E7E5E4", Dark: "#57534E"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet contains text indicators that accompany colors.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
}

// StatusIndicators are shown next to colored text so state never depends
// on color alone.
var StatusIndicators = StatusIndicatorSet{
	Success: "✓",
	Error:   "✗",
	Warning: "!",
	Info:    "i",
}

// RenderSuccess renders a success message with its indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Mint).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with its indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Cherry).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning message with its indicator.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).
		Render(StatusIndicators.Warning + " " + message)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styles for the line-mode commands.
//
// Colors are disabled for non-TTY output and honor NO_COLOR / FORCE_COLOR.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docildos/internal/ui/styles"
)

// init configures lipgloss color profile based on terminal capabilities.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	// TitleStyle is used for command titles and banners
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Rose)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(26)

	// ValueStyle is used for regular values
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// SuccessStyle is used for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Mint).
			Bold(true)

	// ErrorStyle is used for error messages and failures
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Cherry).
			Bold(true)

	// WarningStyle is used for warnings
	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// DimStyle is used for hints and secondary notes
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// CommandStyle highlights commands the user can type
	CommandStyle = lipgloss.NewStyle().
			Foreground(styles.Chocolate)

	// PromptStyle is the REPL prompt
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// SeparatorStyle draws horizontal rules
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(styles.Overlay)
)

// Separator returns a horizontal rule of the given width.
func Separator(width int) string {
	return SeparatorStyle.Render(strings.Repeat("─", max(width, 1)))
}

// KeyValue renders one "label value" line.
func KeyValue(label string, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

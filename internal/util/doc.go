// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the terminal UI, the CLI and
// the config layer.
//
// # Key Functions
//
// Display width:
//   - TruncateWidth, PadRight, StringWidth: column-aware (go-runewidth)
//   - WrapWords: word wrapping for plain-text output
//
// Brazilian formatting:
//   - FormatCurrency: "R$ 1.240,00"
//   - FormatDeliveryDate: "Hoje", "Amanhã" or "sex, 24 de out"
//   - FormatPrepTime: "3h", "1h 30min", "45 min"
//
// Files:
//   - AtomicWriteFile: crash-safe writes with fsync and rename
package util

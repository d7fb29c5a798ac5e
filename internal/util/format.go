// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

var (
	weekdaysPT = [...]string{"dom", "seg", "ter", "qua", "qui", "sex", "sáb"}
	monthsPT   = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}
)

// FormatCurrency formats v as Brazilian reais, e.g. "R$ 1.240,00".
func FormatCurrency(v float64) string {
	return ptBR.Sprintf("R$ %v", number.Decimal(v, number.Scale(2)))
}

// FormatInt formats n with pt-BR digit grouping.
func FormatInt(n int) string {
	return ptBR.Sprintf("%v", number.Decimal(n))
}

// FormatDeliveryDate renders d relative to now: "Hoje", "Amanhã", or a short
// pt-BR date such as "sex, 24 de out".
func FormatDeliveryDate(d, now time.Time) string {
	d = d.In(now.Location())
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case day.Equal(today):
		return "Hoje"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "Amanhã"
	}
	return fmt.Sprintf("%s, %d de %s", weekdaysPT[d.Weekday()], d.Day(), monthsPT[d.Month()-1])
}

// FormatPrepTime renders a duration in minutes: "45 min", "3h", "1h 30min".
func FormatPrepTime(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dmin", h, m)
}

// FormatClock renders t as "15:04".
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// Package dashboard renders an analytics.Report: as an HTML page with
// charts for the browser, or as plain text for a terminal.
package dashboard

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02 15:04:05"

// Money formats a profit figure with thousands separators and two decimals.
// Halves round to even.
func Money(d decimal.Decimal) string {
	return humanize.FormatFloat("#,###.##", d.RoundBank(2).InexactFloat64())
}

// Fixed2 formats d with two decimals and no grouping. Halves round to even.
func Fixed2(d decimal.Decimal) string {
	return d.RoundBank(2).StringFixed(2)
}

// Percent formats a 0-100 ratio with one decimal.
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

package dashboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/rustyeddy/tradedash/analytics"
)

const rule = "--------------------------------------------------"

// PrintReport writes r as a plain-text report.
func PrintReport(w io.Writer, r *analytics.Report) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " MT5 Expert Advisor — Performance Analytics")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Source:        %s\n", r.Source)
	fmt.Fprintf(w, "Loaded:        %s\n", formatTime(r.LoadedAt))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Data Snapshot")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, strings.Join(r.Columns, " | "))
	for _, row := range r.Preview {
		fmt.Fprintln(w, strings.Join(row, " | "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, rule)
	for _, m := range Metrics(r) {
		fmt.Fprintf(w, "%-14s %s\n", m.Label+":", m.Value)
	}
	fmt.Fprintf(w, "%-14s %d\n", "Wins:", r.KPIs.Wins)
	fmt.Fprintf(w, "%-14s %d\n", "Losses:", r.KPIs.Losses)
	if r.KPIs.ProfitFactor > 0 {
		fmt.Fprintf(w, "%-14s %.2f\n", "Profit Factor:", r.KPIs.ProfitFactor)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Profit by Instrument")
	fmt.Fprintln(w, rule)
	for _, s := range r.BySymbol {
		fmt.Fprintf(w, "%-14s %12s  (%d trades)\n", s.Symbol, Money(s.Profit), s.Trades)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk Metrics")
	fmt.Fprintln(w, rule)
	for _, m := range RiskMetrics(r) {
		fmt.Fprintf(w, "%-14s %s\n", m.Label+":", m.Value)
	}
	if !r.MaxDrawdownAt.IsZero() && r.MaxDrawdown.IsNegative() {
		fmt.Fprintf(w, "%-14s %s\n", "Reached:", formatTime(r.MaxDrawdownAt))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Daily Profit Distribution per Instrument")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-10s %5s %10s %10s %10s %10s %10s\n", "Symbol", "Days", "Min", "Q1", "Median", "Q3", "Max")
	for _, b := range r.DailyBoxes {
		fmt.Fprintf(w, "%-10s %5d %10.2f %10.2f %10.2f %10.2f %10.2f\n",
			b.Symbol, b.Days, b.Min, b.Q1, b.Median, b.Q3, b.Max)
	}
	fmt.Fprintln(w)
}

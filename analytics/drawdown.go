package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// DrawdownPoint is the distance of the equity curve below its running peak.
type DrawdownPoint struct {
	Time     time.Time       `json:"time"`
	Equity   decimal.Decimal `json:"equity"`
	Peak     decimal.Decimal `json:"peak"`
	Drawdown decimal.Decimal `json:"drawdown"` // Equity - Peak, never positive
}

// Drawdowns walks an equity curve in order. The peak starts at the first
// equity value, so the first drawdown is always zero.
func Drawdowns(curve []EquityPoint) []DrawdownPoint {
	out := make([]DrawdownPoint, len(curve))
	var peak decimal.Decimal
	for i, p := range curve {
		if i == 0 || p.Cumulative.GreaterThan(peak) {
			peak = p.Cumulative
		}
		out[i] = DrawdownPoint{
			Time:     p.Time,
			Equity:   p.Cumulative,
			Peak:     peak,
			Drawdown: p.Cumulative.Sub(peak),
		}
	}
	return out
}

// MaxDrawdown returns the deepest point of dd, the earliest one on ties.
// It returns false when dd is empty.
func MaxDrawdown(dd []DrawdownPoint) (DrawdownPoint, bool) {
	if len(dd) == 0 {
		return DrawdownPoint{}, false
	}
	worst := dd[0]
	for _, p := range dd[1:] {
		if p.Drawdown.LessThan(worst.Drawdown) {
			worst = p
		}
	}
	return worst, true
}

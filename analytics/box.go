package analytics

import (
	"cmp"
	"slices"
)

// BoxStats is the five-number summary of one symbol's daily profits.
type BoxStats struct {
	Symbol string  `json:"symbol"`
	Days   int     `json:"days"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Values returns the summary in the min, Q1, median, Q3, max order box
// plots expect.
func (b BoxStats) Values() []float64 {
	return []float64{b.Min, b.Q1, b.Median, b.Q3, b.Max}
}

// DailyProfitDistribution summarizes the per-day profits of each symbol,
// ordered by symbol.
func DailyProfitDistribution(daily []DaySymbolProfit) []BoxStats {
	bySymbol := make(map[string][]float64)
	for _, d := range daily {
		bySymbol[d.Symbol] = append(bySymbol[d.Symbol], d.Profit.InexactFloat64())
	}

	out := make([]BoxStats, 0, len(bySymbol))
	for sym, vals := range bySymbol {
		slices.Sort(vals)
		out = append(out, BoxStats{
			Symbol: sym,
			Days:   len(vals),
			Min:    vals[0],
			Q1:     quantile(vals, 0.25),
			Median: quantile(vals, 0.5),
			Q3:     quantile(vals, 0.75),
			Max:    vals[len(vals)-1],
		})
	}
	slices.SortFunc(out, func(a, b BoxStats) int {
		return cmp.Compare(a.Symbol, b.Symbol)
	})
	return out
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

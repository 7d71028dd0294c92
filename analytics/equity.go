package analytics

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradedash/journal"
)

// EquityPoint is a trade plus the running total of realized profit up to
// and including it.
type EquityPoint struct {
	journal.TradeRecord
	Cumulative decimal.Decimal `json:"cumulative"`
}

// EquityCurve orders trades by Time and accumulates profit. The sort is
// stable: trades with equal timestamps keep their source order.
func EquityCurve(t *journal.Table) []EquityPoint {
	recs := t.Records()
	slices.SortStableFunc(recs, func(a, b journal.TradeRecord) int {
		return a.Time.Compare(b.Time)
	})

	out := make([]EquityPoint, len(recs))
	var sum decimal.Decimal
	for i, r := range recs {
		sum = sum.Add(r.Profit)
		out[i] = EquityPoint{TradeRecord: r, Cumulative: sum}
	}
	return out
}

// Package analytics derives summary statistics and time series from a
// journal.Table. Every function is a pure reduction over the snapshot; none
// of them modify the table.
package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradedash/journal"
)

// KPIs are the headline numbers of the dashboard.
type KPIs struct {
	TotalProfit decimal.Decimal `json:"total_profit"`
	Trades      int             `json:"trades"`
	Wins        int             `json:"wins"`
	Losses      int             `json:"losses"`

	// WinRate is the percentage of trades with profit > 0, in [0, 100].
	WinRate  float64         `json:"win_rate"`
	AvgTrade decimal.Decimal `json:"avg_trade"`

	GrossProfit decimal.Decimal `json:"gross_profit"`
	GrossLoss   decimal.Decimal `json:"gross_loss"` // <= 0

	// ProfitFactor is GrossProfit / |GrossLoss|, zero when nothing lost.
	ProfitFactor float64 `json:"profit_factor"`
}

// ComputeKPIs reduces every trade of t. The result does not depend on row
// order.
func ComputeKPIs(t *journal.Table) KPIs {
	var k KPIs
	k.Trades = t.Len()

	for i := 0; i < k.Trades; i++ {
		p := t.Record(i).Profit
		k.TotalProfit = k.TotalProfit.Add(p)
		switch {
		case p.IsPositive():
			k.Wins++
			k.GrossProfit = k.GrossProfit.Add(p)
		case p.IsNegative():
			k.Losses++
			k.GrossLoss = k.GrossLoss.Add(p)
		}
	}

	if k.Trades == 0 {
		return k
	}

	k.WinRate = float64(k.Wins) * 100 / float64(k.Trades)
	k.AvgTrade = k.TotalProfit.Div(decimal.NewFromInt(int64(k.Trades)))
	if !k.GrossLoss.IsZero() {
		k.ProfitFactor = k.GrossProfit.Div(k.GrossLoss.Abs()).InexactFloat64()
	}
	return k
}

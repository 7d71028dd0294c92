package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(date, symbol string, profit int64) DaySymbolProfit {
	return DaySymbolProfit{Date: date, Symbol: symbol, Profit: decimal.NewFromInt(profit), Trades: 1}
}

func TestDailyProfitDistribution(t *testing.T) {
	t.Parallel()

	got := DailyProfitDistribution([]DaySymbolProfit{
		day("d1", "GBPUSD", 7),
		day("d1", "EURUSD", 4),
		day("d2", "EURUSD", 1),
		day("d3", "EURUSD", 3),
		day("d4", "EURUSD", 2),
		day("d5", "EURUSD", 5),
	})
	require.Len(t, got, 2)

	eur := got[0]
	assert.Equal(t, "EURUSD", eur.Symbol)
	assert.Equal(t, 5, eur.Days)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, eur.Values())

	gbp := got[1]
	assert.Equal(t, "GBPUSD", gbp.Symbol)
	assert.Equal(t, []float64{7, 7, 7, 7, 7}, gbp.Values())
}

func TestQuantileInterpolates(t *testing.T) {
	t.Parallel()

	vals := []float64{10, 20, 30, 40}
	assert.InDelta(t, 10, quantile(vals, 0), 1e-9)
	assert.InDelta(t, 17.5, quantile(vals, 0.25), 1e-9)
	assert.InDelta(t, 25, quantile(vals, 0.5), 1e-9)
	assert.InDelta(t, 32.5, quantile(vals, 0.75), 1e-9)
	assert.InDelta(t, 40, quantile(vals, 1), 1e-9)
}

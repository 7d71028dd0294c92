package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradedash/journal"
)

var t0 = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

func trade(at time.Duration, symbol, typ string, profit float64, date string) journal.TradeRecord {
	return journal.TradeRecord{
		Time:   t0.Add(at),
		Symbol: symbol,
		Type:   typ,
		Profit: decimal.NewFromFloat(profit),
		Volume: decimal.NewFromInt(1),
		Date:   date,
	}
}

func table(recs ...journal.TradeRecord) *journal.Table {
	return journal.NewTable("test", journal.RequiredColumns, recs)
}

// scenario is the three-trade example: two EURUSD trades on day one and a
// GBPUSD winner on day two.
func scenario() *journal.Table {
	return table(
		trade(0, "EURUSD", "buy", 10, "2024-01-02"),
		trade(time.Hour, "EURUSD", "sell", -5, "2024-01-02"),
		trade(25*time.Hour, "GBPUSD", "buy", 20, "2024-01-03"),
	)
}

// randomTable builds n trades with cent-precision profits in shuffled time
// order, some sharing timestamps.
func randomTable(t *testing.T, seed int64, n int) *journal.Table {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	symbols := []string{"EURUSD", "GBPUSD", "USDJPY", "XAUUSD"}

	recs := make([]journal.TradeRecord, n)
	for i := range recs {
		at := time.Duration(rng.Intn(n*2)) * time.Hour
		cents := rng.Int63n(20001) - 10000
		recs[i] = journal.TradeRecord{
			Time:   t0.Add(at),
			Symbol: symbols[rng.Intn(len(symbols))],
			Type:   "buy",
			Profit: decimal.New(cents, -2),
			Volume: decimal.NewFromInt(1),
			Date:   t0.Add(at).Format("2006-01-02"),
		}
	}
	return table(recs...)
}

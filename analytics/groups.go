package analytics

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradedash/journal"
)

// SymbolProfit is the summed profit of one instrument.
type SymbolProfit struct {
	Symbol string          `json:"symbol"`
	Profit decimal.Decimal `json:"profit"`
	Trades int             `json:"trades"`
}

// DaySymbolProfit is the summed profit of one instrument on one day.
type DaySymbolProfit struct {
	Date   string          `json:"date"`
	Symbol string          `json:"symbol"`
	Profit decimal.Decimal `json:"profit"`
	Trades int             `json:"trades"`
}

// ProfitBySymbol sums profit per symbol, best instrument first. Symbols
// with equal profit are ordered by name.
func ProfitBySymbol(t *journal.Table) []SymbolProfit {
	idx := make(map[string]int)
	var out []SymbolProfit
	for i := 0; i < t.Len(); i++ {
		r := t.Record(i)
		j, ok := idx[r.Symbol]
		if !ok {
			j = len(out)
			idx[r.Symbol] = j
			out = append(out, SymbolProfit{Symbol: r.Symbol})
		}
		out[j].Profit = out[j].Profit.Add(r.Profit)
		out[j].Trades++
	}

	slices.SortFunc(out, func(a, b SymbolProfit) int {
		if c := b.Profit.Cmp(a.Profit); c != 0 {
			return c
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})
	return out
}

// DailyProfitBySymbol sums profit per (Date, Symbol) pair, ordered by date
// then symbol.
func DailyProfitBySymbol(t *journal.Table) []DaySymbolProfit {
	type key struct{ date, symbol string }

	idx := make(map[key]int)
	var out []DaySymbolProfit
	for i := 0; i < t.Len(); i++ {
		r := t.Record(i)
		k := key{r.Date, r.Symbol}
		j, ok := idx[k]
		if !ok {
			j = len(out)
			idx[k] = j
			out = append(out, DaySymbolProfit{Date: r.Date, Symbol: r.Symbol})
		}
		out[j].Profit = out[j].Profit.Add(r.Profit)
		out[j].Trades++
	}

	slices.SortFunc(out, func(a, b DaySymbolProfit) int {
		if c := cmp.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})
	return out
}

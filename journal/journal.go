// Package journal loads and stores the closed-trade records produced by an
// Expert Advisor. A loaded Table is an immutable snapshot: analytics read it,
// nothing writes to it.
package journal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CSV headers the dashboard depends on. Extra columns are ignored.
const (
	ColTime   = "Time"
	ColSymbol = "Symbol"
	ColType   = "Type"
	ColProfit = "Profit"
	ColVolume = "Volume"
	ColEquity = "Equity"
	ColDate   = "Date"
)

// RequiredColumns lists the headers every trade file must carry.
var RequiredColumns = []string{ColTime, ColSymbol, ColType, ColProfit, ColVolume, ColEquity, ColDate}

// TradeRecord is one closed trade.
type TradeRecord struct {
	TradeID string          `json:"trade_id"`
	Time    time.Time       `json:"time"`
	Symbol  string          `json:"symbol"`
	Type    string          `json:"type"`
	Profit  decimal.Decimal `json:"profit"`
	Volume  decimal.Decimal `json:"volume"`
	Equity  decimal.Decimal `json:"equity"`

	// Date is the trading day as written in the source file. Day-level
	// grouping compares it verbatim.
	Date string `json:"date"`
}

// Win reports whether the trade closed with a strictly positive profit.
func (t TradeRecord) Win() bool {
	return t.Profit.IsPositive()
}

// Loss reports whether the trade closed with a strictly negative profit.
func (t TradeRecord) Loss() bool {
	return t.Profit.IsNegative()
}

// Cells returns the record's fields in RequiredColumns order, formatted the
// way ReadCSV accepts them.
func (t TradeRecord) Cells() []string {
	return []string{
		t.Time.Format(time.RFC3339Nano),
		t.Symbol,
		t.Type,
		t.Profit.String(),
		t.Volume.String(),
		t.Equity.String(),
		t.Date,
	}
}

// Table is an ordered, read-only set of trade records.
type Table struct {
	Source   string
	Columns  []string
	LoadedAt time.Time

	records []TradeRecord
	raw     [][]string // source cells per record, nil when not read from text
}

// NewTable copies records and columns into a new Table.
func NewTable(source string, columns []string, records []TradeRecord) *Table {
	return &Table{
		Source:   source,
		Columns:  append([]string(nil), columns...),
		LoadedAt: time.Now(),
		records:  append([]TradeRecord(nil), records...),
	}
}

// Len returns the number of trades.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Empty reports whether the table holds no trades.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Record returns the i'th trade in source order.
func (t *Table) Record(i int) TradeRecord {
	return t.records[i]
}

// Records returns a copy of all trades in source order. Callers may sort or
// modify the result freely.
func (t *Table) Records() []TradeRecord {
	if t == nil {
		return nil
	}
	return append([]TradeRecord(nil), t.records...)
}

// Preview returns at most n leading rows as cells aligned with Columns.
// Rows read from a file are returned exactly as written, extra columns
// included. Otherwise cells are formatted from the records, and columns
// the record does not carry are left blank.
func (t *Table) Preview(n int) [][]string {
	if n > t.Len() {
		n = t.Len()
	}
	if n <= 0 {
		return nil
	}

	out := make([][]string, n)
	if t.raw != nil {
		for i, row := range t.raw[:n] {
			cells := make([]string, len(t.Columns))
			copy(cells, row)
			out[i] = cells
		}
		return out
	}

	pos := make(map[string]int, len(RequiredColumns))
	for i, c := range RequiredColumns {
		pos[c] = i
	}
	for i, rec := range t.records[:n] {
		src := rec.Cells()
		cells := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			if k, ok := pos[c]; ok {
				cells[j] = src[k]
			}
		}
		out[i] = cells
	}
	return out
}

// Journal is a sink for trade records.
type Journal interface {
	RecordTrade(TradeRecord) error
	Close() error
}

// Copy records every trade of t into dst in source order.
func Copy(dst Journal, t *Table) error {
	for i := 0; i < t.Len(); i++ {
		r := t.Record(i)
		if err := dst.RecordTrade(r); err != nil {
			return fmt.Errorf("record trade %s: %w", r.TradeID, err)
		}
	}
	return nil
}

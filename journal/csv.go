package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradedash/pkg/id"
)

// DefaultPath is where the EA post-processing step writes closed trades.
const DefaultPath = "data/processed/exits_processed.csv"

// timeLayouts are tried in order. Zone-less layouts are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006.01.02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006.01.02 15:04",
	"2006-01-02",
}

// ParseTime parses a trade timestamp in any of the accepted layouts.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadTime
}

// LoadCSV reads the trade file at path.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()

	return ReadCSV(f, path)
}

// ReadCSV parses a header-first CSV of closed trades. An empty file is
// reported before a missing column, and both before any value is parsed.
func ReadCSV(r io.Reader, source string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, source, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyData)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	if err := CheckColumns(header); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	records := make([]TradeRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row, idx, i+2)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		records = append(records, rec)
	}

	t := NewTable(source, header, records)
	t.raw = rows[1:]
	return t, nil
}

func parseRow(row []string, idx map[string]int, line int) (TradeRecord, error) {
	field := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec TradeRecord

	ts := field(ColTime)
	t, err := ParseTime(ts)
	if err != nil {
		return rec, &ParseError{Line: line, Column: ColTime, Value: ts, Err: err}
	}
	rec.Time = t

	nums := []struct {
		col string
		dst *decimal.Decimal
	}{
		{ColProfit, &rec.Profit},
		{ColVolume, &rec.Volume},
		{ColEquity, &rec.Equity},
	}
	for _, n := range nums {
		v := field(n.col)
		d, err := decimal.NewFromString(v)
		if err != nil {
			return rec, &ParseError{Line: line, Column: n.col, Value: v, Err: err}
		}
		*n.dst = d
	}

	rec.Symbol = field(ColSymbol)
	rec.Type = field(ColType)
	rec.Date = field(ColDate)
	rec.TradeID = id.ForTime(rec.Time)
	return rec, nil
}

// CSVJournal writes trades in the same layout ReadCSV accepts.
type CSVJournal struct {
	w *csv.Writer
	f *os.File
}

// NewCSV creates path and writes the header row.
func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(RequiredColumns); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSVJournal{w: w, f: f}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	if err := j.w.Write(t.Cells()); err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}

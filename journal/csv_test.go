package journal

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Time,Symbol,Type,Profit,Volume,Equity,Date
2024-01-02 09:00:00,EURUSD,buy,10,1,1010,2024-01-02
2024-01-02 15:30:00,EURUSD,sell,-5,1,1005,2024-01-02
2024-01-03 10:00:00,GBPUSD,buy,20,1,1025,2024-01-03
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	t.Parallel()

	tbl, err := ReadCSV(strings.NewReader(sampleCSV), "sample")
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, "sample", tbl.Source)
	assert.Equal(t, RequiredColumns, tbl.Columns)

	first := tbl.Record(0)
	assert.True(t, first.Time.Equal(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, "EURUSD", first.Symbol)
	assert.Equal(t, "buy", first.Type)
	assert.True(t, first.Profit.Equal(decimal.NewFromInt(10)))
	assert.True(t, first.Equity.Equal(decimal.NewFromInt(1010)))
	assert.Equal(t, "2024-01-02", first.Date)
	assert.NotEmpty(t, first.TradeID)

	second := tbl.Record(1)
	assert.True(t, second.Profit.Equal(decimal.NewFromInt(-5)))
	assert.True(t, second.Loss())
	assert.False(t, second.Win())
}

func TestReadCSVExtraColumnsAndOrder(t *testing.T) {
	t.Parallel()

	body := "Ticket,Date,Equity,Volume,Profit,Type,Symbol,Time,Comment\n" +
		"42,2024-02-01,990.5,0.10,-9.5,sell,USDJPY,2024.02.01 08:15:00,sl\n"

	tbl, err := ReadCSV(strings.NewReader(body), "reordered")
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())

	rec := tbl.Record(0)
	assert.Equal(t, "USDJPY", rec.Symbol)
	assert.Equal(t, "sell", rec.Type)
	assert.Equal(t, "-9.5", rec.Profit.String())
	assert.Equal(t, "0.1", rec.Volume.String())
	assert.True(t, rec.Time.Equal(time.Date(2024, 2, 1, 8, 15, 0, 0, time.UTC)))
}

func TestReadCSVMissingColumn(t *testing.T) {
	t.Parallel()

	body := "Time,Symbol,Type,Profit,Volume,Date\n" +
		"2024-01-02 09:00:00,EURUSD,buy,10,1,2024-01-02\n"

	_, err := ReadCSV(strings.NewReader(body), "no-equity")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"Equity"}, se.Missing)
}

func TestReadCSVEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"no bytes", ""},
		{"header only", "Time,Symbol,Type,Profit,Volume,Equity,Date\n"},
		// Emptiness is reported ahead of the schema, as the dashboard always has.
		{"header only missing columns", "Time,Symbol\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.body), tt.name)
			assert.ErrorIs(t, err, ErrEmptyData)
		})
	}
}

func TestReadCSVBadValues(t *testing.T) {
	t.Parallel()

	header := "Time,Symbol,Type,Profit,Volume,Equity,Date\n"
	tests := []struct {
		name   string
		row    string
		column string
		isTime bool
	}{
		{"bad time", "yesterday,EURUSD,buy,1,1,1,2024-01-01", ColTime, true},
		{"bad profit", "2024-01-01 00:00:00,EURUSD,buy,lots,1,1,2024-01-01", ColProfit, false},
		{"bad volume", "2024-01-01 00:00:00,EURUSD,buy,1,,1,2024-01-01", ColVolume, false},
		{"bad equity", "2024-01-01 00:00:00,EURUSD,buy,1,1,n/a,2024-01-01", ColEquity, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(header+tt.row+"\n"), tt.name)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, 2, pe.Line)
			assert.Equal(t, tt.column, pe.Column)
			assert.Equal(t, tt.isTime, errors.Is(err, ErrBadTime))
		})
	}
}

func TestParseTimeLayouts(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	for _, s := range []string{
		"2024-03-05T14:30:00Z",
		"2024-03-05 14:30:00",
		"2024.03.05 14:30:00",
		"2024-03-05T14:30:00",
		"2024-03-05 14:30",
		"2024.03.05 14:30",
		" 2024-03-05 14:30:00 ",
	} {
		got, err := ParseTime(s)
		require.NoError(t, err, s)
		assert.True(t, got.Equal(want), "%q parsed as %s", s, got)
	}

	day, err := ParseTime("2024-03-05")
	require.NoError(t, err)
	assert.True(t, day.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))

	_, err = ParseTime("05/03/2024")
	assert.ErrorIs(t, err, ErrBadTime)
}

func TestLoadCSVMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadCSVFromDisk(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "exits.csv", sampleCSV)
	tbl, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, path, tbl.Source)
	assert.Equal(t, 3, tbl.Len())
}

func TestCSVJournalRoundTrip(t *testing.T) {
	t.Parallel()

	src, err := ReadCSV(strings.NewReader(sampleCSV), "sample")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)
	for _, rec := range src.Records() {
		require.NoError(t, j.RecordTrade(rec))
	}
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	header, err := csv.NewReader(strings.NewReader(string(data))).Read()
	require.NoError(t, err)
	assert.Equal(t, RequiredColumns, header)

	back, err := LoadCSV(path)
	require.NoError(t, err)
	require.Equal(t, src.Len(), back.Len())
	for i := 0; i < src.Len(); i++ {
		a, b := src.Record(i), back.Record(i)
		assert.True(t, a.Time.Equal(b.Time))
		assert.Equal(t, a.Symbol, b.Symbol)
		assert.True(t, a.Profit.Equal(b.Profit))
		assert.Equal(t, a.Date, b.Date)
	}
}

func TestTableIsReadOnly(t *testing.T) {
	t.Parallel()

	tbl, err := ReadCSV(strings.NewReader(sampleCSV), "sample")
	require.NoError(t, err)

	recs := tbl.Records()
	recs[0].Symbol = "XAUUSD"
	assert.Equal(t, "EURUSD", tbl.Record(0).Symbol)

	head := tbl.Preview(10)
	assert.Len(t, head, 3)
	assert.Len(t, tbl.Preview(2), 2)
	assert.Nil(t, tbl.Preview(0))

	head[0][1] = "XAUUSD"
	assert.Equal(t, "EURUSD", tbl.Preview(1)[0][1])
}

func TestPreviewKeepsSourceCells(t *testing.T) {
	t.Parallel()

	body := "Ticket,Time,Symbol,Type,Profit,Volume,Equity,Date,Comment\n" +
		"1001,2024-01-02T09:00:00.250+02:00,EURUSD,buy,10.50,0.10,1010.50,2024-01-02,tp hit\n" +
		"1002,2024-01-02T15:30:00+02:00,EURUSD,sell,-5,0.10,1005.50,2024-01-02\n"

	tbl, err := ReadCSV(strings.NewReader(body), "mt5")
	require.NoError(t, err)

	rows := tbl.Preview(5)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"1001", "2024-01-02T09:00:00.250+02:00", "EURUSD", "buy",
		"10.50", "0.10", "1010.50", "2024-01-02", "tp hit",
	}, rows[0])

	// Short rows are padded to the header width.
	assert.Len(t, rows[1], len(tbl.Columns))
	assert.Equal(t, "", rows[1][8])
}

func TestPreviewWithoutSourceCells(t *testing.T) {
	t.Parallel()

	src, err := ReadCSV(strings.NewReader(sampleCSV), "sample")
	require.NoError(t, err)

	tbl := NewTable("db", RequiredColumns, src.Records())
	rows := tbl.Preview(1)
	require.Len(t, rows, 1)
	assert.Equal(t, src.Record(0).Cells(), rows[0])
	assert.Equal(t, "2024-01-02T09:00:00Z", rows[0][0])

	extra := NewTable("db", append([]string{"Ticket"}, RequiredColumns...), src.Records())
	rows = extra.Preview(1)
	assert.Equal(t, "", rows[0][0])
	assert.Equal(t, "EURUSD", rows[0][2])
}

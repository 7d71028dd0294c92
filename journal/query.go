package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const selectTrades = `
	SELECT trade_id, time, symbol, type, profit, volume, equity, date
	FROM trades`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(s rowScanner) (TradeRecord, error) {
	var rec TradeRecord
	err := s.Scan(
		&rec.TradeID,
		&rec.Time,
		&rec.Symbol,
		&rec.Type,
		&rec.Profit,
		&rec.Volume,
		&rec.Equity,
		&rec.Date,
	)
	return rec, err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(ctx context.Context, tradeID string) (TradeRecord, error) {
	row := j.db.QueryRowContext(ctx, selectTrades+` WHERE trade_id = ?`, tradeID)
	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns every trade in insertion order.
func (j *SQLite) ListTrades(ctx context.Context) ([]TradeRecord, error) {
	return j.query(ctx, selectTrades+` ORDER BY rowid ASC`)
}

// ListTradesOnDate returns the trades of one trading day in insertion order.
func (j *SQLite) ListTradesOnDate(ctx context.Context, date string) ([]TradeRecord, error) {
	return j.query(ctx, selectTrades+` WHERE date = ? ORDER BY rowid ASC`, date)
}

// CountTrades returns the number of stored trades.
func (j *SQLite) CountTrades(ctx context.Context) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trades`).Scan(&n)
	return n, err
}

func (j *SQLite) query(ctx context.Context, q string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

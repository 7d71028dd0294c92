package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a trade journal backed by a SQLite database. Trades imported
// from a CSV keep their source order, so a table read back matches the file
// it came from.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

const insertTrade = `
	INSERT INTO trades
	(trade_id, time, symbol, type, profit, volume, equity, date)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(insertTrade,
		t.TradeID, t.Time.UTC(), t.Symbol, t.Type,
		t.Profit, t.Volume, t.Equity, t.Date,
	)
	return err
}

// RecordTable inserts every trade of t in a single transaction.
func (j *SQLite) RecordTable(ctx context.Context, t *Table) (err error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertTrade)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < t.Len(); i++ {
		r := t.Record(i)
		if _, err = stmt.ExecContext(ctx,
			r.TradeID, r.Time.UTC(), r.Symbol, r.Type,
			r.Profit, r.Volume, r.Equity, r.Date,
		); err != nil {
			return fmt.Errorf("insert trade %s: %w", r.TradeID, err)
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

// Package history caches daily price candles in SQLite so repeated
// analysis runs do not refetch unchanged history. Simulation results are
// never persisted here; only raw market data is.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/heyitsmejosh/stonks/internal/database"
	"github.com/heyitsmejosh/stonks/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS daily_candles (
	symbol TEXT NOT NULL,
	day    TEXT NOT NULL,
	ts     INTEGER NOT NULL,
	open   REAL NOT NULL,
	high   REAL NOT NULL,
	low    REAL NOT NULL,
	close  REAL NOT NULL,
	PRIMARY KEY (symbol, day)
);
CREATE INDEX IF NOT EXISTS idx_daily_candles_symbol_ts ON daily_candles(symbol, ts);
`

// Repository reads and writes cached candles.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates the repository and its schema.
func NewRepository(db *database.DB, log zerolog.Logger) (*Repository, error) {
	if _, err := db.Conn().Exec(schema); err != nil {
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Repository{
		db:  db,
		log: log.With().Str("component", "history").Logger(),
	}, nil
}

// SaveSeries upserts the candles of one symbol.
func (r *Repository) SaveSeries(ctx context.Context, symbol string, series domain.PriceSeries) error {
	tx, err := r.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_candles (symbol, day, ts, open, high, low, close)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, day) DO UPDATE SET
			ts = excluded.ts, open = excluded.open, high = excluded.high,
			low = excluded.low, close = excluded.close`)
	if err != nil {
		return fmt.Errorf("prepare candle upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range series {
		day := c.Time.UTC().Format("2006-01-02")
		if _, err := stmt.ExecContext(ctx, symbol, day, c.Time.Unix(), c.Open, c.High, c.Low, c.Close); err != nil {
			return fmt.Errorf("upsert candle %s %s: %w", symbol, day, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history tx: %w", err)
	}

	r.log.Debug().Str("symbol", symbol).Int("candles", len(series)).Msg("Series cached")
	return nil
}

// LoadSeries returns the cached candles for a symbol since the given time,
// in chronological order.
func (r *Repository) LoadSeries(ctx context.Context, symbol string, since time.Time) (domain.PriceSeries, error) {
	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT ts, open, high, low, close FROM daily_candles
		WHERE symbol = ? AND ts >= ? ORDER BY ts ASC`, symbol, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("query candles for %s: %w", symbol, err)
	}
	defer rows.Close()

	var series domain.PriceSeries
	for rows.Next() {
		var ts int64
		var c domain.Candle
		if err := rows.Scan(&ts, &c.Open, &c.High, &c.Low, &c.Close); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		c.Time = time.Unix(ts, 0).UTC()
		series = append(series, c)
	}
	return series, rows.Err()
}

// LastDay returns the timestamp of the most recent cached candle for a
// symbol, or the zero time when nothing is cached.
func (r *Repository) LastDay(ctx context.Context, symbol string) (time.Time, error) {
	var ts sql.NullInt64
	err := r.db.Conn().QueryRowContext(ctx,
		`SELECT MAX(ts) FROM daily_candles WHERE symbol = ?`, symbol).Scan(&ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("query last day for %s: %w", symbol, err)
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return time.Unix(ts.Int64, 0).UTC(), nil
}

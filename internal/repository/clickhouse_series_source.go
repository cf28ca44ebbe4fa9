package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"CryptoBasket/internal/domain/models"
	domrepo "CryptoBasket/internal/domain/repository"
	pkgch "CryptoBasket/pkg/clickhouse"
	applogger "CryptoBasket/pkg/logger"
)

// DailyPricesSchema returns the DDL for the daily price table.
func DailyPricesSchema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
            symbol LowCardinality(String),
            date   Date,
            open   Nullable(Float64),
            high   Nullable(Float64),
            low    Nullable(Float64),
            close  Float64,
            volume Nullable(Float64)
        ) ENGINE = ReplacingMergeTree ORDER BY (symbol, date)`, database, table),
	}
}

// CHSeriesSource implements SeriesSource backed by ClickHouse.
type CHSeriesSource struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

// NewCHSeriesSource reads from the fully qualified table (db.table).
func NewCHSeriesSource(ch *pkgch.Client, table string) *CHSeriesSource {
	return &CHSeriesSource{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHSeriesSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSeriesSource) Fetch(ctx context.Context, symbol string) ([]models.PriceRecord, error) {
	start := time.Now()
	const qtpl = `
        SELECT date, open, high, low, close, volume
        FROM %s FINAL
        WHERE symbol = ?
        ORDER BY date ASC
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol)
	if err != nil {
		s.logError("query", symbol, err)
		return nil, fmt.Errorf("get daily prices: %w", err)
	}
	defer rows.Close()

	out := make([]models.PriceRecord, 0, 2048)
	for rows.Next() {
		var r models.PriceRecord
		if err := rows.Scan(&r.Date, &r.Open, &r.High, &r.Low, &r.Close, &r.Volume); err != nil {
			s.logError("scan", symbol, err)
			return nil, fmt.Errorf("scan daily price: %w", err)
		}
		if math.IsNaN(r.Close) || math.IsInf(r.Close, 0) {
			continue
		}
		r.Date = r.Date.UTC()
		if n := len(out); n > 0 && out[n-1].Date.Equal(r.Date) {
			out[n-1] = r
			continue
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		s.logError("rows", symbol, err)
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse daily_prices ok",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHSeriesSource) logError(stage, symbol string, err error) {
	if s.l == nil {
		return
	}
	s.l.Error("clickhouse daily_prices "+stage+" error",
		applogger.String("table", s.table),
		applogger.String("symbol", symbol),
		applogger.Error(err),
	)
}

var _ domrepo.SeriesSource = (*CHSeriesSource)(nil)

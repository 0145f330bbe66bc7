package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"FinPanel/internal/domain/models"
	drepo "FinPanel/internal/domain/repository"
	xlogger "FinPanel/pkg/logger"
)

// ClickHouseTradeSource loads the executed-trade ledger from a ClickHouse
// table with columns (trade_date Date, ticker String, price Float64,
// quantity Float64, direction String).
type ClickHouseTradeSource struct {
	db     *sql.DB
	table  string
	logger *xlogger.Logger
}

// NewClickHouseTradeSource creates a ClickHouse-backed TradeSource.
func NewClickHouseTradeSource(db *sql.DB, table string, logger *xlogger.Logger) drepo.TradeSource {
	return &ClickHouseTradeSource{db: db, table: table, logger: logger}
}

func (s *ClickHouseTradeSource) Load(ctx context.Context) ([]models.TradeRecord, error) {
	q := fmt.Sprintf("SELECT trade_date, ticker, price, quantity, direction FROM %s ORDER BY trade_date", s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		// a missing table and an unreachable server both mean the ledger
		// backing store is gone
		return nil, fmt.Errorf("query %s: %v: %w", s.table, err, models.ErrSourceUnavailable)
	}
	defer rows.Close()

	var trades []models.TradeRecord
	line := 1
	for rows.Next() {
		line++
		var (
			date      time.Time
			ticker    string
			price     float64
			quantity  float64
			direction string
		)
		if err := rows.Scan(&date, &ticker, &price, &quantity, &direction); err != nil {
			return nil, &models.MalformedRecordError{Row: line, Field: "row", Cause: err}
		}
		rec, err := coerceStored(line, date, ticker, price, quantity, direction)
		if err != nil {
			return nil, err
		}
		trades = append(trades, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}

	if trades == nil {
		trades = []models.TradeRecord{}
	}
	s.logger.Info("loaded trades", xlogger.Int("count", len(trades)), xlogger.String("table", s.table))
	return trades, nil
}

// coerceStored applies the same schema invariants as the CSV path.
func coerceStored(line int, date time.Time, ticker string, price, quantity float64, direction string) (models.TradeRecord, error) {
	ticker = strings.TrimSpace(ticker)
	direction = strings.TrimSpace(direction)
	if ticker == "" {
		return models.TradeRecord{}, &models.MalformedRecordError{Row: line, Field: "ticker", Cause: fmt.Errorf("empty ticker")}
	}
	if direction == "" {
		return models.TradeRecord{}, &models.MalformedRecordError{Row: line, Field: "direction", Cause: fmt.Errorf("empty direction")}
	}
	p := decimal.NewFromFloat(price)
	if !p.IsPositive() {
		return models.TradeRecord{}, &models.MalformedRecordError{Row: line, Field: "price", Cause: fmt.Errorf("price must be positive, got %v", price)}
	}
	return models.TradeRecord{
		Date:      time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Symbol:    ticker,
		Price:     p,
		Quantity:  decimal.NewFromFloat(quantity),
		Direction: direction,
	}, nil
}

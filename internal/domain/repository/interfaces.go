package repository

import (
	"context"
	"time"

	"FinPanel/internal/domain/models"
)

// TradeSource loads the executed-trade ledger. A missing backing store is
// models.ErrSourceUnavailable; an empty ledger is an empty slice, not an
// error.
type TradeSource interface {
	Load(ctx context.Context) ([]models.TradeRecord, error)
}

// QuoteProvider returns the daily price history for one instrument over
// [start, end). A provider with no data in range returns an empty series,
// not an error; transport or provider failures are *models.FetchError.
type QuoteProvider interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) (models.PriceSeries, error)
}

type Metrics interface {
	RecordFetch(symbol string, bars int)
	RecordError(kind string)
	RecordLastClose(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	RecordPanelCache(hit bool)
	RecordCalendarSize(days int)
}

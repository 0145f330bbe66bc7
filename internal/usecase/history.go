package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FinPanel/internal/domain/models"
	drepo "FinPanel/internal/domain/repository"
	xlogger "FinPanel/pkg/logger"
	"FinPanel/pkg/util"
)

// PriceHistory downloads per-symbol daily history and memoizes one aligned
// panel for the lifetime of the service.
//
// The cache is deliberately coarse: the first successful computation is
// reused for every later call regardless of the requested symbol set, until
// Clear. That trades precision for simplicity in a single-portfolio batch
// context; callers that need per-symbol-set caching must wrap this service.
type PriceHistory struct {
	provider drepo.QuoteProvider
	metrics  drepo.Metrics
	logger   *xlogger.Logger
	start    time.Time
	now      func() time.Time

	mu    sync.Mutex
	panel *models.AlignedPanel
}

// HistoryOption configures PriceHistory.
type HistoryOption func(*PriceHistory)

// WithClock overrides the wall clock. Used by tests to pin "tomorrow".
func WithClock(now func() time.Time) HistoryOption {
	return func(h *PriceHistory) {
		h.now = now
	}
}

// NewPriceHistory creates the history service. start is the first day of
// the requested window; the exclusive end is always tomorrow so today's bar
// is included.
func NewPriceHistory(provider drepo.QuoteProvider, metrics drepo.Metrics, logger *xlogger.Logger, start time.Time, opts ...HistoryOption) *PriceHistory {
	h := &PriceHistory{
		provider: provider,
		metrics:  metrics,
		logger:   logger,
		start:    util.Day(start),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GetOrCompute returns the cached aligned panel, or fetches every requested
// symbol sequentially, aligns, and caches the result. A fetch failure
// propagates uncached and leaves any prior panel untouched, so the next
// call re-attempts the full fetch+align. The returned panel is shared;
// callers must treat it as read-only.
func (h *PriceHistory) GetOrCompute(ctx context.Context, symbols []string) (models.AlignedPanel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.panel != nil {
		h.metrics.RecordPanelCache(true)
		return *h.panel, nil
	}
	h.metrics.RecordPanelCache(false)

	end := util.Tomorrow(h.now())
	seriesBySymbol := make(map[string]models.PriceSeries, len(symbols))
	for _, symbol := range symbols {
		h.logger.Info("downloading price history",
			xlogger.String("symbol", symbol),
			xlogger.String("start", util.FormatDay(h.start)),
			xlogger.String("end", util.FormatDay(end)),
		)
		series, err := h.provider.Fetch(ctx, symbol, h.start, end)
		if err != nil {
			h.logger.Error("price history download failed", xlogger.String("symbol", symbol), xlogger.Error(err))
			return models.AlignedPanel{}, fmt.Errorf("price history: %w", err)
		}
		seriesBySymbol[symbol] = series
	}

	alignStart := time.Now()
	panel := Align(seriesBySymbol)
	h.metrics.RecordLatency("align", time.Since(alignStart).Seconds())
	h.metrics.RecordCalendarSize(len(panel.Calendar))

	h.panel = &panel
	h.logger.Info("aligned price history",
		xlogger.Int("symbols", len(panel.Series)),
		xlogger.Int("calendar_days", len(panel.Calendar)),
	)
	return panel, nil
}

// Clear drops the cached panel unconditionally. Idempotent.
func (h *PriceHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panel = nil
	h.logger.Debug("panel cache cleared")
}

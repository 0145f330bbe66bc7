package stooq

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"FinPanel/internal/domain/models"
	drepo "FinPanel/internal/domain/repository"
	"FinPanel/internal/service/ratelimit"
	"FinPanel/pkg/cache"
	xhttp "FinPanel/pkg/http"
	xlogger "FinPanel/pkg/logger"
	"FinPanel/pkg/util"
)

// Client implements a QuoteProvider backed by the stooq.com daily CSV
// endpoint (GET /q/d/l/?s=<symbol>&d1=<from>&d2=<to>&i=d).
type Client struct {
	baseURL string
	suffix  string // listing suffix appended to lowercase symbols, e.g. ".us"

	http    *xhttp.Client
	limiter *ratelimit.Limiter
	rlCap   float64
	rlRate  float64

	quotes   cache.Service // optional raw-series cache, nil disables it
	quoteTTL time.Duration

	logger  *xlogger.Logger
	metrics drepo.Metrics
}

// Option configures the stooq client.
type Option func(*Client)

// WithRateLimit caps provider calls with a token bucket.
func WithRateLimit(capacity, refillPerSec float64) Option {
	return func(c *Client) {
		if capacity > 0 && refillPerSec > 0 {
			c.limiter = ratelimit.New()
			c.rlCap = capacity
			c.rlRate = refillPerSec
		}
	}
}

// WithQuoteCache memoizes raw per-symbol series for ttl. A panel-cache clear
// within the ttl re-aligns without re-downloading.
func WithQuoteCache(svc cache.Service, ttl time.Duration) Option {
	return func(c *Client) {
		c.quotes = svc
		c.quoteTTL = ttl
	}
}

// WithSymbolSuffix appends a listing suffix to every requested symbol.
func WithSymbolSuffix(suffix string) Option {
	return func(c *Client) {
		c.suffix = suffix
	}
}

// New creates a stooq QuoteProvider.
func New(baseURL string, httpClient *xhttp.Client, logger *xlogger.Logger, metrics drepo.Metrics, opts ...Option) drepo.QuoteProvider {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads the daily history for symbol over [start, end).
// No data in range yields an empty series; provider or transport failures
// yield *models.FetchError.
func (c *Client) Fetch(ctx context.Context, symbol string, start, end time.Time) (models.PriceSeries, error) {
	key := cache.Key("quotes", symbol, util.FormatDay(start), util.FormatDay(end))
	if c.quotes != nil {
		var cached models.PriceSeries
		if err := c.quotes.Get(ctx, key, &cached); err == nil {
			c.logger.Debug("quote cache hit", xlogger.String("symbol", symbol))
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn("quote cache read failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, "stooq", c.rlCap, c.rlRate); err != nil {
			return models.PriceSeries{}, &models.FetchError{Symbol: symbol, Cause: err}
		}
	}

	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: "GET",
		URL:    c.baseURL + "/q/d/l/",
		QueryParams: map[string][]string{
			"s": {strings.ToLower(symbol) + c.suffix},
			// stooq treats both bounds as inclusive; our end is exclusive
			"d1": {start.Format("20060102")},
			"d2": {end.AddDate(0, 0, -1).Format("20060102")},
			"i":  {"d"},
		},
	}, &body)
	if err != nil {
		c.metrics.RecordError("fetch")
		return models.PriceSeries{}, &models.FetchError{Symbol: symbol, Cause: err}
	}

	series, err := parseDailyCSV(symbol, body)
	if err != nil {
		c.metrics.RecordError("fetch_parse")
		return models.PriceSeries{}, &models.FetchError{Symbol: symbol, Cause: err}
	}

	c.metrics.RecordFetch(symbol, len(series.Points))
	if n := len(series.Points); n > 0 {
		c.metrics.RecordLastClose(symbol, series.Points[n-1].Close)
	}
	c.logger.Debug("downloaded daily bars",
		xlogger.String("symbol", symbol),
		xlogger.Int("bars", len(series.Points)),
	)

	if c.quotes != nil {
		if err := c.quotes.Set(ctx, key, series, c.quoteTTL); err != nil {
			c.logger.Warn("quote cache write failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		}
	}
	return series, nil
}

// parseDailyCSV parses the stooq CSV payload:
//
//	Date,Open,High,Low,Close,Volume
//	2024-01-02,185.54,186.40,183.92,185.64,82488700
//
// Symbols with no data in range answer with a "No data" body or a bare
// header; both map to an empty series.
func parseDailyCSV(symbol string, body []byte) (models.PriceSeries, error) {
	series := models.PriceSeries{Symbol: symbol}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || strings.EqualFold(trimmed, "no data") {
		return series, nil
	}

	r := csv.NewReader(strings.NewReader(trimmed))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return models.PriceSeries{}, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "close"} {
		if _, ok := col[required]; !ok {
			return models.PriceSeries{}, fmt.Errorf("missing column %q", required)
		}
	}

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.PriceSeries{}, fmt.Errorf("read row %d: %w", line, err)
		}

		if len(row) <= col["date"] || len(row) <= col["close"] {
			return models.PriceSeries{}, fmt.Errorf("row %d: truncated", line)
		}
		day, ok := util.ParseDay(row[col["date"]])
		if !ok {
			return models.PriceSeries{}, fmt.Errorf("row %d: bad date %q", line, row[col["date"]])
		}
		p := models.PricePoint{Day: day}
		if p.Close, err = strconv.ParseFloat(row[col["close"]], 64); err != nil {
			return models.PriceSeries{}, fmt.Errorf("row %d: bad close: %w", line, err)
		}
		// the remaining fields are optional context, not used for alignment
		p.Open = optionalFloat(row, col, "open")
		p.High = optionalFloat(row, col, "high")
		p.Low = optionalFloat(row, col, "low")
		p.Volume = optionalFloat(row, col, "volume")

		series.Points = append(series.Points, p)
	}

	sort.Slice(series.Points, func(i, j int) bool {
		return series.Points[i].Day.Before(series.Points[j].Day)
	})
	series.Points = dedupeDays(series.Points)
	return series, nil
}

func optionalFloat(row []string, col map[string]int, name string) float64 {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return 0
	}
	v, _ := strconv.ParseFloat(row[i], 64)
	return v
}

// dedupeDays keeps the last bar per day; input must be sorted by day.
func dedupeDays(points []models.PricePoint) []models.PricePoint {
	if len(points) < 2 {
		return points
	}
	out := points[:1]
	for _, p := range points[1:] {
		if p.Day.Equal(out[len(out)-1].Day) {
			out[len(out)-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

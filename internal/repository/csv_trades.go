package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"FinPanel/internal/domain/models"
	drepo "FinPanel/internal/domain/repository"
	xlogger "FinPanel/pkg/logger"
	"FinPanel/pkg/util"
)

var validate = validator.New()

// ledgerRow is one raw CSV row before coercion. Presence checks run through
// the validator; type coercion follows with explicit per-field errors.
type ledgerRow struct {
	Date      string `validate:"required"`
	Ticker    string `validate:"required"`
	Price     string `validate:"required"`
	Quantity  string `validate:"required"`
	Direction string `validate:"required"`
}

// CSVTradeSource loads the executed-trade ledger from a CSV export with the
// header Date,Ticker,Price,Quantity,Direction.
type CSVTradeSource struct {
	path   string
	logger *xlogger.Logger
}

// NewCSVTradeSource creates a CSV-backed TradeSource.
func NewCSVTradeSource(path string, logger *xlogger.Logger) drepo.TradeSource {
	return &CSVTradeSource{path: path, logger: logger}
}

// Load reads and validates every row. A missing file is
// models.ErrSourceUnavailable; the first uncoercible row aborts the load
// with *models.MalformedRecordError; a header-only file is an empty ledger,
// not an error.
func (s *CSVTradeSource) Load(ctx context.Context) ([]models.TradeRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Error("trades file not found", xlogger.String("path", s.path))
			return nil, fmt.Errorf("%s: %w", s.path, models.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("open trades file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read trades csv: %w", err)
	}
	if len(rows) == 0 {
		return []models.TradeRecord{}, nil
	}

	col, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	trades := make([]models.TradeRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := coerceRow(ctx, row, col, i+2)
		if err != nil {
			return nil, err
		}
		trades = append(trades, rec)
	}

	s.logger.Info("loaded trades", xlogger.Int("count", len(trades)), xlogger.String("path", s.path))
	return trades, nil
}

// parseHeader maps the required columns case-insensitively.
func parseHeader(header []string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "ticker", "price", "quantity", "direction"} {
		if _, ok := col[required]; !ok {
			return nil, &models.MalformedRecordError{Row: 1, Field: required, Cause: fmt.Errorf("missing column")}
		}
	}
	return col, nil
}

func coerceRow(ctx context.Context, row []string, col map[string]int, line int) (models.TradeRecord, error) {
	at := func(name string) string {
		i := col[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	raw := ledgerRow{
		Date:      at("date"),
		Ticker:    at("ticker"),
		Price:     at("price"),
		Quantity:  at("quantity"),
		Direction: at("direction"),
	}
	if err := validate.StructCtx(ctx, raw); err != nil {
		field := "row"
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field = strings.ToLower(verrs[0].Field())
		}
		return models.TradeRecord{}, &models.MalformedRecordError{Row: line, Field: field, Cause: err}
	}

	date, ok := util.ParseDay(raw.Date)
	if !ok {
		return models.TradeRecord{}, &models.MalformedRecordError{Row: line, Field: "date", Cause: fmt.Errorf("unparsable date %q", raw.Date)}
	}
	price, err := decimal.NewFromString(raw.Price)
	if err != nil {
		return models.TradeRecord{}, &models.MalformedRecordError{Row: line, Field: "price", Cause: err}
	}
	if !price.IsPositive() {
		return models.TradeRecord{}, &models.MalformedRecordError{Row: line, Field: "price", Cause: fmt.Errorf("price must be positive, got %s", price)}
	}
	quantity, err := decimal.NewFromString(raw.Quantity)
	if err != nil {
		return models.TradeRecord{}, &models.MalformedRecordError{Row: line, Field: "quantity", Cause: err}
	}

	return models.TradeRecord{
		Date:      date,
		Symbol:    raw.Ticker,
		Price:     price,
		Quantity:  quantity,
		Direction: raw.Direction,
	}, nil
}

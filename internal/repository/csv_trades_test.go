package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"FinPanel/internal/domain/models"
	xlogger "FinPanel/pkg/logger"
)

func writeLedger(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trades.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write ledger: %v", err)
	}
	return path
}

func TestLoadTrades(t *testing.T) {
	path := writeLedger(t, "Date,Ticker,Price,Quantity,Direction\n"+
		"2024-01-02,AAPL,185.64,10,Buy\n"+
		"2024-01-03,MSFT,370.87,-5, Sell \n")

	src := NewCSVTradeSource(path, xlogger.Nop())
	trades, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}

	first := trades[0]
	if !first.Date.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", first.Date)
	}
	if first.Symbol != "AAPL" || first.Direction != "Buy" {
		t.Fatalf("unexpected record %+v", first)
	}
	if first.Price.String() != "185.64" {
		t.Fatalf("unexpected price %s", first.Price)
	}
	if trades[1].Direction != "Sell" {
		t.Fatalf("direction must be trimmed, got %q", trades[1].Direction)
	}
}

func TestLoadTradesMissingFile(t *testing.T) {
	src := NewCSVTradeSource(filepath.Join(t.TempDir(), "absent.csv"), xlogger.Nop())

	_, err := src.Load(context.Background())
	if !errors.Is(err, models.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestLoadTradesHeaderOnly(t *testing.T) {
	path := writeLedger(t, "Date,Ticker,Price,Quantity,Direction\n")

	src := NewCSVTradeSource(path, xlogger.Nop())
	trades, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("empty ledger must not be an error, got %v", err)
	}
	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(trades))
	}
}

func TestLoadTradesMalformed(t *testing.T) {
	cases := []struct {
		name  string
		row   string
		field string
	}{
		{"bad date", "not-a-date,AAPL,185.64,10,Buy", "date"},
		{"bad price", "2024-01-02,AAPL,free,10,Buy", "price"},
		{"negative price", "2024-01-02,AAPL,-5,10,Buy", "price"},
		{"bad quantity", "2024-01-02,AAPL,185.64,many,Buy", "quantity"},
		{"blank ticker", "2024-01-02,,185.64,10,Buy", "ticker"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeLedger(t, "Date,Ticker,Price,Quantity,Direction\n"+tc.row+"\n")
			src := NewCSVTradeSource(path, xlogger.Nop())

			_, err := src.Load(context.Background())
			var mre *models.MalformedRecordError
			if !errors.As(err, &mre) {
				t.Fatalf("expected MalformedRecordError, got %v", err)
			}
			if mre.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, mre.Field)
			}
			if mre.Row != 2 {
				t.Fatalf("expected row 2, got %d", mre.Row)
			}
		})
	}
}

func TestLoadTradesMissingColumn(t *testing.T) {
	path := writeLedger(t, "Date,Ticker,Price,Quantity\n2024-01-02,AAPL,185.64,10\n")

	src := NewCSVTradeSource(path, xlogger.Nop())
	_, err := src.Load(context.Background())
	var mre *models.MalformedRecordError
	if !errors.As(err, &mre) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if mre.Field != "direction" {
		t.Fatalf("expected missing direction column, got %q", mre.Field)
	}
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"FinPanel/internal/domain/models"
	xlogger "FinPanel/pkg/logger"
)

type fakeTrades struct {
	trades []models.TradeRecord
	err    error
}

func (f *fakeTrades) Load(context.Context) ([]models.TradeRecord, error) {
	return f.trades, f.err
}

func someTrade() models.TradeRecord {
	return models.TradeRecord{
		Date:      d(2),
		Symbol:    "A",
		Price:     decimal.NewFromFloat(185.64),
		Quantity:  decimal.NewFromInt(10),
		Direction: "Buy",
	}
}

func newChecker(trades *fakeTrades, p *fakeProvider, tracked ...string) *IntegrityChecker {
	return NewIntegrityChecker(trades, newHistory(p), tracked, xlogger.Nop())
}

func TestValidatePasses(t *testing.T) {
	p := newFakeProvider()
	p.series["A"] = series("A", map[int]float64{1: 10})
	p.series["B"] = series("B", map[int]float64{2: 20})

	c := newChecker(&fakeTrades{trades: []models.TradeRecord{someTrade()}}, p, "A", "B")
	if !c.Validate(context.Background()) {
		t.Fatalf("expected validation to pass")
	}
}

func TestValidateFalseWhenSourceMissing(t *testing.T) {
	c := newChecker(&fakeTrades{err: models.ErrSourceUnavailable}, newFakeProvider(), "A")
	if c.Validate(context.Background()) {
		t.Fatalf("expected false on missing source")
	}
}

func TestValidateFalseWhenLedgerEmpty(t *testing.T) {
	p := newFakeProvider()
	p.series["A"] = series("A", map[int]float64{1: 10})

	c := newChecker(&fakeTrades{trades: []models.TradeRecord{}}, p, "A")
	if c.Validate(context.Background()) {
		t.Fatalf("expected false on empty ledger")
	}
}

func TestValidateFalseWhenTrackedSeriesEmpty(t *testing.T) {
	p := newFakeProvider()
	p.series["A"] = series("A", map[int]float64{1: 10})
	// B answers with an empty series

	c := newChecker(&fakeTrades{trades: []models.TradeRecord{someTrade()}}, p, "A", "B")
	if c.Validate(context.Background()) {
		t.Fatalf("expected false when a tracked symbol has no data")
	}
}

func TestValidateFalseWhenFetchFails(t *testing.T) {
	p := newFakeProvider()
	p.fail["A"] = &models.FetchError{Symbol: "A", Cause: errors.New("provider down")}

	c := newChecker(&fakeTrades{trades: []models.TradeRecord{someTrade()}}, p, "A")
	if c.Validate(context.Background()) {
		t.Fatalf("expected false on fetch failure")
	}
}

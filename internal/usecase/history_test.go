package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"FinPanel/internal/domain/models"
	xlogger "FinPanel/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordFetch(string, int)         {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastClose(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}
func (nopMetrics) RecordPanelCache(bool)           {}
func (nopMetrics) RecordCalendarSize(int)          {}

// fakeProvider counts Fetch calls per symbol and can fail on demand.
type fakeProvider struct {
	calls  map[string]int
	series map[string]models.PriceSeries
	fail   map[string]error

	gotStart time.Time
	gotEnd   time.Time
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		calls:  make(map[string]int),
		series: make(map[string]models.PriceSeries),
		fail:   make(map[string]error),
	}
}

func (p *fakeProvider) Fetch(_ context.Context, symbol string, start, end time.Time) (models.PriceSeries, error) {
	p.calls[symbol]++
	p.gotStart, p.gotEnd = start, end
	if err := p.fail[symbol]; err != nil {
		return models.PriceSeries{}, err
	}
	return p.series[symbol], nil
}

func (p *fakeProvider) totalCalls() int {
	n := 0
	for _, c := range p.calls {
		n += c
	}
	return n
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	}
}

func newHistory(p *fakeProvider) *PriceHistory {
	return NewPriceHistory(p, nopMetrics{}, xlogger.Nop(), d(1), WithClock(fixedClock()))
}

func TestGetOrComputeFetchesAndAligns(t *testing.T) {
	p := newFakeProvider()
	p.series["A"] = series("A", map[int]float64{1: 10, 2: 11})
	p.series["B"] = series("B", map[int]float64{2: 20})

	h := newHistory(p)
	panel, err := h.GetOrCompute(context.Background(), []string{"A", "B"})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(panel.Calendar) != 2 || len(panel.Series) != 2 {
		t.Fatalf("unexpected panel: %d days, %d symbols", len(panel.Calendar), len(panel.Series))
	}
	if !p.gotStart.Equal(d(1)) {
		t.Fatalf("unexpected window start %v", p.gotStart)
	}
	// end is exclusive tomorrow relative to the pinned clock
	if !p.gotEnd.Equal(d(11)) {
		t.Fatalf("unexpected window end %v", p.gotEnd)
	}
}

func TestGetOrComputeIsIdempotent(t *testing.T) {
	p := newFakeProvider()
	p.series["A"] = series("A", map[int]float64{1: 10})

	h := newHistory(p)
	first, err := h.GetOrCompute(context.Background(), []string{"A"})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	// second call with a different symbol set still reuses the coarse cache
	second, err := h.GetOrCompute(context.Background(), []string{"A", "B"})
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if p.totalCalls() != 1 {
		t.Fatalf("expected 1 fetch total, got %d", p.totalCalls())
	}
	if len(second.Calendar) != len(first.Calendar) || len(second.Series) != len(first.Series) {
		t.Fatalf("cached panel differs: %+v vs %+v", first, second)
	}
}

func TestClearTriggersRefetch(t *testing.T) {
	p := newFakeProvider()
	p.series["A"] = series("A", map[int]float64{1: 10})
	p.series["B"] = series("B", map[int]float64{1: 20})

	h := newHistory(p)
	if _, err := h.GetOrCompute(context.Background(), []string{"A", "B"}); err != nil {
		t.Fatalf("compute: %v", err)
	}

	h.Clear()
	h.Clear() // idempotent

	if _, err := h.GetOrCompute(context.Background(), []string{"A", "B"}); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if p.calls["A"] != 2 || p.calls["B"] != 2 {
		t.Fatalf("expected exactly one re-fetch per symbol, got %v", p.calls)
	}
}

func TestFailedFetchLeavesCacheUntouched(t *testing.T) {
	p := newFakeProvider()
	p.series["A"] = series("A", map[int]float64{1: 10})
	p.fail["B"] = &models.FetchError{Symbol: "B", Cause: errors.New("provider down")}

	h := newHistory(p)
	_, err := h.GetOrCompute(context.Background(), []string{"A", "B"})
	var fe *models.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}

	// failure must not be cached: the next call re-attempts the full fetch
	delete(p.fail, "B")
	p.series["B"] = series("B", map[int]float64{1: 20})

	panel, err := h.GetOrCompute(context.Background(), []string{"A", "B"})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !panel.HasData("B") {
		t.Fatalf("expected B after retry")
	}
	if p.calls["A"] != 2 || p.calls["B"] != 2 {
		t.Fatalf("expected a full re-attempt, got %v", p.calls)
	}
}

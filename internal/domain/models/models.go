package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is one executed trade from the ledger. Records are immutable
// after load: Price > 0, Symbol non-empty, Direction trimmed and non-empty.
type TradeRecord struct {
	Date      time.Time // midnight UTC
	Symbol    string
	Price     decimal.Decimal
	Quantity  decimal.Decimal
	Direction string
}

// PricePoint is one daily OHLCV bar from the quote provider.
type PricePoint struct {
	Day    time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the daily bars for exactly one instrument.
// Points are strictly increasing by Day with no duplicates.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// Empty reports whether the series has no bars.
func (s PriceSeries) Empty() bool { return len(s.Points) == 0 }

// FirstDay returns the day of the first bar, ok=false for an empty series.
func (s PriceSeries) FirstDay() (time.Time, bool) {
	if s.Empty() {
		return time.Time{}, false
	}
	return s.Points[0].Day, true
}

// LastDay returns the day of the last bar, ok=false for an empty series.
func (s PriceSeries) LastDay() (time.Time, bool) {
	if s.Empty() {
		return time.Time{}, false
	}
	return s.Points[len(s.Points)-1].Day, true
}

// Observation is one slot of an aligned series. Valid is false only for
// calendar days before the instrument's first quote; forward-fill never
// fabricates history before the first observation.
type Observation struct {
	Price float64 `json:"price"`
	Valid bool    `json:"valid"`
}

// AlignedPanel maps instrument symbol to a close-price series reindexed onto
// one shared calendar. Every series has exactly len(Calendar) slots, and the
// calendar is the sorted union of all input days. Callers must treat a panel
// as read-only; the cache hands out the same backing slices to every caller.
type AlignedPanel struct {
	Calendar []time.Time
	Series   map[string][]Observation
}

// IsEmpty reports whether the panel covers no instruments.
func (p AlignedPanel) IsEmpty() bool { return len(p.Series) == 0 }

// Symbols returns the covered symbols in lexical order.
func (p AlignedPanel) Symbols() []string {
	syms := make([]string, 0, len(p.Series))
	for s := range p.Series {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}

// HasData reports whether the panel holds at least one valid observation for
// the symbol. A symbol fetched with an all-empty native series is present in
// the panel but carries no data.
func (p AlignedPanel) HasData(symbol string) bool {
	obs, ok := p.Series[symbol]
	if !ok {
		return false
	}
	for _, o := range obs {
		if o.Valid {
			return true
		}
	}
	return false
}

// At returns the observation for symbol on day, ok=false if the symbol is not
// covered or the day is outside the calendar.
func (p AlignedPanel) At(symbol string, day time.Time) (Observation, bool) {
	obs, ok := p.Series[symbol]
	if !ok {
		return Observation{}, false
	}
	i := sort.Search(len(p.Calendar), func(i int) bool {
		return !p.Calendar[i].Before(day)
	})
	if i >= len(p.Calendar) || !p.Calendar[i].Equal(day) {
		return Observation{}, false
	}
	return obs[i], true
}

package stooq

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"FinPanel/internal/domain/models"
	xhttp "FinPanel/pkg/http"
	xlogger "FinPanel/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordFetch(string, int)        {}
func (nopMetrics) RecordError(string)             {}
func (nopMetrics) RecordLastClose(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)  {}
func (nopMetrics) RecordPanelCache(bool)          {}
func (nopMetrics) RecordCalendarSize(int)         {}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*httptest.Server, func(ctx context.Context, symbol string, start, end time.Time) (models.PriceSeries, error)) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := New(srv.URL, xhttp.NewClient(), xlogger.Nop(), nopMetrics{}, WithSymbolSuffix(".us"))
	return srv, p.Fetch
}

func TestFetchParsesDailyCSV(t *testing.T) {
	var gotQuery string
	_, fetch := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("Date,Open,High,Low,Close,Volume\n" +
			"2024-01-03,186.0,187.1,184.2,186.5,1000\n" +
			"2024-01-02,185.5,186.4,183.9,185.6,2000\n"))
	})

	s, err := fetch(context.Background(), "AAPL", day(2024, 1, 2), day(2024, 1, 5))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(s.Points) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(s.Points))
	}
	// rows get sorted by day
	if !s.Points[0].Day.Equal(day(2024, 1, 2)) || s.Points[0].Close != 185.6 {
		t.Fatalf("unexpected first bar %+v", s.Points[0])
	}
	if !s.Points[1].Day.Equal(day(2024, 1, 3)) || s.Points[1].Close != 186.5 {
		t.Fatalf("unexpected second bar %+v", s.Points[1])
	}
	// symbol lowercased with suffix, exclusive end mapped to inclusive d2
	for _, want := range []string{"s=aapl.us", "d1=20240102", "d2=20240104", "i=d"} {
		if !strings.Contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestFetchNoDataInRange(t *testing.T) {
	_, fetch := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("No data"))
	})

	s, err := fetch(context.Background(), "MSFT", day(2024, 1, 2), day(2024, 1, 5))
	if err != nil {
		t.Fatalf("no data must not be an error, got %v", err)
	}
	if !s.Empty() {
		t.Fatalf("expected empty series, got %d bars", len(s.Points))
	}
}

func TestFetchProviderFailure(t *testing.T) {
	_, fetch := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := fetch(context.Background(), "AAPL", day(2024, 1, 2), day(2024, 1, 5))
	var fe *models.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Symbol != "AAPL" {
		t.Fatalf("unexpected symbol %q", fe.Symbol)
	}
}

func TestFetchMalformedRow(t *testing.T) {
	_, fetch := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Date,Open,High,Low,Close,Volume\n2024-01-02,1,1,1,not-a-number,5\n"))
	})

	_, err := fetch(context.Background(), "AAPL", day(2024, 1, 2), day(2024, 1, 5))
	var fe *models.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}

func TestFetchDeduplicatesDays(t *testing.T) {
	_, fetch := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Date,Close\n2024-01-02,100\n2024-01-02,101\n"))
	})

	s, err := fetch(context.Background(), "AAPL", day(2024, 1, 1), day(2024, 1, 5))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(s.Points) != 1 || s.Points[0].Close != 101 {
		t.Fatalf("expected last bar per day to win, got %+v", s.Points)
	}
}

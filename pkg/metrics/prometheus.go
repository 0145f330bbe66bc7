package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	quotesFetched *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	panelCache    *prometheus.CounterVec
	lastClose     *prometheus.GaugeVec
	calendarDays  prometheus.Gauge
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		quotesFetched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finpanel_quotes_fetched_total",
				Help: "Total number of daily bars fetched from the quote provider",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finpanel_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		panelCache: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finpanel_panel_cache_total",
				Help: "Aligned panel cache lookups by result",
			},
			[]string{"result"},
		),
		lastClose: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finpanel_last_close",
				Help: "Last fetched close for a symbol",
			},
			[]string{"symbol"},
		),
		calendarDays: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "finpanel_calendar_days",
				Help: "Number of days in the last aligned union calendar",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finpanel_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records a completed provider download for a symbol.
func (r *Recorder) RecordFetch(symbol string, bars int) {
	r.quotesFetched.WithLabelValues(symbol).Add(float64(bars))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastClose records the most recent close for a symbol.
func (r *Recorder) RecordLastClose(symbol string, price float64) {
	r.lastClose.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordPanelCache records a panel cache hit or miss.
func (r *Recorder) RecordPanelCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.panelCache.WithLabelValues(result).Inc()
}

// RecordCalendarSize records the aligned calendar length.
func (r *Recorder) RecordCalendarSize(days int) {
	r.calendarDays.Set(float64(days))
}

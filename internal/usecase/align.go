package usecase

import (
	"sort"
	"time"

	"FinPanel/internal/domain/models"
)

// Align reindexes heterogeneous per-symbol daily series onto one shared
// calendar and forward-fills per-symbol gaps.
//
// The calendar is the union of every day across all input series, not the
// intersection: an instrument that starts trading later must not truncate
// the history available for earlier-starting instruments. Gaps are filled
// with an exact copy of the last observed close; days before a symbol's
// first observation stay missing, since forward-fill cannot manufacture
// history before the first trade.
func Align(seriesBySymbol map[string]models.PriceSeries) models.AlignedPanel {
	calendar := unionCalendar(seriesBySymbol)

	panel := models.AlignedPanel{
		Calendar: calendar,
		Series:   make(map[string][]models.Observation, len(seriesBySymbol)),
	}
	for symbol, series := range seriesBySymbol {
		panel.Series[symbol] = reindexFill(calendar, series)
	}
	return panel
}

// unionCalendar returns the sorted, deduplicated union of all days across
// the input series. An entirely empty series contributes no days.
func unionCalendar(seriesBySymbol map[string]models.PriceSeries) []time.Time {
	set := make(map[time.Time]struct{})
	for _, series := range seriesBySymbol {
		for _, p := range series.Points {
			set[p.Day] = struct{}{}
		}
	}

	calendar := make([]time.Time, 0, len(set))
	for day := range set {
		calendar = append(calendar, day)
	}
	sort.Slice(calendar, func(i, j int) bool {
		return calendar[i].Before(calendar[j])
	})
	return calendar
}

// reindexFill walks the calendar in order carrying the last known close.
// Series days are strictly increasing, so a single linear merge covers both
// the reindex and the fill.
func reindexFill(calendar []time.Time, series models.PriceSeries) []models.Observation {
	out := make([]models.Observation, len(calendar))

	var last models.Observation
	next := 0
	for i, day := range calendar {
		for next < len(series.Points) && !series.Points[next].Day.After(day) {
			last = models.Observation{Price: series.Points[next].Close, Valid: true}
			next++
		}
		out[i] = last
	}
	return out
}

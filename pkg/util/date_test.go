package util

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	got, ok := ParseDay("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected day %v", got)
	}
}

func TestParseDayLoose(t *testing.T) {
	got, ok := ParseDay("2024-1-2")
	if !ok {
		t.Fatalf("expected ok")
	}
	if !got.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected day %v", got)
	}
}

func TestParseDayRFC3339(t *testing.T) {
	got, ok := ParseDay("2024-10-10T15:04:05Z")
	if !ok {
		t.Fatalf("expected ok")
	}
	if !got.Equal(time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected truncation to midnight, got %v", got)
	}
}

func TestParseDayDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	got := ParseDayDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestTomorrow(t *testing.T) {
	now := time.Date(2024, 10, 10, 23, 59, 0, 0, time.UTC)
	got := Tomorrow(now)
	if !got.Equal(time.Date(2024, 10, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected tomorrow %v", got)
	}
}

func TestDayNormalizesZone(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2024, 10, 10, 2, 0, 0, 0, loc) // 2024-10-09T21:00Z
	got := Day(in)
	if !got.Equal(time.Date(2024, 10, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected day %v", got)
	}
}

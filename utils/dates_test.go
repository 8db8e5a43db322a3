package utils

import (
	"testing"
	"time"
)

func TestNormalizeDateStripsTimeOfDay(t *testing.T) {
	in := time.Date(2025, 7, 10, 14, 35, 12, 999, time.UTC)
	got := NormalizeDate(in)
	want := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeDateConvertsZones(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2025, 7, 10, 2, 0, 0, 0, zone) // 2025-07-09 21:00 UTC
	got := NormalizeDate(in)
	want := time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	day := NormalizeDate(time.Now())
	if !NormalizeDate(day).Equal(day) {
		t.Fatal("normalizing a normalized date changed it")
	}
}

func TestParseDay(t *testing.T) {
	got, err := ParseDay("2025-07-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", got)
	}

	if _, err := ParseDay("10/07/2025"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

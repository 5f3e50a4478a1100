package timeutil

import (
	"testing"
	"time"
)

func TestDayBoundaries(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	at := time.Date(2024, 3, 15, 18, 42, 7, 123456789, loc)

	start := DayStart(at)
	if !start.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, loc)) {
		t.Errorf("expected local midnight, got %v", start)
	}

	end := DayEnd(at)
	want := time.Date(2024, 3, 15, 23, 59, 59, 999999000, loc)
	if !end.Equal(want) {
		t.Errorf("expected %v, got %v", want, end)
	}
}

func TestDateRoundTrip(t *testing.T) {
	// A bill date written as 2024-03-15 must re-read as 2024-03-15
	// regardless of the server timezone.
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if got := FormatDate(d); got != "2024-03-15" {
		t.Errorf("expected 2024-03-15, got %s", got)
	}
	if d.Hour() != 0 || d.Location() != time.UTC {
		t.Errorf("expected UTC midnight storage form, got %v", d)
	}
}

func TestDateOfUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+13", 13*3600)
	// 23:30 local on Jan 1 is already Jan 1 10:30 UTC; the calendar day
	// must follow the local clock.
	at := time.Date(2026, 1, 1, 23, 30, 0, 0, loc)
	if got := FormatDate(DateOf(at)); got != "2026-01-01" {
		t.Errorf("expected 2026-01-01, got %s", got)
	}

	west := time.FixedZone("UTC-11", -11*3600)
	at = time.Date(2026, 1, 1, 0, 30, 0, 0, west)
	if got := FormatDate(DateOf(at)); got != "2026-01-01" {
		t.Errorf("expected 2026-01-01, got %s", got)
	}
}

func TestSameDate(t *testing.T) {
	a, _ := ParseDate("2024-03-15")
	b, _ := ParseDate("2024-03-15")
	c, _ := ParseDate("2024-03-16")

	if !SameDate(a, b) {
		t.Error("expected same date")
	}
	if SameDate(a, c) {
		t.Error("expected different dates")
	}
}

func TestMonthStart(t *testing.T) {
	at := time.Date(2024, 2, 29, 13, 5, 0, 0, time.Local)
	if got := FormatDate(MonthStart(at)); got != "2024-02-01" {
		t.Errorf("expected 2024-02-01, got %s", got)
	}
}

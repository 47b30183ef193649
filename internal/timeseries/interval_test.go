package timeseries

import (
	"testing"
	"time"

	"github.com/bobmcallan/argos/internal/models"
)

func date(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestClassifyInterval(t *testing.T) {
	tests := []struct {
		days int
		want models.Granularity
	}{
		{0, models.Monthly},
		{1, models.Hourly},
		{2, models.Daily},
		{7, models.Daily},
		{30, models.Daily},
		{31, models.Weekly},
		{90, models.Weekly},
		{91, models.Monthly},
		{365, models.Monthly},
	}

	for _, tt := range tests {
		if got := ClassifyInterval(tt.days); got != tt.want {
			t.Errorf("ClassifyInterval(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}

func TestSameBucket(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		g    models.Granularity
		want bool
	}{
		{"hourly same hour", date(2024, 1, 5, 10, 5), date(2024, 1, 5, 10, 55), models.Hourly, true},
		{"hourly one minute apart across hour", date(2024, 1, 5, 10, 59), date(2024, 1, 5, 11, 0), models.Hourly, false},
		{"hourly same hour different day", date(2024, 1, 5, 10, 0), date(2024, 1, 6, 10, 0), models.Hourly, false},
		{"daily same day", date(2024, 1, 5, 0, 0), date(2024, 1, 5, 23, 59), models.Daily, true},
		{"daily across midnight", date(2024, 1, 5, 23, 59), date(2024, 1, 6, 0, 0), models.Daily, false},
		{"weekly sunday to saturday", date(2024, 1, 7, 0, 0), date(2024, 1, 13, 23, 0), models.Weekly, true},
		{"weekly saturday to sunday", date(2024, 1, 6, 12, 0), date(2024, 1, 7, 12, 0), models.Weekly, false},
		{"weekly spanning month end", date(2024, 1, 28, 9, 0), date(2024, 2, 3, 9, 0), models.Weekly, true},
		{"weekly spanning year end", date(2023, 12, 31, 9, 0), date(2024, 1, 6, 9, 0), models.Weekly, true},
		{"monthly same month", date(2024, 2, 1, 0, 0), date(2024, 2, 29, 23, 0), models.Monthly, true},
		{"monthly different year", date(2023, 2, 1, 0, 0), date(2024, 2, 1, 0, 0), models.Monthly, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameBucket(tt.a, tt.b, tt.g); got != tt.want {
				t.Errorf("SameBucket(%v, %v, %s) = %v, want %v", tt.a, tt.b, tt.g, got, tt.want)
			}
		})
	}
}

func TestSameBucket_UsesFirstArgumentLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	a := time.Date(2024, 1, 5, 20, 0, 0, 0, loc) // 2024-01-06 01:00 UTC
	b := date(2024, 1, 6, 0, 30)                 // 2024-01-05 19:30 local

	if !SameBucket(a, b, models.Daily) {
		t.Error("expected same local day")
	}
	if SameBucket(a.UTC(), b, models.Daily) {
		t.Error("expected different UTC days")
	}
}

func TestGenerateTimestamps_Daily(t *testing.T) {
	start := date(2024, 1, 1, 0, 0)
	end := date(2024, 1, 7, 0, 0)

	got := GenerateTimestamps(start, end, models.Daily)
	if len(got) != 7 {
		t.Fatalf("expected 7 timestamps, got %d", len(got))
	}
	if !got[0].Equal(start) {
		t.Errorf("first = %v, want %v", got[0], start)
	}
	if !got[6].Equal(end) {
		t.Errorf("last = %v, want %v", got[6], end)
	}
}

func TestGenerateTimestamps_Guarantees(t *testing.T) {
	start := date(2024, 1, 1, 9, 30)
	end := date(2024, 4, 15, 17, 0)
	steps := map[models.Granularity]time.Duration{
		models.Hourly: time.Hour,
		models.Daily:  24 * time.Hour,
		models.Weekly: 7 * 24 * time.Hour,
	}

	for g, stepSize := range steps {
		got := GenerateTimestamps(start, end, g)
		if len(got) == 0 {
			t.Fatalf("%s: no timestamps", g)
		}
		if !got[0].Equal(start) {
			t.Errorf("%s: first = %v, want start", g, got[0])
		}
		for i := 1; i < len(got); i++ {
			if !got[i].After(got[i-1]) {
				t.Fatalf("%s: not strictly increasing at %d", g, i)
			}
		}
		lastTS := got[len(got)-1]
		if lastTS.After(end) {
			t.Errorf("%s: last %v after end", g, lastTS)
		}
		if !lastTS.After(end.Add(-stepSize)) {
			t.Errorf("%s: last %v not within one step of end", g, lastTS)
		}
	}
}

func TestGenerateTimestamps_HourlyDay(t *testing.T) {
	start := date(2024, 3, 1, 12, 0)
	got := GenerateTimestamps(start, start.Add(24*time.Hour), models.Hourly)
	if len(got) != 25 {
		t.Errorf("expected 25 hourly timestamps, got %d", len(got))
	}
}

func TestGenerateTimestamps_MonthlyCalendarStep(t *testing.T) {
	start := date(2024, 1, 31, 0, 0)
	end := date(2024, 5, 1, 0, 0)

	got := GenerateTimestamps(start, end, models.Monthly)
	want := []time.Time{
		date(2024, 1, 31, 0, 0),
		date(2024, 3, 2, 0, 0), // Feb 31 normalizes to Mar 2 in a leap year
		date(2024, 4, 2, 0, 0),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d timestamps, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("timestamps[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGenerateTimestamps_EndBeforeStart(t *testing.T) {
	got := GenerateTimestamps(date(2024, 1, 2, 0, 0), date(2024, 1, 1, 0, 0), models.Daily)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestGenerateTimestamps_SingleInstant(t *testing.T) {
	at := date(2024, 1, 1, 0, 0)
	got := GenerateTimestamps(at, at, models.Weekly)
	if len(got) != 1 || !got[0].Equal(at) {
		t.Errorf("expected [start], got %v", got)
	}
}

func TestStartDateForRange(t *testing.T) {
	now := date(2024, 6, 15, 12, 0)
	tests := []struct {
		r    models.TimeRange
		want time.Time
	}{
		{models.RangeDay, date(2024, 6, 14, 12, 0)},
		{models.RangeWeek, date(2024, 6, 8, 12, 0)},
		{models.RangeMonth, date(2024, 5, 16, 12, 0)},
		{models.RangeYear, date(2023, 6, 16, 12, 0)},
		{models.RangeAll, date(2014, 6, 15, 12, 0)},
	}
	for _, tt := range tests {
		if got := StartDateForRange(tt.r, now); !got.Equal(tt.want) {
			t.Errorf("StartDateForRange(%s) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

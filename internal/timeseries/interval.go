// Package timeseries turns sparse balance snapshots into chart-ready series:
// calendar interval bucketing, gap filling, viewport-aware resolution,
// significance-preserving downsampling, and event detection.
//
// Every function is pure. Inputs are never mutated and callers supply "now".
package timeseries

import (
	"time"

	"github.com/bobmcallan/argos/internal/models"
)

// ClassifyInterval maps a range length in days to the gap-filling granularity.
// Zero (all history) is treated as the longest range.
func ClassifyInterval(rangeDays int) models.Granularity {
	switch {
	case rangeDays <= 0:
		return models.Monthly
	case rangeDays <= 1:
		return models.Hourly
	case rangeDays <= 30:
		return models.Daily
	case rangeDays <= 90:
		return models.Weekly
	default:
		return models.Monthly
	}
}

// SameBucket reports whether a and b fall in the same calendar bucket.
// Calendar fields are read in a's location; weeks start on Sunday.
func SameBucket(a, b time.Time, g models.Granularity) bool {
	b = b.In(a.Location())

	switch g {
	case models.Hourly:
		ay, am, ad := a.Date()
		by, bm, bd := b.Date()
		return ay == by && am == bm && ad == bd && a.Hour() == b.Hour()
	case models.Daily:
		ay, am, ad := a.Date()
		by, bm, bd := b.Date()
		return ay == by && am == bm && ad == bd
	case models.Weekly:
		return weekStart(a).Equal(weekStart(b))
	case models.Monthly:
		return a.Year() == b.Year() && a.Month() == b.Month()
	}
	return false
}

// weekStart returns local midnight of the Sunday on or before t.
func weekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

// step advances t by one granularity unit.
func step(t time.Time, g models.Granularity) time.Time {
	switch g {
	case models.Hourly:
		return t.Add(time.Hour)
	case models.Daily:
		return t.AddDate(0, 0, 1)
	case models.Weekly:
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// GenerateTimestamps returns start, start+step, ... while the timestamp is not after end.
// Months are added calendar-wise, so Jan 31 steps to early March.
func GenerateTimestamps(start, end time.Time, g models.Granularity) []time.Time {
	if end.Before(start) {
		return []time.Time{}
	}

	timestamps := make([]time.Time, 0, estimateSteps(start, end, g))
	for current := start; !current.After(end); current = step(current, g) {
		timestamps = append(timestamps, current)
	}
	return timestamps
}

func estimateSteps(start, end time.Time, g models.Granularity) int {
	span := end.Sub(start)
	var unit time.Duration
	switch g {
	case models.Hourly:
		unit = time.Hour
	case models.Daily:
		unit = 24 * time.Hour
	case models.Weekly:
		unit = 7 * 24 * time.Hour
	default:
		unit = 28 * 24 * time.Hour
	}
	return int(span/unit) + 2
}

// StartDateForRange returns the first grid timestamp for r relative to now.
func StartDateForRange(r models.TimeRange, now time.Time) time.Time {
	return r.Start(now)
}

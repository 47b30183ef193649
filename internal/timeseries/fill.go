package timeseries

import (
	"sort"
	"time"

	"github.com/bobmcallan/argos/internal/models"
)

// sortedCopy returns the points ordered by date ascending, keeping input order for ties.
func sortedCopy(points []models.TimeSeriesPoint) []models.TimeSeriesPoint {
	sorted := make([]models.TimeSeriesPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// FillMissingDataPoints places raw snapshots onto the regular grid for r ending at now.
//
// For RangeAll the grid starts at the earliest snapshot, bounded by the all-time lookback,
// so no leading filler is generated for years before the first account existed.
func FillMissingDataPoints(raw []models.TimeSeriesPoint, r models.TimeRange, now time.Time) []models.TimeSeriesPoint {
	if len(raw) == 0 {
		return []models.TimeSeriesPoint{}
	}

	g := ClassifyInterval(r.Days())
	start := StartDateForRange(r, now)

	if r == models.RangeAll {
		earliest := raw[0].Date
		for _, p := range raw[1:] {
			if p.Date.Before(earliest) {
				earliest = p.Date
			}
		}
		if earliest.After(start) {
			start = earliest.In(now.Location())
		}
	}

	return FillRange(raw, start, now, g)
}

// FillRange merges raw onto GenerateTimestamps(start, end, g) in a single forward pass.
//
// Each grid timestamp consumes every remaining snapshot dated at or before it, plus any
// later snapshot in the same bucket. The last consumed value is carried forward. A grid
// point is tagged real when a consumed snapshot shares its bucket, otherwise filled.
// Snapshots already tagged filled update the carried value but never mark a point real,
// which makes refilling a filled series a no-op. Neither does an anchor snapshot dated
// before start, even when it falls in the first grid bucket.
//
// Before the first snapshot the grid carries the first snapshot's value.
func FillRange(raw []models.TimeSeriesPoint, start, end time.Time, g models.Granularity) []models.TimeSeriesPoint {
	if len(raw) == 0 {
		return []models.TimeSeriesPoint{}
	}

	sorted := sortedCopy(raw)
	expected := GenerateTimestamps(start, end, g)

	filled := make([]models.TimeSeriesPoint, 0, len(expected))
	lastKnown := sorted[0].Value
	cursor := 0

	for _, t := range expected {
		matched := false

		for cursor < len(sorted) {
			p := sorted[cursor]
			inBucket := SameBucket(t, p.Date, g)
			if p.Date.After(t) && !inBucket {
				break
			}
			lastKnown = p.Value
			if inBucket && !p.Date.Before(start) && p.Provenance != models.ProvenanceFilled {
				matched = true
			}
			cursor++
		}

		provenance := models.ProvenanceFilled
		if matched {
			provenance = models.ProvenanceReal
		}
		filled = append(filled, models.TimeSeriesPoint{
			Date:       t,
			Value:      lastKnown,
			Provenance: provenance,
		})
	}

	return filled
}

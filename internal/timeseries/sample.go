package timeseries

import (
	"math"
	"time"

	"github.com/bobmcallan/argos/internal/models"
)

// SampleDataPoints reduces data to roughly maxPoints points, always keeping the first
// and last point. maxPoints <= 0 uses DefaultMaxPoints.
//
// Up to 3x the budget, every ceil(n/maxPoints)-th point is kept. Beyond that the series
// is split into maxPoints equal time buckets and each bucket contributes its most
// significant point. resolutionHours is recorded by callers alongside the series; bucket
// width here derives from the point budget.
func SampleDataPoints(data []models.TimeSeriesPoint, resolutionHours, maxPoints int) []models.TimeSeriesPoint {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}

	if len(data) <= maxPoints {
		out := make([]models.TimeSeriesPoint, len(data))
		copy(out, data)
		return out
	}

	if len(data) <= maxPoints*3 {
		return strideSample(data, maxPoints)
	}
	return bucketSample(data, maxPoints)
}

func strideSample(data []models.TimeSeriesPoint, maxPoints int) []models.TimeSeriesPoint {
	stride := int(math.Ceil(float64(len(data)) / float64(maxPoints)))
	last := len(data) - 1

	result := make([]models.TimeSeriesPoint, 0, maxPoints+1)
	for i := 0; i < len(data); i += stride {
		result = append(result, data[i])
	}
	if last%stride != 0 {
		result = append(result, data[last])
	}
	return result
}

func bucketSample(data []models.TimeSeriesPoint, maxPoints int) []models.TimeSeriesPoint {
	sorted := sortedCopy(data)
	first := sorted[0]
	last := sorted[len(sorted)-1]

	intervalSize := last.Date.Sub(first.Date) / time.Duration(maxPoints)
	if intervalSize <= 0 {
		intervalSize = 1
	}
	bucketEnd := first.Date.Add(intervalSize)

	result := make([]models.TimeSeriesPoint, 0, maxPoints+2)
	result = append(result, first)

	var bucket []models.TimeSeriesPoint
	for _, p := range sorted[1 : len(sorted)-1] {
		if !p.Date.After(bucketEnd) {
			bucket = append(bucket, p)
			continue
		}

		if len(bucket) > 0 {
			result = append(result, mostSignificantPoint(bucket))
			bucket = bucket[:0]
		}
		for p.Date.After(bucketEnd) {
			bucketEnd = bucketEnd.Add(intervalSize)
		}
		bucket = append(bucket, p)
	}

	if len(bucket) > 0 {
		result = append(result, mostSignificantPoint(bucket))
	}

	return append(result, last)
}

// mostSignificantPoint returns the point with the largest absolute change from its
// predecessor inside the bucket. Flat buckets return their first point.
func mostSignificantPoint(bucket []models.TimeSeriesPoint) models.TimeSeriesPoint {
	if len(bucket) == 1 {
		return bucket[0]
	}

	best := bucket[0]
	maxChange := 0.0
	for i := 1; i < len(bucket); i++ {
		change := math.Abs(bucket[i].Value - bucket[i-1].Value)
		if change > maxChange {
			maxChange = change
			best = bucket[i]
		}
	}
	return best
}

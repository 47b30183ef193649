package timeseries

import "math"

// DefaultMaxPoints is the point budget for a chart series.
const DefaultMaxPoints = 150

// minBasePoints is the smallest point budget used for narrow viewports.
const minBasePoints = 50

// pixelsPerPoint spaces chart points so lines stay legible.
const pixelsPerPoint = 5

// GetOptimalResolution returns the time-bucket width in hours suited to a viewport
// of viewportWidthPx pixels showing rangeDays days.
func GetOptimalResolution(viewportWidthPx, rangeDays int) int {
	basePoints := float64(viewportWidthPx) / pixelsPerPoint
	basePoints = math.Max(minBasePoints, math.Min(basePoints, DefaultMaxPoints))

	hours := int(math.Floor(float64(rangeDays) * 24 / basePoints))

	switch {
	case rangeDays <= 1:
		return 1
	case rangeDays <= 7:
		return max(1, hours)
	case rangeDays <= 30:
		return max(4, hours)
	case rangeDays <= 365:
		return max(24, hours)
	default:
		return max(24*7, hours)
	}
}

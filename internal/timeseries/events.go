package timeseries

import (
	"fmt"
	"math"

	"github.com/bobmcallan/argos/internal/models"
)

// DefaultEventThreshold is the percentage change that marks a significant event.
const DefaultEventThreshold = 2.0

// GetSignificantEvents returns one event per consecutive pair whose absolute percentage
// change is at least thresholdPercent. Pairs starting from a zero value are skipped.
// thresholdPercent <= 0 uses DefaultEventThreshold.
func GetSignificantEvents(data []models.TimeSeriesPoint, thresholdPercent float64) []models.Event {
	if thresholdPercent <= 0 {
		thresholdPercent = DefaultEventThreshold
	}

	events := []models.Event{}
	for i := 1; i < len(data); i++ {
		prev := data[i-1].Value
		if prev == 0 {
			continue
		}

		change := (data[i].Value - prev) / prev
		if math.Abs(change)*100 < thresholdPercent {
			continue
		}

		signed := change * 100
		events = append(events, models.Event{
			Date:             data[i].Date,
			Value:            data[i].Value,
			ChangePercentage: signed,
			Description:      fmt.Sprintf("Net worth changed by %+.2f%%", signed),
			Type:             models.EventMarketChange,
		})
	}
	return events
}

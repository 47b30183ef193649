package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeRange selects a chart window in days. RangeAll (0) means all available history.
type TimeRange int

const (
	RangeDay   TimeRange = 1
	RangeWeek  TimeRange = 7
	RangeMonth TimeRange = 30
	RangeYear  TimeRange = 365
	RangeAll   TimeRange = 0
)

// allTimePlanningDays is the range length assumed for RangeAll when sizing chart resolution.
const allTimePlanningDays = 365 * 2

// allTimeLookbackYears bounds the start of RangeAll queries and grids.
const allTimeLookbackYears = 10

// Days returns the raw day count. RangeAll returns 0.
func (r TimeRange) Days() int {
	return int(r)
}

// PlanningDays returns the day count used for resolution planning.
func (r TimeRange) PlanningDays() int {
	if r == RangeAll {
		return allTimePlanningDays
	}
	return int(r)
}

// Start returns the lower bound of the range relative to now.
func (r TimeRange) Start(now time.Time) time.Time {
	if r == RangeAll {
		return now.AddDate(-allTimeLookbackYears, 0, 0)
	}
	return now.AddDate(0, 0, -int(r))
}

// Valid reports whether r is one of the defined ranges.
func (r TimeRange) Valid() bool {
	switch r {
	case RangeDay, RangeWeek, RangeMonth, RangeYear, RangeAll:
		return true
	}
	return false
}

func (r TimeRange) String() string {
	switch r {
	case RangeDay:
		return "day"
	case RangeWeek:
		return "week"
	case RangeMonth:
		return "month"
	case RangeYear:
		return "year"
	case RangeAll:
		return "all"
	}
	return strconv.Itoa(int(r))
}

// ParseTimeRange accepts day counts (1, 7, 30, 365, 0) or names (day, week, month, year, all).
func ParseTimeRange(s string) (TimeRange, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "day", "1d":
		return RangeDay, nil
	case "7", "week", "1w":
		return RangeWeek, nil
	case "30", "month", "1m":
		return RangeMonth, nil
	case "365", "year", "1y":
		return RangeYear, nil
	case "0", "all":
		return RangeAll, nil
	}
	return RangeAll, fmt.Errorf("invalid time range %q", s)
}

// Granularity is the calendar bucket size used for gap filling.
type Granularity int

const (
	Hourly Granularity = iota
	Daily
	Weekly
	Monthly
)

func (g Granularity) String() string {
	switch g {
	case Hourly:
		return "hourly"
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	}
	return "unknown"
}

// MarshalText renders the granularity name in JSON.
func (g Granularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText parses a granularity name.
func (g *Granularity) UnmarshalText(text []byte) error {
	for _, candidate := range []Granularity{Hourly, Daily, Weekly, Monthly} {
		if candidate.String() == string(text) {
			*g = candidate
			return nil
		}
	}
	return fmt.Errorf("invalid granularity %q", text)
}

// Provenance records whether a point was observed or synthesized by forward-filling.
type Provenance int

const (
	ProvenanceUnknown Provenance = iota
	ProvenanceReal
	ProvenanceFilled
)

// TimeSeriesPoint is a single (date, value) snapshot.
type TimeSeriesPoint struct {
	Date       time.Time
	Value      float64
	Provenance Provenance
}

// IsReal reports whether the point was observed in the source data.
func (p TimeSeriesPoint) IsReal() bool { return p.Provenance == ProvenanceReal }

// IsFilled reports whether the point was synthesized by the gap filler.
func (p TimeSeriesPoint) IsFilled() bool { return p.Provenance == ProvenanceFilled }

type timeSeriesPointJSON struct {
	Date              string  `json:"date"`
	Value             float64 `json:"value"`
	IsRealDataPoint   bool    `json:"is_real_data_point,omitempty"`
	IsFilledDataPoint bool    `json:"is_filled_data_point,omitempty"`
}

// MarshalJSON renders the date as UTC ISO-8601 and the provenance as a single flag.
func (p TimeSeriesPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(timeSeriesPointJSON{
		Date:              p.Date.UTC().Format(time.RFC3339Nano),
		Value:             p.Value,
		IsRealDataPoint:   p.Provenance == ProvenanceReal,
		IsFilledDataPoint: p.Provenance == ProvenanceFilled,
	})
}

// UnmarshalJSON accepts the format produced by MarshalJSON.
func (p *TimeSeriesPoint) UnmarshalJSON(data []byte) error {
	var raw timeSeriesPointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := time.Parse(time.RFC3339Nano, raw.Date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", raw.Date, err)
	}
	p.Date = d.UTC()
	p.Value = raw.Value
	switch {
	case raw.IsRealDataPoint:
		p.Provenance = ProvenanceReal
	case raw.IsFilledDataPoint:
		p.Provenance = ProvenanceFilled
	default:
		p.Provenance = ProvenanceUnknown
	}
	return nil
}

// EventMarketChange is the type of events detected from value moves.
const EventMarketChange = "market_change"

// Event marks a point whose change from its predecessor crossed the event threshold.
type Event struct {
	Date             time.Time `json:"date"`
	Value            float64   `json:"value"`
	ChangePercentage float64   `json:"change_percentage"`
	Description      string    `json:"description"`
	Type             string    `json:"type"`
}

// NetWorthRecord is one aggregate net-worth history row.
type NetWorthRecord struct {
	UserID string    `json:"user_id"`
	Date   time.Time `json:"date"`
	Value  float64   `json:"value"`
}

// NetWorthSummary is the headline net-worth figure for a range.
type NetWorthSummary struct {
	Range            TimeRange           `json:"range"`
	CurrentValue     float64             `json:"current_value"`
	PreviousValue    float64             `json:"previous_value"`
	Change           float64             `json:"change"`
	PercentageChange float64             `json:"percentage_change"`
	AssetsTotal      float64             `json:"assets_total"`
	LiabilitiesTotal float64             `json:"liabilities_total"`
	BestPerformer    *AccountPerformance `json:"best_performer,omitempty"`
	WorstPerformer   *AccountPerformance `json:"worst_performer,omitempty"`
	Currency         string              `json:"currency"`
}

// ChartSeries is a bounded, gap-free, date-ascending series ready for plotting.
type ChartSeries struct {
	Range           TimeRange         `json:"range"`
	Granularity     Granularity       `json:"granularity"`
	ResolutionHours int               `json:"resolution_hours"`
	RawCount        int               `json:"raw_count"`
	Points          []TimeSeriesPoint `json:"points"`
	Events          []Event           `json:"events,omitempty"`
}

package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		in   string
		want TimeRange
	}{
		{"1", RangeDay}, {"day", RangeDay}, {"1d", RangeDay},
		{"7", RangeWeek}, {"Week", RangeWeek}, {"1w", RangeWeek},
		{"30", RangeMonth}, {" month ", RangeMonth}, {"1m", RangeMonth},
		{"365", RangeYear}, {"year", RangeYear}, {"1y", RangeYear},
		{"0", RangeAll}, {"ALL", RangeAll},
	}
	for _, tt := range tests {
		got, err := ParseTimeRange(tt.in)
		if err != nil {
			t.Errorf("ParseTimeRange(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeRange(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "14", "fortnight", "-1"} {
		if _, err := ParseTimeRange(bad); err == nil {
			t.Errorf("ParseTimeRange(%q) expected error", bad)
		}
	}
}

func TestTimeRange_StartAndPlanningDays(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	if got := RangeMonth.Start(now); !got.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("RangeMonth.Start = %v", got)
	}
	if got := RangeAll.Start(now); !got.Equal(time.Date(2014, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("RangeAll.Start = %v", got)
	}
	if RangeAll.PlanningDays() != 730 {
		t.Errorf("RangeAll.PlanningDays = %d, want 730", RangeAll.PlanningDays())
	}
	if RangeWeek.PlanningDays() != 7 {
		t.Errorf("RangeWeek.PlanningDays = %d, want 7", RangeWeek.PlanningDays())
	}
}

func TestTimeSeriesPoint_JSON(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	points := []TimeSeriesPoint{
		{Date: time.Date(2024, 1, 5, 12, 0, 0, 0, loc), Value: 10.5, Provenance: ProvenanceReal},
		{Date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), Value: 10.5, Provenance: ProvenanceFilled},
		{Date: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), Value: 3},
	}

	data, err := json.Marshal(points)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"date":"2024-01-05T10:00:00Z"`) {
		t.Errorf("expected UTC date, got %s", s)
	}
	if strings.Count(s, `"is_real_data_point":true`) != 1 || strings.Count(s, `"is_filled_data_point":true`) != 1 {
		t.Errorf("expected one flag of each kind, got %s", s)
	}

	var decoded []TimeSeriesPoint
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for i := range points {
		if !decoded[i].Date.Equal(points[i].Date) || decoded[i].Value != points[i].Value || decoded[i].Provenance != points[i].Provenance {
			t.Errorf("points[%d] = %+v, want %+v", i, decoded[i], points[i])
		}
	}
}

func TestTimeSeriesPoint_UnmarshalBadDate(t *testing.T) {
	var p TimeSeriesPoint
	if err := json.Unmarshal([]byte(`{"date":"yesterday","value":1}`), &p); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestGranularity_Text(t *testing.T) {
	for _, g := range []Granularity{Hourly, Daily, Weekly, Monthly} {
		text, err := g.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d) failed: %v", g, err)
		}
		var back Granularity
		if err := back.UnmarshalText(text); err != nil || back != g {
			t.Errorf("UnmarshalText(%q) = %v, %v", text, back, err)
		}
	}

	var g Granularity
	if err := g.UnmarshalText([]byte("yearly")); err == nil {
		t.Error("expected error for unknown granularity")
	}
}

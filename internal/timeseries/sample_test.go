package timeseries

import (
	"testing"
	"time"

	"github.com/bobmcallan/argos/internal/models"
)

func hourlySeries(n int, value func(i int) float64) []models.TimeSeriesPoint {
	start := date(2024, 1, 1, 0, 0)
	out := make([]models.TimeSeriesPoint, n)
	for i := range out {
		out[i] = models.TimeSeriesPoint{
			Date:       start.Add(time.Duration(i) * time.Hour),
			Value:      value(i),
			Provenance: models.ProvenanceReal,
		}
	}
	return out
}

func linear(i int) float64 { return float64(i) }

func assertAnchored(t *testing.T, in, out []models.TimeSeriesPoint) {
	t.Helper()
	if !out[0].Date.Equal(in[0].Date) {
		t.Errorf("first = %v, want %v", out[0].Date, in[0].Date)
	}
	if !out[len(out)-1].Date.Equal(in[len(in)-1].Date) {
		t.Errorf("last = %v, want %v", out[len(out)-1].Date, in[len(in)-1].Date)
	}
	for i := 1; i < len(out); i++ {
		if !out[i].Date.After(out[i-1].Date) {
			t.Fatalf("not strictly ascending at %d", i)
		}
	}
}

func TestSampleDataPoints_IdentityUnderBudget(t *testing.T) {
	in := hourlySeries(150, linear)

	out := SampleDataPoints(in, 1, 150)
	if len(out) != len(in) {
		t.Fatalf("expected %d points, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("points[%d] changed", i)
		}
	}

	out[0].Value = -1
	if in[0].Value == -1 {
		t.Error("sampler must return a copy")
	}
}

func TestSampleDataPoints_DefaultBudget(t *testing.T) {
	in := hourlySeries(1000, linear)
	out := SampleDataPoints(in, 1, 0)
	if len(out) > DefaultMaxPoints+2 {
		t.Errorf("expected at most %d points, got %d", DefaultMaxPoints+2, len(out))
	}
}

func TestSampleDataPoints_StrideAppendsLast(t *testing.T) {
	in := hourlySeries(300, linear)

	out := SampleDataPoints(in, 1, 150)
	if len(out) != 151 {
		t.Fatalf("expected 151 points, got %d", len(out))
	}
	assertAnchored(t, in, out)
	if out[1].Value != 2 {
		t.Errorf("expected stride of 2, second point = %v", out[1].Value)
	}
}

func TestSampleDataPoints_StrideEndsOnLast(t *testing.T) {
	in := hourlySeries(301, linear)

	out := SampleDataPoints(in, 1, 150)
	if len(out) != 101 {
		t.Fatalf("expected 101 points, got %d", len(out))
	}
	assertAnchored(t, in, out)
}

func TestSampleDataPoints_BucketBoundAndAnchors(t *testing.T) {
	in := hourlySeries(1000, linear)

	out := SampleDataPoints(in, 24, 150)
	if len(out) > 152 {
		t.Errorf("expected at most 152 points, got %d", len(out))
	}
	if len(out) < 100 {
		t.Errorf("expected bucket sampling to keep most buckets, got %d", len(out))
	}
	assertAnchored(t, in, out)
}

func TestSampleDataPoints_BucketKeepsSpike(t *testing.T) {
	in := hourlySeries(1000, func(i int) float64 {
		if i == 503 {
			return 1000
		}
		return 100
	})

	out := SampleDataPoints(in, 24, 150)

	found := false
	for _, p := range out {
		if p.Value == 1000 {
			found = true
			if !p.Date.Equal(in[503].Date) {
				t.Errorf("spike at %v, want %v", p.Date, in[503].Date)
			}
		}
	}
	if !found {
		t.Error("sampled series lost the spike")
	}
}

func TestSampleDataPoints_BucketSortsInput(t *testing.T) {
	in := hourlySeries(1000, linear)
	reversed := make([]models.TimeSeriesPoint, len(in))
	for i := range in {
		reversed[len(in)-1-i] = in[i]
	}

	out := SampleDataPoints(reversed, 24, 150)
	assertAnchored(t, in, out)
}

func TestMostSignificantPoint(t *testing.T) {
	at := date(2024, 1, 1, 0, 0)
	bucket := []models.TimeSeriesPoint{
		pt(at, 10),
		pt(at.Add(time.Hour), 11),
		pt(at.Add(2*time.Hour), 30),
		pt(at.Add(3*time.Hour), 31),
	}
	if got := mostSignificantPoint(bucket); got.Value != 30 {
		t.Errorf("expected the largest jump, got %v", got.Value)
	}

	flat := []models.TimeSeriesPoint{pt(at, 5), pt(at.Add(time.Hour), 5)}
	if got := mostSignificantPoint(flat); !got.Date.Equal(at) {
		t.Errorf("flat bucket should return its first point, got %v", got.Date)
	}
}

package performance

import (
	"math"
	"testing"

	"github.com/bobmcallan/argos/internal/models"
)

func TestDelta(t *testing.T) {
	tests := []struct {
		name        string
		start, end  float64
		wantAmount  float64
		wantPercent float64
	}{
		{"decline", 5000, 4500, -500, -10},
		{"growth", 200, 250, 50, 25},
		{"debt paid down", -1000, -800, 200, 20},
		{"debt grows", -1000, -1200, -200, -20},
		{"zero to positive", 0, 300, 300, 100},
		{"zero to negative", 0, -300, -300, -100},
		{"zero to zero", 0, 0, 0, 0},
		{"unchanged", 42, 42, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, pct := Delta(tt.start, tt.end)
			if amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", amount, tt.wantAmount)
			}
			if math.Abs(pct-tt.wantPercent) > 1e-9 {
				t.Errorf("percent = %v, want %v", pct, tt.wantPercent)
			}
		})
	}
}

func TestRank_StableDescending(t *testing.T) {
	perf := []models.AccountPerformance{
		{ID: "a", PercentChange: 5},
		{ID: "b", PercentChange: 20},
		{ID: "c", PercentChange: 5},
		{ID: "d", PercentChange: -3},
	}

	Rank(perf)

	want := []string{"b", "a", "c", "d"}
	for i, id := range want {
		if perf[i].ID != id {
			t.Errorf("rank[%d] = %s, want %s", i, perf[i].ID, id)
		}
	}
}

func TestBestAndWorst(t *testing.T) {
	perf := []models.AccountPerformance{
		{ID: "mid", PercentChange: 1},
		{ID: "worst", PercentChange: -8},
		{ID: "best", PercentChange: 9},
	}

	best, worst := BestAndWorst(perf)
	if best == nil || best.ID != "best" {
		t.Errorf("best = %+v", best)
	}
	if worst == nil || worst.ID != "worst" {
		t.Errorf("worst = %+v", worst)
	}
	if perf[0].ID != "mid" {
		t.Error("BestAndWorst must not reorder its input")
	}
}

func TestBestAndWorst_Single(t *testing.T) {
	best, worst := BestAndWorst([]models.AccountPerformance{{ID: "only"}})
	if best == nil || worst == nil || best.ID != "only" || worst.ID != "only" {
		t.Errorf("expected the single entry for both, got %+v / %+v", best, worst)
	}
}

func TestBestAndWorst_Empty(t *testing.T) {
	best, worst := BestAndWorst(nil)
	if best != nil || worst != nil {
		t.Error("expected nil performers for empty input")
	}
}

package performance

import (
	"math"
	"sort"

	"github.com/bobmcallan/argos/internal/models"
)

// Delta returns the change from start to end and its percentage of |start|.
// A zero start reads as +100% for a positive end, -100% for a negative end and
// 0% otherwise.
func Delta(start, end float64) (amountChange, percentChange float64) {
	amountChange = end - start
	if math.Abs(start) == 0 {
		switch {
		case end > 0:
			return amountChange, 100.0
		case end < 0:
			return amountChange, -100.0
		default:
			return amountChange, 0.0
		}
	}
	return amountChange, amountChange / math.Abs(start) * 100.0
}

// Rank orders performances by PercentChange descending, keeping input order for ties.
func Rank(perf []models.AccountPerformance) {
	sort.SliceStable(perf, func(i, j int) bool {
		return perf[i].PercentChange > perf[j].PercentChange
	})
}

// BestAndWorst returns the first and last entries of the ranked performances.
// Both are nil for an empty input.
func BestAndWorst(perf []models.AccountPerformance) (best, worst *models.AccountPerformance) {
	if len(perf) == 0 {
		return nil, nil
	}
	ranked := make([]models.AccountPerformance, len(perf))
	copy(ranked, perf)
	Rank(ranked)
	return &ranked[0], &ranked[len(ranked)-1]
}

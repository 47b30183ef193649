// Package performance computes period-over-period account changes
package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/argos/internal/common"
	"github.com/bobmcallan/argos/internal/interfaces"
	"github.com/bobmcallan/argos/internal/models"
)

// Compile-time interface check
var _ interfaces.PerformanceService = (*Service)(nil)

// Service implements PerformanceService
type Service struct {
	providers interfaces.ProviderRouter
	logger    *common.Logger
	now       func() time.Time
}

// NewService creates a new performance service
func NewService(providers interfaces.ProviderRouter, logger *common.Logger) *Service {
	return &Service{
		providers: providers,
		logger:    logger,
		now:       time.Now,
	}
}

// AccountPerformance returns the ranked change of every account over r.
// The start value is the latest snapshot at or before the range start, 0 when
// none exists; the end value is the latest snapshot at or before now.
func (s *Service) AccountPerformance(ctx context.Context, userID string, r models.TimeRange) ([]models.AccountPerformance, error) {
	provider := s.providers.For(userID)
	end := s.now()
	start := r.Start(end)

	if rpc, ok := provider.(interfaces.PerformanceRPC); ok {
		perf, err := rpc.CalculateAccountPerformance(ctx, userID, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate account performance: %w", err)
		}
		Rank(perf)
		return perf, nil
	}

	accounts, err := provider.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	perf := make([]models.AccountPerformance, 0, len(accounts))
	for _, a := range accounts {
		startValue, _, err := provider.AccountValueAsOf(ctx, userID, a.ID, start)
		if err != nil {
			return nil, fmt.Errorf("failed to get start value for %s: %w", a.ID, err)
		}
		endValue, _, err := provider.AccountValueAsOf(ctx, userID, a.ID, end)
		if err != nil {
			return nil, fmt.Errorf("failed to get end value for %s: %w", a.ID, err)
		}

		amount, pct := Delta(startValue, endValue)
		perf = append(perf, models.AccountPerformance{
			ID:            a.ID,
			Name:          a.Name,
			Type:          a.Type,
			StartValue:    startValue,
			EndValue:      endValue,
			AmountChange:  amount,
			PercentChange: pct,
			IsDebt:        a.IsDebt,
		})
	}

	Rank(perf)
	s.logger.Debug().
		Str("user", userID).
		Str("range", r.String()).
		Int("accounts", len(perf)).
		Str("provider", provider.Name()).
		Msg("Account performance computed")
	return perf, nil
}

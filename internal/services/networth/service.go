// Package networth builds net-worth history, chart series and summaries
package networth

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/argos/internal/common"
	"github.com/bobmcallan/argos/internal/interfaces"
	"github.com/bobmcallan/argos/internal/models"
	"github.com/bobmcallan/argos/internal/services/performance"
	"github.com/bobmcallan/argos/internal/timeseries"
)

// Compile-time interface check
var _ interfaces.NetWorthService = (*Service)(nil)

// Service implements NetWorthService
type Service struct {
	providers   interfaces.ProviderRouter
	performance interfaces.PerformanceService
	chart       common.ChartConfig
	currency    string
	location    *time.Location
	logger      *common.Logger
	now         func() time.Time
}

// NewService creates a new net worth service
func NewService(providers interfaces.ProviderRouter, perf interfaces.PerformanceService, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		providers:   providers,
		performance: perf,
		chart:       config.Chart,
		currency:    config.Currency,
		location:    config.Chart.GetLocation(),
		logger:      logger,
		now:         time.Now,
	}
}

// clock returns the request's single reference time in the bucketing location.
func (s *Service) clock() time.Time {
	return s.now().In(s.location)
}

// History returns the raw snapshots for r, including the opening anchor.
func (s *Service) History(ctx context.Context, userID string, r models.TimeRange) ([]models.TimeSeriesPoint, error) {
	now := s.clock()
	raw, err := s.providers.For(userID).NetWorthHistory(ctx, userID, r.Start(now), now)
	if err != nil {
		return nil, fmt.Errorf("failed to get net worth history: %w", err)
	}
	return raw, nil
}

func (s *Service) withDefaults(opts interfaces.ChartOptions) interfaces.ChartOptions {
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = s.chart.DefaultViewport
	}
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = s.chart.MaxPoints
	}
	if opts.EventThreshold <= 0 {
		opts.EventThreshold = s.chart.EventThreshold
	}
	return opts
}

// Chart fills, resolves and samples the net-worth history for plotting.
// A failed fetch is logged and charted as an empty series.
func (s *Service) Chart(ctx context.Context, userID string, opts interfaces.ChartOptions) (*models.ChartSeries, error) {
	funcStart := time.Now()
	opts = s.withDefaults(opts)
	now := s.clock()
	provider := s.providers.For(userID)

	raw, err := provider.NetWorthHistory(ctx, userID, opts.Range.Start(now), now)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Str("provider", provider.Name()).Msg("Net worth history unavailable, charting empty series")
		raw = []models.TimeSeriesPoint{}
	}
	sort.SliceStable(raw, func(i, j int) bool { return raw[i].Date.Before(raw[j].Date) })

	filled := timeseries.FillMissingDataPoints(raw, opts.Range, now)
	resolution := timeseries.GetOptimalResolution(opts.ViewportWidth, opts.Range.PlanningDays())
	sampled := timeseries.SampleDataPoints(filled, resolution, opts.MaxPoints)

	series := &models.ChartSeries{
		Range:           opts.Range,
		Granularity:     timeseries.ClassifyInterval(opts.Range.Days()),
		ResolutionHours: resolution,
		RawCount:        len(raw),
		Points:          sampled,
	}
	if opts.IncludeEvents {
		series.Events = timeseries.GetSignificantEvents(raw, opts.EventThreshold)
	}

	s.logger.Debug().
		Str("user", userID).
		Str("range", opts.Range.String()).
		Int("raw", len(raw)).
		Int("filled", len(filled)).
		Int("sampled", len(sampled)).
		Int("resolution_hours", resolution).
		Dur("elapsed", time.Since(funcStart)).
		Msg("Chart series built")
	return series, nil
}

// Summary reports the current net worth from account balances and its change
// since the first snapshot in r.
func (s *Service) Summary(ctx context.Context, userID string, r models.TimeRange) (*models.NetWorthSummary, error) {
	now := s.clock()
	provider := s.providers.For(userID)

	accounts, err := provider.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	assets, liabilities := Totals(accounts)
	current := assets.Sub(liabilities).Round(2).InexactFloat64()

	start := r.Start(now)
	previous := current
	history, err := provider.NetWorthHistory(ctx, userID, start, now)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Net worth history unavailable, using current value as baseline")
	}
	for _, p := range history {
		if !p.Date.Before(start) {
			previous = p.Value
			break
		}
	}

	change, pct := performance.Delta(previous, current)
	summary := &models.NetWorthSummary{
		Range:            r,
		CurrentValue:     current,
		PreviousValue:    previous,
		Change:           change,
		PercentageChange: pct,
		AssetsTotal:      assets.Round(2).InexactFloat64(),
		LiabilitiesTotal: liabilities.Round(2).InexactFloat64(),
		Currency:         s.currency,
	}

	if s.performance != nil && len(accounts) > 0 {
		perf, err := s.performance.AccountPerformance(ctx, userID, r)
		if err != nil {
			s.logger.Warn().Err(err).Str("user", userID).Msg("Account performance unavailable for summary")
		} else {
			summary.BestPerformer, summary.WorstPerformer = performance.BestAndWorst(perf)
		}
	}
	return summary, nil
}

// Totals sums asset balances and the magnitude of debt balances.
func Totals(accounts []*models.Account) (assets, liabilities decimal.Decimal) {
	for _, a := range accounts {
		balance := decimal.NewFromFloat(a.Balance)
		if a.IsDebt {
			liabilities = liabilities.Add(balance.Abs())
		} else {
			assets = assets.Add(balance)
		}
	}
	return assets, liabilities
}

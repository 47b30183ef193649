// Package accounts manages user accounts and keeps net-worth history current
package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/argos/internal/common"
	"github.com/bobmcallan/argos/internal/interfaces"
	"github.com/bobmcallan/argos/internal/models"
	"github.com/bobmcallan/argos/internal/services/networth"
	"github.com/bobmcallan/argos/internal/timeseries"
)

// Compile-time interface check
var _ interfaces.AccountService = (*Service)(nil)

// Service implements AccountService
type Service struct {
	providers interfaces.ProviderRouter
	location  *time.Location
	logger    *common.Logger
	now       func() time.Time
}

// NewService creates a new account service. History grids are bucketed in the
// chart location, matching net worth charts.
func NewService(providers interfaces.ProviderRouter, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		providers: providers,
		location:  config.Chart.GetLocation(),
		logger:    logger,
		now:       time.Now,
	}
}

// clock returns the current time in the bucketing location.
func (s *Service) clock() time.Time {
	return s.now().In(s.location)
}

func (s *Service) ListAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	accounts, err := s.providers.For(userID).ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *Service) GetAccount(ctx context.Context, userID, id string) (*models.Account, error) {
	account, err := s.providers.For(userID).GetAccount(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// CreateAccount validates and stores a new account, then snapshots its balance.
// Snapshot and net worth failures are logged; the account stays created.
func (s *Service) CreateAccount(ctx context.Context, userID string, account *models.Account) (*models.Account, error) {
	account.UserID = userID
	if err := models.ValidateAccount(account); err != nil {
		return nil, err
	}

	provider := s.providers.For(userID)
	created, err := provider.CreateAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.snapshot(ctx, provider, created)
	s.recompute(ctx, provider, userID)

	s.logger.Info().Str("user", userID).Str("account", created.ID).Str("type", created.Type).Msg("Account created")
	return created, nil
}

// UpdateAccount replaces an existing account's fields and snapshots the new balance.
// As with CreateAccount, only the account write itself can fail the call.
func (s *Service) UpdateAccount(ctx context.Context, userID string, account *models.Account) (*models.Account, error) {
	account.UserID = userID
	if err := models.ValidateAccount(account); err != nil {
		return nil, err
	}

	provider := s.providers.For(userID)
	if err := provider.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	updated, err := provider.GetAccount(ctx, userID, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload account: %w", err)
	}

	s.snapshot(ctx, provider, updated)
	s.recompute(ctx, provider, userID)
	return updated, nil
}

func (s *Service) DeleteAccount(ctx context.Context, userID, id string) error {
	provider := s.providers.For(userID)
	if err := provider.DeleteAccount(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	s.recompute(ctx, provider, userID)

	s.logger.Info().Str("user", userID).Str("account", id).Msg("Account deleted")
	return nil
}

// AccountHistory returns the gap-filled balance series of one account over r.
// An account without snapshots charts its current balance.
func (s *Service) AccountHistory(ctx context.Context, userID, id string, r models.TimeRange) ([]models.TimeSeriesPoint, error) {
	provider := s.providers.For(userID)
	account, err := provider.GetAccount(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	now := s.clock()
	raw, err := provider.AccountHistory(ctx, userID, id, r.Start(now), now)
	if err != nil {
		return nil, fmt.Errorf("failed to get account history: %w", err)
	}
	if len(raw) == 0 {
		raw = []models.TimeSeriesPoint{{Date: now, Value: account.Balance}}
	}
	return timeseries.FillMissingDataPoints(raw, r, now), nil
}

func (s *Service) snapshot(ctx context.Context, provider interfaces.HistoryProvider, account *models.Account) {
	err := provider.RecordAccountValue(ctx, models.AccountValue{
		AccountID: account.ID,
		UserID:    account.UserID,
		HourStart: models.HourStart(s.now()),
		Value:     account.Balance,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("user", account.UserID).Str("account", account.ID).Msg("Failed to record account value")
	}
}

// recompute writes the user's current net worth into history. Failures are logged
// only; the account change itself has already been stored.
func (s *Service) recompute(ctx context.Context, provider interfaces.HistoryProvider, userID string) {
	accounts, err := provider.ListAccounts(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Failed to list accounts for net worth update")
		return
	}

	assets, liabilities := networth.Totals(accounts)
	total := assets.Sub(liabilities).Round(2).InexactFloat64()
	if err := provider.RecordNetWorth(ctx, userID, total, s.now()); err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Failed to update net worth history")
		return
	}
	s.logger.Debug().Str("user", userID).Float64("net_worth", total).Int("accounts", len(accounts)).Msg("Net worth history updated")
}

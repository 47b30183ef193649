// Package interfaces defines service contracts for Argos
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/argos/internal/models"
)

// HistoryProvider is a storage backend for accounts and their value history.
// Every backend (SurrealDB, Postgres, PocketBase, demo) implements it.
type HistoryProvider interface {
	// Name identifies the backend in logs and health output
	Name() string

	// Accounts
	ListAccounts(ctx context.Context, userID string) ([]*models.Account, error)
	GetAccount(ctx context.Context, userID, id string) (*models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, userID, id string) error

	// RecordAccountValue upserts the snapshot for the value's hour.
	RecordAccountValue(ctx context.Context, value models.AccountValue) error

	// AccountHistory returns snapshots in [from, to] plus the latest snapshot
	// before from, if any, so callers can carry the opening value.
	AccountHistory(ctx context.Context, userID, accountID string, from, to time.Time) ([]models.TimeSeriesPoint, error)

	// AccountValueAsOf returns the latest snapshot at or before asOf.
	AccountValueAsOf(ctx context.Context, userID, accountID string, asOf time.Time) (float64, bool, error)

	// NetWorthHistory has the same anchoring rule as AccountHistory.
	NetWorthHistory(ctx context.Context, userID string, from, to time.Time) ([]models.TimeSeriesPoint, error)

	// RecordNetWorth upserts the aggregate row for the hour containing at.
	RecordNetWorth(ctx context.Context, userID string, value float64, at time.Time) error

	// LatestNetWorth returns models.ErrNotFound when no row exists.
	LatestNetWorth(ctx context.Context, userID string) (*models.NetWorthRecord, error)

	Close() error
}

// PerformanceRPC is implemented by backends that compute account performance
// server-side.
type PerformanceRPC interface {
	CalculateAccountPerformance(ctx context.Context, userID string, start, end time.Time) ([]models.AccountPerformance, error)
}

// DemoResetter is implemented by backends that hold regenerable demo data.
type DemoResetter interface {
	Invalidate()
}

// ProviderRouter selects the backend serving a user. Demo users always get
// the demo backend.
type ProviderRouter interface {
	For(userID string) HistoryProvider
}

package demo

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/argos/internal/common"
	"github.com/bobmcallan/argos/internal/interfaces"
	"github.com/bobmcallan/argos/internal/models"
)

// Compile-time interface checks
var (
	_ interfaces.HistoryProvider = (*Cache)(nil)
	_ interfaces.DemoResetter    = (*Cache)(nil)
)

// Cache owns the generated demo store. The store is built on first use and
// rebuilt after Invalidate or once it is older than the TTL. Edits made by demo
// users live until then.
type Cache struct {
	mu          sync.Mutex
	userID      string
	seed        uint64
	ttl         time.Duration
	now         func() time.Time
	logger      *common.Logger
	store       *Store
	generatedAt time.Time
}

// NewCache creates a demo cache from config.
func NewCache(config common.DemoConfig, logger *common.Logger) *Cache {
	return &Cache{
		userID: common.DemoUserID,
		seed:   uint64(config.Seed),
		ttl:    config.GetTTL(),
		now:    time.Now,
		logger: logger,
	}
}

// Invalidate drops the generated store so the next call regenerates it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = nil
	c.logger.Info().Msg("Demo data invalidated")
}

func (c *Cache) current() *Store {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.store != nil && common.IsFresh(c.generatedAt, now, c.ttl) {
		return c.store
	}

	start := time.Now()
	c.store = Generate(c.userID, c.seed, now)
	c.generatedAt = now
	c.logger.Info().
		Uint64("seed", c.seed).
		Dur("elapsed", time.Since(start)).
		Msg("Demo data generated")
	return c.store
}

func (c *Cache) Name() string { return "demo" }

func (c *Cache) Close() error { return nil }

func (c *Cache) ListAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	return c.current().ListAccounts(ctx, userID)
}

func (c *Cache) GetAccount(ctx context.Context, userID, id string) (*models.Account, error) {
	return c.current().GetAccount(ctx, userID, id)
}

func (c *Cache) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	return c.current().CreateAccount(ctx, account)
}

func (c *Cache) UpdateAccount(ctx context.Context, account *models.Account) error {
	return c.current().UpdateAccount(ctx, account)
}

func (c *Cache) DeleteAccount(ctx context.Context, userID, id string) error {
	return c.current().DeleteAccount(ctx, userID, id)
}

func (c *Cache) RecordAccountValue(ctx context.Context, value models.AccountValue) error {
	return c.current().RecordAccountValue(ctx, value)
}

func (c *Cache) AccountHistory(ctx context.Context, userID, accountID string, from, to time.Time) ([]models.TimeSeriesPoint, error) {
	return c.current().AccountHistory(ctx, userID, accountID, from, to)
}

func (c *Cache) AccountValueAsOf(ctx context.Context, userID, accountID string, asOf time.Time) (float64, bool, error) {
	return c.current().AccountValueAsOf(ctx, userID, accountID, asOf)
}

func (c *Cache) NetWorthHistory(ctx context.Context, userID string, from, to time.Time) ([]models.TimeSeriesPoint, error) {
	return c.current().NetWorthHistory(ctx, userID, from, to)
}

func (c *Cache) RecordNetWorth(ctx context.Context, userID string, value float64, at time.Time) error {
	return c.current().RecordNetWorth(ctx, userID, value, at)
}

func (c *Cache) LatestNetWorth(ctx context.Context, userID string) (*models.NetWorthRecord, error) {
	return c.current().LatestNetWorth(ctx, userID)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/argos/internal/common"
	"github.com/bobmcallan/argos/internal/interfaces"
)

// Compile-time interface checks
var (
	_ interfaces.HistoryProvider = (*Store)(nil)
	_ interfaces.PerformanceRPC  = (*Store)(nil)
)

// Store implements interfaces.HistoryProvider using Postgres.
type Store struct {
	db     *DB
	logger *common.Logger
}

// NewStore connects to Postgres and applies the schema.
func NewStore(ctx context.Context, logger *common.Logger, dsn string) (*Store, error) {
	db, err := NewDB(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info().Msg("Postgres history store ready")
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Name() string { return "postgres" }

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// parseAmount converts a NUMERIC column scanned as text.
func parseAmount(column, raw string) (float64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return d.InexactFloat64(), nil
}

// amount renders v as a two-decimal NUMERIC literal.
func amount(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

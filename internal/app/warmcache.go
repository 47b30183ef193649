package app

import (
	"context"
	"os"
	"time"

	"github.com/bobmcallan/argos/internal/common"
	"github.com/bobmcallan/argos/internal/interfaces"
)

// warmCache builds the demo data set ahead of the first request.
func warmCache(ctx context.Context, provider interfaces.HistoryProvider, logger *common.Logger) {
	if os.Getenv("ARGOS_WARM_CACHE") == "off" {
		logger.Info().Msg("Warm cache: disabled via ARGOS_WARM_CACHE=off")
		return
	}

	start := time.Now()
	accounts, err := provider.ListAccounts(ctx, common.DemoUserID)
	if err != nil {
		logger.Warn().Err(err).Msg("Warm cache: demo accounts unavailable")
		return
	}
	if _, err := provider.LatestNetWorth(ctx, common.DemoUserID); err != nil {
		logger.Warn().Err(err).Msg("Warm cache: demo net worth unavailable")
		return
	}

	logger.Info().
		Int("accounts", len(accounts)).
		Dur("elapsed", time.Since(start)).
		Msg("Warm cache: demo data ready")
}

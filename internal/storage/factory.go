// Package storage selects and routes the history provider backends.
package storage

import (
	"context"
	"fmt"

	"github.com/bobmcallan/argos/internal/clients/pocketbase"
	"github.com/bobmcallan/argos/internal/common"
	"github.com/bobmcallan/argos/internal/interfaces"
	"github.com/bobmcallan/argos/internal/storage/demo"
	"github.com/bobmcallan/argos/internal/storage/postgres"
	"github.com/bobmcallan/argos/internal/storage/surrealdb"
)

// NewHistoryProvider creates the provider named by config.Storage.Backend.
// The demo backend returns demoCache itself.
func NewHistoryProvider(ctx context.Context, logger *common.Logger, config *common.Config, demoCache *demo.Cache) (interfaces.HistoryProvider, error) {
	backend := config.Storage.Backend
	if backend == "" {
		backend = common.BackendDemo
	}

	switch backend {
	case common.BackendDemo:
		return demoCache, nil

	case common.BackendSurrealDB:
		store, err := surrealdb.NewStore(ctx, logger, config.Storage.SurrealDB)
		if err != nil {
			return nil, err
		}
		return store, nil

	case common.BackendPostgres:
		store, err := postgres.NewStore(ctx, logger, config.Storage.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil

	case common.BackendPocketBase:
		pb := config.Storage.PocketBase
		return pocketbase.NewClient(pb.BaseURL,
			pocketbase.WithToken(pb.Token),
			pocketbase.WithCollectionPrefix(pb.Collection),
			pocketbase.WithRateLimit(pb.RateLimit),
			pocketbase.WithTimeout(pb.GetTimeout()),
			pocketbase.WithLogger(logger),
		), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: demo, surrealdb, postgres, pocketbase)", backend)
	}
}

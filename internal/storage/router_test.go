package storage

import (
	"context"
	"testing"

	"github.com/bobmcallan/argos/internal/common"
	"github.com/bobmcallan/argos/internal/storage/demo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterFor(t *testing.T) {
	primary := demo.NewStore()
	demoStore := demo.NewStore()
	r := NewRouter(primary, demoStore)

	assert.Same(t, demoStore, r.For(common.DemoUserID))
	assert.Same(t, demoStore, r.For(""))
	assert.Same(t, primary, r.For("user-1"))
	assert.Same(t, primary, r.Primary())
	assert.NoError(t, r.Close())
}

func TestNewHistoryProviderDemo(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cache := demo.NewCache(cfg.Demo, common.NewSilentLogger())

	p, err := NewHistoryProvider(context.Background(), common.NewSilentLogger(), cfg, cache)
	require.NoError(t, err)
	assert.Equal(t, "demo", p.Name())
	assert.Same(t, cache, p)
}

func TestNewHistoryProviderPocketBase(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = common.BackendPocketBase

	p, err := NewHistoryProvider(context.Background(), common.NewSilentLogger(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "pocketbase", p.Name())
}

func TestNewHistoryProviderUnknown(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = "badger"

	_, err := NewHistoryProvider(context.Background(), common.NewSilentLogger(), cfg, nil)
	assert.Error(t, err)
}

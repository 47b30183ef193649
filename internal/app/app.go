package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/argos/internal/common"
	"github.com/bobmcallan/argos/internal/interfaces"
	"github.com/bobmcallan/argos/internal/services/accounts"
	"github.com/bobmcallan/argos/internal/services/networth"
	"github.com/bobmcallan/argos/internal/services/performance"
	"github.com/bobmcallan/argos/internal/storage"
	"github.com/bobmcallan/argos/internal/storage/demo"
)

// App holds the initialized providers and services shared by the HTTP server.
type App struct {
	Config             *common.Config
	Logger             *common.Logger
	Providers          *storage.Router
	DemoCache          *demo.Cache
	AccountService     interfaces.AccountService
	NetWorthService    interfaces.NetWorthService
	PerformanceService interfaces.PerformanceService
	StartupTime        time.Time

	warmCacheCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolveConfigPath checks the provided path, ARGOS_CONFIG, then the binary dir,
// then the development fallback.
func resolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("ARGOS_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "argos.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/argos.toml"
		}
	}
	return configPath
}

// NewApp loads configuration and wires providers and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(resolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(getBinaryDir(), config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)
	return NewAppWithConfig(context.Background(), config, logger)
}

// NewAppWithConfig wires the app from an already loaded config.
func NewAppWithConfig(ctx context.Context, config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()

	demoCache := demo.NewCache(config.Demo, logger)

	primary, err := storage.NewHistoryProvider(ctx, logger, config, demoCache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	providers := storage.NewRouter(primary, demoCache)

	performanceService := performance.NewService(providers, logger)
	netWorthService := networth.NewService(providers, performanceService, config, logger)
	accountService := accounts.NewService(providers, config, logger)

	a := &App{
		Config:             config,
		Logger:             logger,
		Providers:          providers,
		DemoCache:          demoCache,
		AccountService:     accountService,
		NetWorthService:    netWorthService,
		PerformanceService: performanceService,
		StartupTime:        startupStart,
	}

	logger.Info().
		Str("backend", primary.Name()).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.warmCacheCancel != nil {
		a.warmCacheCancel()
		a.warmCacheCancel = nil
	}
	if a.Providers != nil {
		if err := a.Providers.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
		a.Providers = nil
	}
}

// StartWarmCache generates demo data in the background so the first demo
// request does not pay for it.
func (a *App) StartWarmCache() {
	warmCtx, warmCancel := context.WithTimeout(context.Background(), time.Minute)
	a.warmCacheCancel = warmCancel
	go func() {
		defer warmCancel()
		warmCache(warmCtx, a.DemoCache, a.Logger)
	}()
}

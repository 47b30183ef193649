package interfaces

import (
	"context"
	"io"

	"github.com/bobmcallan/argos/internal/models"
)

// ChartOptions configures a chart series request
type ChartOptions struct {
	Range          models.TimeRange
	ViewportWidth  int     // Pixel width of the chart (default from config)
	MaxPoints      int     // Point budget (default 150)
	IncludeEvents  bool    // Attach significant events
	EventThreshold float64 // Percent move that counts as an event (default 2.0)
}

// NetWorthService builds net-worth history, charts and summaries
type NetWorthService interface {
	// History returns the raw snapshots for the range
	History(ctx context.Context, userID string, r models.TimeRange) ([]models.TimeSeriesPoint, error)

	// Chart returns a gap-free, bounded series for plotting
	Chart(ctx context.Context, userID string, opts ChartOptions) (*models.ChartSeries, error)

	// Summary returns the headline figure and its change over the range
	Summary(ctx context.Context, userID string, r models.TimeRange) (*models.NetWorthSummary, error)

	// RenderChartPNG writes the chart as a PNG image
	RenderChartPNG(ctx context.Context, userID string, opts ChartOptions, w io.Writer) error
}

// PerformanceService computes per-account changes over a range
type PerformanceService interface {
	AccountPerformance(ctx context.Context, userID string, r models.TimeRange) ([]models.AccountPerformance, error)
}

// AccountService manages accounts and keeps net-worth history current
type AccountService interface {
	ListAccounts(ctx context.Context, userID string) ([]*models.Account, error)
	GetAccount(ctx context.Context, userID, id string) (*models.Account, error)
	CreateAccount(ctx context.Context, userID string, account *models.Account) (*models.Account, error)
	UpdateAccount(ctx context.Context, userID string, account *models.Account) (*models.Account, error)
	DeleteAccount(ctx context.Context, userID, id string) error

	// AccountHistory returns a gap-filled series for one account
	AccountHistory(ctx context.Context, userID, id string, r models.TimeRange) ([]models.TimeSeriesPoint, error)
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/argos/internal/models"
)

// CalculateAccountPerformance runs the calculate_account_performance function.
func (s *Store) CalculateAccountPerformance(ctx context.Context, userID string, start, end time.Time) ([]models.AccountPerformance, error) {
	query := `
		SELECT account_id, account_name, account_type, is_debt,
			start_value, end_value, absolute_change, percent_change
		FROM calculate_account_performance($1, $2, $3)
	`
	rows, err := s.db.QueryContext(ctx, query, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to call calculate_account_performance: %w", err)
	}
	defer rows.Close()

	perf := []models.AccountPerformance{}
	for rows.Next() {
		var p models.AccountPerformance
		var startRaw, endRaw, changeRaw, pctRaw string
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.IsDebt, &startRaw, &endRaw, &changeRaw, &pctRaw); err != nil {
			return nil, fmt.Errorf("failed to scan performance row: %w", err)
		}
		for _, f := range []struct {
			column string
			raw    string
			dest   *float64
		}{
			{"start_value", startRaw, &p.StartValue},
			{"end_value", endRaw, &p.EndValue},
			{"absolute_change", changeRaw, &p.AmountChange},
			{"percent_change", pctRaw, &p.PercentChange},
		} {
			v, err := parseAmount(f.column, f.raw)
			if err != nil {
				return nil, err
			}
			*f.dest = v
		}
		perf = append(perf, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating performance rows: %w", err)
	}

	s.logger.Debug().Str("user", userID).Int("accounts", len(perf)).Msg("Performance computed in Postgres")
	return perf, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/argos/internal/models"
)

func (s *Store) RecordAccountValue(ctx context.Context, value models.AccountValue) error {
	query := `
		INSERT INTO hourly_account_values (account_id, user_id, hour_start, value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, hour_start)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	_, err := s.db.ExecContext(ctx, query, value.AccountID, value.UserID, models.HourStart(value.HourStart), amount(value.Value))
	if err != nil {
		return fmt.Errorf("failed to record account value: %w", err)
	}
	return nil
}

// AccountHistory returns in-range values preceded by the latest earlier value.
func (s *Store) AccountHistory(ctx context.Context, userID, accountID string, from, to time.Time) ([]models.TimeSeriesPoint, error) {
	query := `
		(SELECT hour_start, value FROM hourly_account_values
		 WHERE user_id = $1 AND account_id = $2 AND hour_start < $3
		 ORDER BY hour_start DESC LIMIT 1)
		UNION ALL
		(SELECT hour_start, value FROM hourly_account_values
		 WHERE user_id = $1 AND account_id = $2 AND hour_start >= $3 AND hour_start <= $4)
		ORDER BY hour_start
	`
	points, err := s.queryPoints(ctx, query, userID, accountID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get account history: %w", err)
	}
	return points, nil
}

func (s *Store) AccountValueAsOf(ctx context.Context, userID, accountID string, asOf time.Time) (float64, bool, error) {
	query := `
		SELECT value FROM hourly_account_values
		WHERE user_id = $1 AND account_id = $2 AND hour_start <= $3
		ORDER BY hour_start DESC
		LIMIT 1
	`
	var raw string
	err := s.db.QueryRowContext(ctx, query, userID, accountID, asOf.UTC()).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get account value: %w", err)
	}
	v, err := parseAmount("value", raw)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func (s *Store) NetWorthHistory(ctx context.Context, userID string, from, to time.Time) ([]models.TimeSeriesPoint, error) {
	query := `
		(SELECT date, value FROM networth_history
		 WHERE user_id = $1 AND date < $2
		 ORDER BY date DESC LIMIT 1)
		UNION ALL
		(SELECT date, value FROM networth_history
		 WHERE user_id = $1 AND date >= $2 AND date <= $3)
		ORDER BY date
	`
	points, err := s.queryPoints(ctx, query, userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get net worth history: %w", err)
	}
	return points, nil
}

func (s *Store) RecordNetWorth(ctx context.Context, userID string, value float64, at time.Time) error {
	query := `
		INSERT INTO networth_history (user_id, date, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date)
		DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := s.db.ExecContext(ctx, query, userID, models.HourStart(at), amount(value)); err != nil {
		return fmt.Errorf("failed to record net worth: %w", err)
	}
	return nil
}

func (s *Store) LatestNetWorth(ctx context.Context, userID string) (*models.NetWorthRecord, error) {
	query := `
		SELECT date, value FROM networth_history
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT 1
	`
	rec := models.NetWorthRecord{UserID: userID}
	var raw string
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&rec.Date, &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("net worth for %s: %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest net worth: %w", err)
	}
	if rec.Value, err = parseAmount("value", raw); err != nil {
		return nil, err
	}
	rec.Date = rec.Date.UTC()
	return &rec, nil
}

func (s *Store) queryPoints(ctx context.Context, query string, args ...any) ([]models.TimeSeriesPoint, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []models.TimeSeriesPoint{}
	for rows.Next() {
		var p models.TimeSeriesPoint
		var raw string
		if err := rows.Scan(&p.Date, &raw); err != nil {
			return nil, err
		}
		if p.Value, err = parseAmount("value", raw); err != nil {
			return nil, err
		}
		p.Date = p.Date.UTC()
		points = append(points, p)
	}
	return points, rows.Err()
}

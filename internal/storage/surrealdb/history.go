package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/argos/internal/models"
)

type valueRow struct {
	HourStart time.Time `json:"hour_start"`
	Value     float64   `json:"value"`
}

type netWorthRow struct {
	UserID string    `json:"user_id"`
	Date   time.Time `json:"date"`
	Value  float64   `json:"value"`
}

// hourKey identifies the hour containing t within a record id.
func hourKey(owner string, t time.Time) string {
	return fmt.Sprintf("%s_%d", owner, models.HourStart(t).Unix())
}

func (s *Store) RecordAccountValue(ctx context.Context, value models.AccountValue) error {
	hour := models.HourStart(value.HourStart)
	sql := `UPSERT $rid SET account_id = $account_id, user_id = $user_id, hour_start = $hour_start, value = $value`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID(tableAccountValues, hourKey(value.AccountID, hour)),
		"account_id": value.AccountID,
		"user_id":    value.UserID,
		"hour_start": hour,
		"value":      value.Value,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to record account value: %w", err)
	}
	return nil
}

func (s *Store) AccountHistory(ctx context.Context, userID, accountID string, from, to time.Time) ([]models.TimeSeriesPoint, error) {
	vars := map[string]any{
		"user_id":    userID,
		"account_id": accountID,
		"from":       from.UTC(),
		"to":         to.UTC(),
	}
	where := "user_id = $user_id AND account_id = $account_id"

	anchor, err := s.queryValues(ctx, "SELECT hour_start, value FROM account_values WHERE "+where+
		" AND hour_start < $from ORDER BY hour_start DESC LIMIT 1", vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get account anchor value: %w", err)
	}
	rows, err := s.queryValues(ctx, "SELECT hour_start, value FROM account_values WHERE "+where+
		" AND hour_start >= $from AND hour_start <= $to ORDER BY hour_start ASC", vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get account history: %w", err)
	}

	return toPoints(append(anchor, rows...)), nil
}

func (s *Store) AccountValueAsOf(ctx context.Context, userID, accountID string, asOf time.Time) (float64, bool, error) {
	sql := "SELECT hour_start, value FROM account_values WHERE user_id = $user_id AND account_id = $account_id" +
		" AND hour_start <= $as_of ORDER BY hour_start DESC LIMIT 1"
	rows, err := s.queryValues(ctx, sql, map[string]any{
		"user_id":    userID,
		"account_id": accountID,
		"as_of":      asOf.UTC(),
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to get account value: %w", err)
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].Value, true, nil
}

func (s *Store) queryValues(ctx context.Context, sql string, vars map[string]any) ([]valueRow, error) {
	results, err := surrealdb.Query[[]valueRow](ctx, s.db, sql, vars)
	if err != nil {
		return nil, err
	}
	return firstResult(results), nil
}

func toPoints(rows []valueRow) []models.TimeSeriesPoint {
	points := make([]models.TimeSeriesPoint, len(rows))
	for i, r := range rows {
		points[i] = models.TimeSeriesPoint{Date: r.HourStart.UTC(), Value: r.Value}
	}
	return points
}

func (s *Store) NetWorthHistory(ctx context.Context, userID string, from, to time.Time) ([]models.TimeSeriesPoint, error) {
	vars := map[string]any{"user_id": userID, "from": from.UTC(), "to": to.UTC()}

	anchor, err := s.queryNetWorth(ctx, "SELECT user_id, date, value FROM networth_history WHERE user_id = $user_id"+
		" AND date < $from ORDER BY date DESC LIMIT 1", vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get net worth anchor: %w", err)
	}
	rows, err := s.queryNetWorth(ctx, "SELECT user_id, date, value FROM networth_history WHERE user_id = $user_id"+
		" AND date >= $from AND date <= $to ORDER BY date ASC", vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get net worth history: %w", err)
	}

	rows = append(anchor, rows...)
	points := make([]models.TimeSeriesPoint, len(rows))
	for i, r := range rows {
		points[i] = models.TimeSeriesPoint{Date: r.Date.UTC(), Value: r.Value}
	}
	return points, nil
}

func (s *Store) RecordNetWorth(ctx context.Context, userID string, value float64, at time.Time) error {
	hour := models.HourStart(at)
	sql := `UPSERT $rid SET user_id = $user_id, date = $date, value = $value`
	vars := map[string]any{
		"rid":     surrealmodels.NewRecordID(tableNetWorth, hourKey(userID, hour)),
		"user_id": userID,
		"date":    hour,
		"value":   value,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to record net worth: %w", err)
	}
	return nil
}

func (s *Store) LatestNetWorth(ctx context.Context, userID string) (*models.NetWorthRecord, error) {
	rows, err := s.queryNetWorth(ctx, "SELECT user_id, date, value FROM networth_history WHERE user_id = $user_id"+
		" ORDER BY date DESC LIMIT 1", map[string]any{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to get latest net worth: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("net worth for %s: %w", userID, models.ErrNotFound)
	}
	return &models.NetWorthRecord{UserID: rows[0].UserID, Date: rows[0].Date.UTC(), Value: rows[0].Value}, nil
}

func (s *Store) queryNetWorth(ctx context.Context, sql string, vars map[string]any) ([]netWorthRow, error) {
	results, err := surrealdb.Query[[]netWorthRow](ctx, s.db, sql, vars)
	if err != nil {
		return nil, err
	}
	return firstResult(results), nil
}

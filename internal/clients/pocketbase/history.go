package pocketbase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bobmcallan/argos/internal/models"
)

type valueRecord struct {
	ID        string  `json:"id,omitempty"`
	AccountID string  `json:"account_id"`
	UserID    string  `json:"user_id"`
	HourStart string  `json:"hour_start"`
	Value     float64 `json:"value"`
}

type netWorthRecord struct {
	ID     string  `json:"id,omitempty"`
	UserID string  `json:"user_id"`
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
}

func (c *Client) RecordAccountValue(ctx context.Context, value models.AccountValue) error {
	hour := models.HourStart(value.HourStart)
	coll := c.collection("hourly_account_values")
	filter := fmt.Sprintf("account_id = %s && hour_start >= %s && hour_start < %s",
		quote(value.AccountID), quote(formatDate(hour)), quote(formatDate(hour.Add(time.Hour))))

	existing, err := first[valueRecord](ctx, c, coll, filter, "-hour_start")
	if err != nil {
		return fmt.Errorf("failed to find account value: %w", err)
	}

	rec := valueRecord{
		AccountID: value.AccountID,
		UserID:    value.UserID,
		HourStart: formatDate(hour),
		Value:     value.Value,
	}
	if existing != nil {
		err = c.do(ctx, http.MethodPatch, recordsPath(coll)+"/"+url.PathEscape(existing.ID), rec, nil)
	} else {
		err = c.do(ctx, http.MethodPost, recordsPath(coll), rec, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to record account value: %w", err)
	}
	return nil
}

func (c *Client) AccountHistory(ctx context.Context, userID, accountID string, from, to time.Time) ([]models.TimeSeriesPoint, error) {
	coll := c.collection("hourly_account_values")
	owner := fmt.Sprintf("user_id = %s && account_id = %s", quote(userID), quote(accountID))

	anchor, err := first[valueRecord](ctx, c, coll, owner+" && hour_start < "+quote(formatDate(from)), "-hour_start")
	if err != nil {
		return nil, fmt.Errorf("failed to get account anchor value: %w", err)
	}
	rows, err := listAll[valueRecord](ctx, c, coll,
		fmt.Sprintf("%s && hour_start >= %s && hour_start <= %s", owner, quote(formatDate(from)), quote(formatDate(to))),
		"hour_start")
	if err != nil {
		return nil, fmt.Errorf("failed to get account history: %w", err)
	}

	if anchor != nil {
		rows = append([]valueRecord{*anchor}, rows...)
	}
	points := make([]models.TimeSeriesPoint, 0, len(rows))
	for _, r := range rows {
		d, err := parseDate(r.HourStart)
		if err != nil {
			return nil, err
		}
		points = append(points, models.TimeSeriesPoint{Date: d, Value: r.Value})
	}
	return points, nil
}

func (c *Client) AccountValueAsOf(ctx context.Context, userID, accountID string, asOf time.Time) (float64, bool, error) {
	filter := fmt.Sprintf("user_id = %s && account_id = %s && hour_start <= %s",
		quote(userID), quote(accountID), quote(formatDate(asOf)))
	rec, err := first[valueRecord](ctx, c, c.collection("hourly_account_values"), filter, "-hour_start")
	if err != nil {
		return 0, false, fmt.Errorf("failed to get account value: %w", err)
	}
	if rec == nil {
		return 0, false, nil
	}
	return rec.Value, true, nil
}

func (c *Client) NetWorthHistory(ctx context.Context, userID string, from, to time.Time) ([]models.TimeSeriesPoint, error) {
	coll := c.collection("networth_history")
	owner := "user_id = " + quote(userID)

	anchor, err := first[netWorthRecord](ctx, c, coll, owner+" && date < "+quote(formatDate(from)), "-date")
	if err != nil {
		return nil, fmt.Errorf("failed to get net worth anchor: %w", err)
	}
	rows, err := listAll[netWorthRecord](ctx, c, coll,
		fmt.Sprintf("%s && date >= %s && date <= %s", owner, quote(formatDate(from)), quote(formatDate(to))),
		"date")
	if err != nil {
		return nil, fmt.Errorf("failed to get net worth history: %w", err)
	}

	if anchor != nil {
		rows = append([]netWorthRecord{*anchor}, rows...)
	}
	points := make([]models.TimeSeriesPoint, 0, len(rows))
	for _, r := range rows {
		d, err := parseDate(r.Date)
		if err != nil {
			return nil, err
		}
		points = append(points, models.TimeSeriesPoint{Date: d, Value: r.Value})
	}
	return points, nil
}

// RecordNetWorth updates the row for the current hour or creates one.
func (c *Client) RecordNetWorth(ctx context.Context, userID string, value float64, at time.Time) error {
	hour := models.HourStart(at)
	coll := c.collection("networth_history")
	filter := fmt.Sprintf("user_id = %s && date >= %s && date < %s",
		quote(userID), quote(formatDate(hour)), quote(formatDate(hour.Add(time.Hour))))

	existing, err := first[netWorthRecord](ctx, c, coll, filter, "-date")
	if err != nil {
		return fmt.Errorf("failed to find net worth row: %w", err)
	}

	if existing != nil {
		err = c.do(ctx, http.MethodPatch, recordsPath(coll)+"/"+url.PathEscape(existing.ID), map[string]any{"value": value}, nil)
	} else {
		err = c.do(ctx, http.MethodPost, recordsPath(coll), netWorthRecord{UserID: userID, Date: formatDate(hour), Value: value}, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to record net worth: %w", err)
	}
	return nil
}

func (c *Client) LatestNetWorth(ctx context.Context, userID string) (*models.NetWorthRecord, error) {
	rec, err := first[netWorthRecord](ctx, c, c.collection("networth_history"), "user_id = "+quote(userID), "-date")
	if err != nil {
		return nil, fmt.Errorf("failed to get latest net worth: %w", err)
	}
	if rec == nil {
		return nil, notFound("net worth for", userID)
	}
	d, err := parseDate(rec.Date)
	if err != nil {
		return nil, err
	}
	return &models.NetWorthRecord{UserID: rec.UserID, Date: d, Value: rec.Value}, nil
}

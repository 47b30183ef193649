// Package demo provides an in-memory HistoryProvider seeded with generated data.
package demo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/argos/internal/interfaces"
	"github.com/bobmcallan/argos/internal/models"
)

// Compile-time interface check
var _ interfaces.HistoryProvider = (*Store)(nil)

// Store keeps accounts and history in memory. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	accounts map[string]*models.Account
	order    []string
	values   map[string][]models.AccountValue   // account id -> hour-ordered snapshots
	networth map[string][]models.NetWorthRecord // user id -> hour-ordered rows
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:      time.Now,
		accounts: make(map[string]*models.Account),
		values:   make(map[string][]models.AccountValue),
		networth: make(map[string][]models.NetWorthRecord),
	}
}

func (s *Store) Name() string { return "demo" }

func (s *Store) Close() error { return nil }

func (s *Store) ListAccounts(_ context.Context, userID string) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Account, 0, len(s.order))
	for _, id := range s.order {
		a := s.accounts[id]
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) GetAccount(_ context.Context, userID, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok || a.UserID != userID {
		return nil, fmt.Errorf("account %s: %w", id, models.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (s *Store) CreateAccount(_ context.Context, account *models.Account) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *account
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	if _, exists := s.accounts[cp.ID]; exists {
		return nil, fmt.Errorf("account %s already exists", cp.ID)
	}
	now := s.now()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now

	s.accounts[cp.ID] = &cp
	s.order = append(s.order, cp.ID)

	out := cp
	return &out, nil
}

func (s *Store) UpdateAccount(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accounts[account.ID]
	if !ok || existing.UserID != account.UserID {
		return fmt.Errorf("account %s: %w", account.ID, models.ErrNotFound)
	}
	cp := *account
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = s.now()
	s.accounts[cp.ID] = &cp
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok || a.UserID != userID {
		return fmt.Errorf("account %s: %w", id, models.ErrNotFound)
	}
	delete(s.accounts, id)
	delete(s.values, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) RecordAccountValue(_ context.Context, value models.AccountValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value.HourStart = models.HourStart(value.HourStart)
	rows := s.values[value.AccountID]
	i := sort.Search(len(rows), func(i int) bool { return !rows[i].HourStart.Before(value.HourStart) })
	if i < len(rows) && rows[i].HourStart.Equal(value.HourStart) {
		rows[i] = value
		return nil
	}
	rows = append(rows, models.AccountValue{})
	copy(rows[i+1:], rows[i:])
	rows[i] = value
	s.values[value.AccountID] = rows
	return nil
}

func (s *Store) AccountHistory(_ context.Context, userID, accountID string, from, to time.Time) ([]models.TimeSeriesPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var points []models.TimeSeriesPoint
	for _, v := range s.values[accountID] {
		if v.UserID != userID {
			continue
		}
		points = append(points, models.TimeSeriesPoint{Date: v.HourStart, Value: v.Value})
	}
	return anchored(points, from, to), nil
}

func (s *Store) AccountValueAsOf(_ context.Context, userID, accountID string, asOf time.Time) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.values[accountID]
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].UserID == userID && !rows[i].HourStart.After(asOf) {
			return rows[i].Value, true, nil
		}
	}
	return 0, false, nil
}

func (s *Store) NetWorthHistory(_ context.Context, userID string, from, to time.Time) ([]models.TimeSeriesPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.networth[userID]
	points := make([]models.TimeSeriesPoint, len(rows))
	for i, r := range rows {
		points[i] = models.TimeSeriesPoint{Date: r.Date, Value: r.Value}
	}
	return anchored(points, from, to), nil
}

func (s *Store) RecordNetWorth(_ context.Context, userID string, value float64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hour := models.HourStart(at)
	rows := s.networth[userID]
	i := sort.Search(len(rows), func(i int) bool { return !rows[i].Date.Before(hour) })
	rec := models.NetWorthRecord{UserID: userID, Date: hour, Value: value}
	if i < len(rows) && rows[i].Date.Equal(hour) {
		rows[i] = rec
		return nil
	}
	rows = append(rows, models.NetWorthRecord{})
	copy(rows[i+1:], rows[i:])
	rows[i] = rec
	s.networth[userID] = rows
	return nil
}

func (s *Store) LatestNetWorth(_ context.Context, userID string) (*models.NetWorthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.networth[userID]
	if len(rows) == 0 {
		return nil, fmt.Errorf("net worth for %s: %w", userID, models.ErrNotFound)
	}
	rec := rows[len(rows)-1]
	return &rec, nil
}

// anchored keeps date-ascending points within [from, to] plus the last point
// before from.
func anchored(points []models.TimeSeriesPoint, from, to time.Time) []models.TimeSeriesPoint {
	out := []models.TimeSeriesPoint{}
	anchor := -1
	for i, p := range points {
		if p.Date.Before(from) {
			anchor = i
			continue
		}
		if p.Date.After(to) {
			break
		}
		out = append(out, p)
	}
	if anchor >= 0 {
		out = append([]models.TimeSeriesPoint{points[anchor]}, out...)
	}
	return out
}

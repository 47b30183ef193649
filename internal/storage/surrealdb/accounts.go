package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/argos/internal/models"
)

// accountSelectFields aliases account_id to id for struct mapping.
const accountSelectFields = `account_id as id, user_id, name, type, balance, is_debt, currency, created_at, updated_at`

func (s *Store) ListAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	sql := "SELECT " + accountSelectFields + " FROM accounts WHERE user_id = $user_id ORDER BY created_at ASC"
	results, err := surrealdb.Query[[]models.Account](ctx, s.db, sql, map[string]any{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	rows := firstResult(results)
	out := make([]*models.Account, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out, nil
}

func (s *Store) GetAccount(ctx context.Context, userID, id string) (*models.Account, error) {
	sql := "SELECT " + accountSelectFields + " FROM $rid"
	vars := map[string]any{"rid": surrealmodels.NewRecordID(tableAccounts, id)}

	results, err := surrealdb.Query[[]models.Account](ctx, s.db, sql, vars)
	if err != nil && !isNotFoundError(err) {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	rows := firstResult(results)
	if len(rows) == 0 || rows[0].UserID != userID {
		return nil, fmt.Errorf("account %s: %w", id, models.ErrNotFound)
	}
	return &rows[0], nil
}

func (s *Store) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	a := *account
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	if err := s.putAccount(ctx, &a); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &a, nil
}

func (s *Store) UpdateAccount(ctx context.Context, account *models.Account) error {
	existing, err := s.GetAccount(ctx, account.UserID, account.ID)
	if err != nil {
		return err
	}

	a := *account
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	if err := s.putAccount(ctx, &a); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

func (s *Store) putAccount(ctx context.Context, a *models.Account) error {
	sql := `UPSERT $rid SET
		account_id = $account_id, user_id = $user_id, name = $name, type = $type,
		balance = $balance, is_debt = $is_debt, currency = $currency,
		created_at = $created_at, updated_at = $updated_at`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID(tableAccounts, a.ID),
		"account_id": a.ID,
		"user_id":    a.UserID,
		"name":       a.Name,
		"type":       a.Type,
		"balance":    a.Balance,
		"is_debt":    a.IsDebt,
		"currency":   a.Currency,
		"created_at": a.CreatedAt,
		"updated_at": a.UpdatedAt,
	}
	_, err := surrealdb.Query[any](ctx, s.db, sql, vars)
	return err
}

// DeleteAccount removes the account and its value history.
func (s *Store) DeleteAccount(ctx context.Context, userID, id string) error {
	if _, err := s.GetAccount(ctx, userID, id); err != nil {
		return err
	}

	if _, err := surrealdb.Delete[models.Account](ctx, s.db, surrealmodels.NewRecordID(tableAccounts, id)); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	sql := "DELETE account_values WHERE account_id = $account_id"
	if _, err := surrealdb.Query[any](ctx, s.db, sql, map[string]any{"account_id": id}); err != nil {
		return fmt.Errorf("failed to delete account values: %w", err)
	}
	return nil
}

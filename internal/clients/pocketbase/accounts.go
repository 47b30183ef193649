package pocketbase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bobmcallan/argos/internal/models"
)

type accountRecord struct {
	ID       string  `json:"id,omitempty"`
	UserID   string  `json:"user_id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Balance  float64 `json:"balance"`
	IsDebt   bool    `json:"is_debt"`
	Currency string  `json:"currency"`
	Created  string  `json:"created,omitempty"`
	Updated  string  `json:"updated,omitempty"`
}

func (r accountRecord) toModel() *models.Account {
	a := &models.Account{
		ID:       r.ID,
		UserID:   r.UserID,
		Name:     r.Name,
		Type:     r.Type,
		Balance:  r.Balance,
		IsDebt:   r.IsDebt,
		Currency: r.Currency,
	}
	// Server timestamps are informational; unparsable values are left zero.
	a.CreatedAt, _ = parseDate(r.Created)
	a.UpdatedAt, _ = parseDate(r.Updated)
	return a
}

func fromAccount(a *models.Account) accountRecord {
	return accountRecord{
		UserID:   a.UserID,
		Name:     a.Name,
		Type:     a.Type,
		Balance:  a.Balance,
		IsDebt:   a.IsDebt,
		Currency: a.Currency,
	}
}

func (c *Client) accountPath(id string) string {
	return recordsPath(c.collection("accounts")) + "/" + url.PathEscape(id)
}

func (c *Client) ListAccounts(ctx context.Context, userID string) ([]*models.Account, error) {
	records, err := listAll[accountRecord](ctx, c, c.collection("accounts"), "user_id = "+quote(userID), "created")
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	accounts := make([]*models.Account, len(records))
	for i, r := range records {
		accounts[i] = r.toModel()
	}
	return accounts, nil
}

func (c *Client) GetAccount(ctx context.Context, userID, id string) (*models.Account, error) {
	var rec accountRecord
	if err := c.do(ctx, http.MethodGet, c.accountPath(id), nil, &rec); err != nil {
		if isNotFound(err) {
			return nil, notFound("account", id)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if rec.UserID != userID {
		return nil, notFound("account", id)
	}
	return rec.toModel(), nil
}

// CreateAccount lets the server assign the record id.
func (c *Client) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	var rec accountRecord
	if err := c.do(ctx, http.MethodPost, recordsPath(c.collection("accounts")), fromAccount(account), &rec); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return rec.toModel(), nil
}

func (c *Client) UpdateAccount(ctx context.Context, account *models.Account) error {
	if _, err := c.GetAccount(ctx, account.UserID, account.ID); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPatch, c.accountPath(account.ID), fromAccount(account), nil); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// DeleteAccount removes the account record. Value rows are removed by the
// collection's cascade-delete relation.
func (c *Client) DeleteAccount(ctx context.Context, userID, id string) error {
	if _, err := c.GetAccount(ctx, userID, id); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodDelete, c.accountPath(id), nil, nil); err != nil {
		if isNotFound(err) {
			return notFound("account", id)
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

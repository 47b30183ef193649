package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Sentinel errors returned by providers and services.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidAccount = errors.New("invalid account")
)

// Asset account types
const (
	AccountChecking   = "Checking"
	AccountSavings    = "Savings"
	AccountBrokerage  = "Brokerage"
	AccountRetirement = "Retirement"
	Account401K       = "401K"
	AccountCar        = "Car"
	AccountRealEstate = "Real Estate"
)

// Debt account types
const (
	AccountCreditCard = "Credit Card"
	AccountLoan       = "Loan"
	AccountMortgage   = "Mortgage"
)

// AssetTypes lists the account types that count towards assets.
var AssetTypes = []string{
	AccountChecking, AccountSavings, AccountBrokerage, AccountRetirement,
	Account401K, AccountCar, AccountRealEstate,
}

// DebtTypes lists the account types that count towards liabilities.
var DebtTypes = []string{AccountCreditCard, AccountLoan, AccountMortgage}

// SupportedCurrencies lists the currency codes an account may be held in.
var SupportedCurrencies = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD"}

// Account is a user-registered asset or debt.
type Account struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Balance   float64   `json:"balance"`
	IsDebt    bool      `json:"is_debt"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountValue is an hourly balance snapshot for one account.
type AccountValue struct {
	AccountID string    `json:"account_id"`
	UserID    string    `json:"user_id"`
	HourStart time.Time `json:"hour_start"`
	Value     float64   `json:"value"`
}

// AccountPerformance is the period-over-period change for one account.
type AccountPerformance struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	StartValue    float64 `json:"start_value"`
	EndValue      float64 `json:"end_value"`
	AmountChange  float64 `json:"amount_change"`
	PercentChange float64 `json:"percent_change"`
	IsDebt        bool    `json:"is_debt"`
}

// IsDebtType reports whether t is one of the debt account types.
func IsDebtType(t string) bool {
	for _, d := range DebtTypes {
		if d == t {
			return true
		}
	}
	return false
}

func isKnownType(t string) bool {
	if IsDebtType(t) {
		return true
	}
	for _, a := range AssetTypes {
		if a == t {
			return true
		}
	}
	return false
}

// ValidateAccount normalizes and checks an account before it is stored.
// Debt balances are stored as negative amounts.
func ValidateAccount(a *Account) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidAccount)
	}
	if len(a.Name) > 100 {
		return fmt.Errorf("%w: name must be at most 100 characters", ErrInvalidAccount)
	}
	if !isKnownType(a.Type) {
		return fmt.Errorf("%w: unknown account type %q", ErrInvalidAccount, a.Type)
	}
	if math.IsNaN(a.Balance) || math.IsInf(a.Balance, 0) {
		return fmt.Errorf("%w: balance must be a finite number", ErrInvalidAccount)
	}

	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))
	if a.Currency == "" {
		a.Currency = "USD"
	}
	supported := false
	for _, c := range SupportedCurrencies {
		if c == a.Currency {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: unsupported currency %q", ErrInvalidAccount, a.Currency)
	}

	if IsDebtType(a.Type) {
		a.IsDebt = true
	}
	if a.IsDebt && a.Balance > 0 {
		a.Balance = -a.Balance
	}
	return nil
}

// HourStart truncates t to the start of its UTC hour.
func HourStart(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}

package demo

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/argos/internal/models"
)

// historyDays is how far back generated history reaches.
const historyDays = 365

type accountSeed struct {
	id, name, typ string
	min, max      float64
	debt          bool
}

var seedAccounts = []accountSeed{
	{"mock-checking", "Primary Checking", models.AccountChecking, 1500, 5000, false},
	{"mock-savings", "High-Yield Savings", models.AccountSavings, 10000, 25000, false},
	{"mock-brokerage", "Fidelity Investments", models.AccountBrokerage, 50000, 150000, false},
	{"mock-creditcard1", "Chase Sapphire Card", models.AccountCreditCard, 2000, 5000, true},
	{"mock-mortgage", "Home Mortgage", models.AccountMortgage, 250000, 450000, true},
}

// cents rounds v to two decimal places.
func cents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func randomAmount(rng *rand.Rand, min, max float64) float64 {
	return cents(rng.Float64()*(max-min) + min)
}

// Generate builds a store holding the demo accounts for userID with a year of
// daily history ending at now. The same seed and now always give the same data.
func Generate(userID string, seed uint64, now time.Time) *Store {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	s := NewStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	end := models.HourStart(now)
	start := end.AddDate(0, 0, -historyDays)
	totals := make([]decimal.Decimal, historyDays+1)

	for _, seedAcct := range seedAccounts {
		balance := randomAmount(rng, seedAcct.min, seedAcct.max)
		if seedAcct.debt {
			balance = -balance
		}
		a := &models.Account{
			ID:        seedAcct.id,
			UserID:    userID,
			Name:      seedAcct.name,
			Type:      seedAcct.typ,
			Balance:   balance,
			IsDebt:    seedAcct.debt,
			Currency:  "USD",
			CreatedAt: start,
		}
		// Errors are impossible on a fresh store with unique ids.
		_, _ = s.CreateAccount(ctx, a)

		for day := 0; day <= historyDays; day++ {
			value := accountValueOn(rng, balance, seedAcct.debt, day)
			_ = s.RecordAccountValue(ctx, models.AccountValue{
				AccountID: a.ID,
				UserID:    userID,
				HourStart: start.AddDate(0, 0, day),
				Value:     value,
			})
			totals[day] = totals[day].Add(decimal.NewFromFloat(value))
		}
	}

	for day, total := range totals {
		_ = s.RecordNetWorth(ctx, userID, total.Round(2).InexactFloat64(), start.AddDate(0, 0, day))
	}

	s.now = time.Now
	return s
}

// accountValueOn follows a trend towards balance with about 1% daily noise.
// Assets grow 30% over the year; debts are paid down by 15%. The final day is
// exactly balance.
func accountValueOn(rng *rand.Rand, balance float64, debt bool, day int) float64 {
	if day == historyDays {
		return balance
	}
	progress := float64(day) / historyDays
	factor := 0.7 + 0.3*progress
	if debt {
		factor = 1.15 - 0.15*progress
	}
	noise := rng.Float64()*0.02 - 0.01
	return cents(balance * (factor + noise))
}

// Package calculator holds the pure balance arithmetic of the ledger.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/veresiye/internal/models"
)

// Delta returns the signed balance change caused by a movement of the given kind.
// Debts increase the balance, payments decrease it.
func Delta(kind models.MovementKind, amount decimal.Decimal) (decimal.Decimal, error) {
	switch kind {
	case models.KindDebt:
		return amount, nil
	case models.KindPayment:
		return amount.Neg(), nil
	}
	return decimal.Zero, fmt.Errorf("unknown movement kind %q", kind)
}

// Inverse returns the balance change that undoes a movement.
func Inverse(m models.Movement) (decimal.Decimal, error) {
	d, err := Delta(m.Kind, m.Amount)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Neg(), nil
}

// Replay recomputes a balance from its opening value and movement history:
// opening + Σdebt − Σpayment.
func Replay(opening decimal.Decimal, movements []models.Movement) (decimal.Decimal, error) {
	balance := opening
	for _, m := range movements {
		d, err := Delta(m.Kind, m.Amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("movement %s: %w", m.ID, err)
		}
		balance = balance.Add(d)
	}
	return balance, nil
}

// Summarize aggregates the balances of customers that owe money.
// Customers with zero or negative balance are ignored; with no debtors
// both total and average are zero.
func Summarize(customers []models.Customer) models.Summary {
	var s models.Summary
	for i := range customers {
		if !customers[i].Owes() {
			continue
		}
		s.TotalOwing = s.TotalOwing.Add(customers[i].Balance)
		s.DebtorCount++
	}
	if s.DebtorCount > 0 {
		s.AverageOwing = s.TotalOwing.Div(decimal.NewFromInt(int64(s.DebtorCount)))
	}
	return s
}

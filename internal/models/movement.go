package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind is the direction of a movement.
type MovementKind string

const (
	// KindPayment reduces the customer's balance.
	KindPayment MovementKind = "payment"
	// KindDebt increases the customer's balance.
	KindDebt MovementKind = "debt"
)

// ParseMovementKind validates a kind coming from outside the process.
func ParseMovementKind(s string) (MovementKind, error) {
	switch MovementKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPayment:
		return KindPayment, nil
	case KindDebt:
		return KindDebt, nil
	}
	return "", &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown movement kind %q", s)}
}

// Movement is a single payment or debt entry against a customer.
type Movement struct {
	// ID is the unique identifier for the movement (UUID format).
	ID string

	// CustomerID references the customer. It never owns the customer.
	CustomerID int64

	// Amount is always strictly positive; the direction is carried by Kind.
	Amount decimal.Decimal

	Kind MovementKind

	// Note is an optional description.
	Note string

	// OccurredAt is set when the movement is recorded.
	OccurredAt time.Time
}

// MoneyScale is the number of decimal places money values may carry.
const MoneyScale = 2

// ParseAmount parses a user-supplied amount and requires it to be strictly positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: fmt.Sprintf("malformed number %q", s)}
	}
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// ValidateAmount rejects zero, negative and sub-cent amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	return checkScale("amount", amount)
}

// checkScale rejects values that would be silently rounded when shown with
// MoneyScale places.
func checkScale(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(MoneyScale)) {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("at most %d decimal places allowed", MoneyScale)}
	}
	return nil
}

// ParseBalance parses a signed balance. Empty input is zero.
func ParseBalance(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	b, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "balance", Reason: fmt.Sprintf("malformed number %q", s)}
	}
	if err := checkScale("balance", b); err != nil {
		return decimal.Zero, err
	}
	return b, nil
}

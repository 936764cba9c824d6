package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a person buying on credit.
type Customer struct {
	// ID is assigned by the store and grows monotonically.
	ID int64

	// Name is required and stored trimmed.
	Name string

	Surname string
	Phone   string
	Address string

	// Balance is what the customer currently owes.
	// Positive means the customer owes money; zero or negative means settled or in credit.
	Balance decimal.Decimal

	// OpeningBalance is the balance the customer was created with. It never changes
	// and is the starting point when the balance is audited against movement history.
	OpeningBalance decimal.Decimal

	// CreatedAt is set once when the customer is created.
	CreatedAt time.Time
}

// Owes reports whether the customer has an outstanding debt.
func (c *Customer) Owes() bool {
	return c.Balance.IsPositive()
}

// FullName joins name and surname for display.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.Name + " " + c.Surname)
}

// Validate normalizes the free-text fields and checks the required ones.
func (c *Customer) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Surname = strings.TrimSpace(c.Surname)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	if c.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

// CustomerFilter restricts customer listings by balance state.
type CustomerFilter string

const (
	FilterAll     CustomerFilter = "all"
	FilterOwing   CustomerFilter = "owing"
	FilterSettled CustomerFilter = "settled"
)

// ParseCustomerFilter maps user input to a filter. Empty input means FilterAll.
func ParseCustomerFilter(s string) (CustomerFilter, error) {
	switch CustomerFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterOwing:
		return FilterOwing, nil
	case FilterSettled:
		return FilterSettled, nil
	}
	return "", &ValidationError{Field: "filter", Reason: fmt.Sprintf("unknown filter %q", s)}
}

// Match reports whether the customer passes the filter.
func (f CustomerFilter) Match(c *Customer) bool {
	switch f {
	case FilterOwing:
		return c.Owes()
	case FilterSettled:
		return !c.Owes()
	default:
		return true
	}
}

// Summary is the aggregate view over owing customers.
type Summary struct {
	// TotalOwing is the sum of positive balances, zero when nobody owes.
	TotalOwing decimal.Decimal
	// AverageOwing is the mean of positive balances, zero when nobody owes.
	AverageOwing decimal.Decimal
	// DebtorCount is the number of customers with a positive balance.
	DebtorCount int
}

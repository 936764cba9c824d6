package service

import (
	"time"

	"github.com/mmynk/veresiye/internal/models"
)

// Amounts and balances travel as decimal strings so no precision is lost in JSON.

type Customer struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Surname        string    `json:"surname,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	Balance        string    `json:"balance"`
	OpeningBalance string    `json:"opening_balance"`
	CreatedAt      time.Time `json:"created_at"`
}

type Movement struct {
	ID         string    `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Amount     string    `json:"amount"`
	Kind       string    `json:"kind"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type CreateCustomerRequest struct {
	Name           string `json:"name"`
	Surname        string `json:"surname,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	OpeningBalance string `json:"opening_balance,omitempty"`
}

type CustomerResponse struct {
	Customer Customer `json:"customer"`
}

type ListCustomersRequest struct {
	// Filter is one of all, owing, settled. Empty means all.
	Filter string `json:"filter,omitempty"`
}

type SearchCustomersRequest struct {
	Text   string `json:"text"`
	Filter string `json:"filter,omitempty"`
}

type ListCustomersResponse struct {
	Customers []Customer `json:"customers"`
}

type CustomerIDRequest struct {
	CustomerID int64 `json:"customer_id"`
}

type DeleteCustomerResponse struct{}

type ApplyTransactionRequest struct {
	CustomerID int64  `json:"customer_id"`
	Amount     string `json:"amount"`
	Kind       string `json:"kind"`
	Note       string `json:"note,omitempty"`
}

type ApplyTransactionResponse struct {
	Movement Movement `json:"movement"`
	Balance  string   `json:"balance"`
}

type ReverseMovementRequest struct {
	MovementID string `json:"movement_id"`
}

type ListMovementsRequest struct {
	CustomerID int64 `json:"customer_id"`
	// Days limits the result to the last N days. Zero returns everything.
	Days int `json:"days,omitempty"`
}

type ListMovementsResponse struct {
	Movements []Movement `json:"movements"`
}

type AuditCustomerResponse struct {
	CustomerID int64  `json:"customer_id"`
	Balance    string `json:"balance"`
	Expected   string `json:"expected"`
	Drift      string `json:"drift"`
	Movements  int    `json:"movements"`
	Consistent bool   `json:"consistent"`
}

type GetSummaryRequest struct{}

type GetSummaryResponse struct {
	TotalOwing   string `json:"total_owing"`
	AverageOwing string `json:"average_owing"`
	DebtorCount  int    `json:"debtor_count"`
}

type GetSettingRequest struct {
	Key string `json:"key"`
}

type SetSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Set   bool   `json:"set"`
}

type BackupRequest struct {
	// Dir defaults to the automatic backup directory.
	Dir    string `json:"dir,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	// Format is csv or xlsx. Empty means csv.
	Format string `json:"format,omitempty"`
}

type BackupResponse struct {
	Path string `json:"path"`
}

type PruneRequest struct {
	Dir string `json:"dir,omitempty"`
	// MaxAgeDays defaults to the configured retention when omitted.
	MaxAgeDays *int `json:"max_age_days,omitempty"`
}

type PruneResponse struct {
	Deleted int `json:"deleted"`
}

type TickRequest struct{}

type TickResponse struct {
	Due     bool   `json:"due"`
	Skipped bool   `json:"skipped"`
	Path    string `json:"path,omitempty"`
}

type UnlockRequest struct {
	PIN string `json:"pin"`
}

type UnlockResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SetPINRequest struct {
	CurrentPIN string `json:"current_pin,omitempty"`
	// NewPIN clears the lock when empty.
	NewPIN string `json:"new_pin"`
}

type SetPINResponse struct {
	Enabled bool `json:"enabled"`
}

func toCustomer(c *models.Customer) Customer {
	return Customer{
		ID:             c.ID,
		Name:           c.Name,
		Surname:        c.Surname,
		Phone:          c.Phone,
		Address:        c.Address,
		Balance:        c.Balance.StringFixed(2),
		OpeningBalance: c.OpeningBalance.StringFixed(2),
		CreatedAt:      c.CreatedAt,
	}
}

func toCustomers(cs []models.Customer) []Customer {
	out := make([]Customer, 0, len(cs))
	for i := range cs {
		out = append(out, toCustomer(&cs[i]))
	}
	return out
}

func toMovement(m *models.Movement) Movement {
	return Movement{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Amount:     m.Amount.StringFixed(2),
		Kind:       string(m.Kind),
		Note:       m.Note,
		OccurredAt: m.OccurredAt,
	}
}

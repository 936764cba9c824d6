// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/veresiye/internal/models"
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends without changing the
// ledger engine or the service layer.
type Store interface {
	CustomerStore
	SettingStore

	// ListMovements returns a customer's movements, newest first.
	// When since is non-nil only movements at or after it are returned.
	ListMovements(ctx context.Context, customerID int64, since *time.Time) ([]models.Movement, error)

	// WithTx runs fn inside one write transaction. The transaction commits
	// only if fn returns nil; any error or panic rolls it back.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}

// CustomerStore covers customer CRUD and reads.
type CustomerStore interface {
	// CreateCustomer persists a new customer. ID and CreatedAt are populated
	// by the store and Balance starts at OpeningBalance.
	CreateCustomer(ctx context.Context, customer *models.Customer) error

	// GetCustomer returns a *models.NotFoundError when the customer does not exist.
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)

	// ListCustomers returns customers in insertion order.
	ListCustomers(ctx context.Context, filter models.CustomerFilter) ([]models.Customer, error)

	// SearchCustomers matches text case-insensitively against name, surname and phone.
	SearchCustomers(ctx context.Context, text string, filter models.CustomerFilter) ([]models.Customer, error)

	// DeleteCustomer removes the customer and all its movements.
	// Deleting a customer that does not exist succeeds silently.
	DeleteCustomer(ctx context.Context, id int64) error

	// Summary aggregates the balances of owing customers.
	Summary(ctx context.Context) (models.Summary, error)
}

// SettingStore is the key/value settings table.
type SettingStore interface {
	// GetSetting returns ok=false when the key was never set.
	GetSetting(ctx context.Context, key string) (value string, ok bool, err error)

	// SetSetting inserts or overwrites a setting.
	SetSetting(ctx context.Context, key, value string) error
}

// Tx is the set of operations available inside WithTx.
type Tx interface {
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)

	// AdjustBalance adds delta to the customer's balance and returns the new balance.
	AdjustBalance(ctx context.Context, customerID int64, delta decimal.Decimal) (decimal.Decimal, error)

	// InsertMovement persists a movement. ID and OccurredAt are populated when empty.
	InsertMovement(ctx context.Context, movement *models.Movement) error

	GetMovement(ctx context.Context, id string) (*models.Movement, error)
	DeleteMovement(ctx context.Context, id string) error

	// ListAllMovements returns every movement of a customer, oldest first.
	ListAllMovements(ctx context.Context, customerID int64) ([]models.Movement, error)
}

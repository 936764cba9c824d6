// Package ledger is the transaction engine: the only writer of customer balances.
//
// Every balance change is paired with the movement that explains it and both
// are written inside one storage transaction, so a failure between the two
// cannot leave a balance without its movement or the other way round.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/veresiye/internal/calculator"
	"github.com/mmynk/veresiye/internal/metrics"
	"github.com/mmynk/veresiye/internal/models"
	"github.com/mmynk/veresiye/internal/storage"
)

// Engine applies and reverses movements against a store.
type Engine struct {
	store   storage.Store
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used to stamp movements.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMetrics records applied and reversed movements.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an Engine on top of store.
func NewEngine(store storage.Store, opts ...Option) *Engine {
	e := &Engine{store: store, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyTransaction records a payment or debt and moves the customer's balance
// by the same amount. Validation and lookup failures leave the store untouched.
func (e *Engine) ApplyTransaction(ctx context.Context, customerID int64, amount decimal.Decimal, kind models.MovementKind, note string) (*models.Movement, error) {
	if err := models.ValidateAmount(amount); err != nil {
		return nil, err
	}
	delta, err := calculator.Delta(kind, amount)
	if err != nil {
		return nil, &models.ValidationError{Field: "kind", Reason: err.Error()}
	}

	movement := &models.Movement{
		CustomerID: customerID,
		Amount:     amount,
		Kind:       kind,
		Note:       note,
		OccurredAt: e.now(),
	}

	var balance decimal.Decimal
	err = e.store.WithTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetCustomer(ctx, customerID); err != nil {
			return err
		}
		if balance, err = tx.AdjustBalance(ctx, customerID, delta); err != nil {
			return err
		}
		return tx.InsertMovement(ctx, movement)
	})
	if err != nil {
		slog.Warn("ApplyTransaction failed", "customer_id", customerID, "kind", kind, "error", err)
		return nil, err
	}

	e.metrics.MovementApplied(string(kind))
	slog.Info("Movement applied",
		"movement_id", movement.ID,
		"customer_id", customerID,
		"kind", kind,
		"amount", amount.String(),
		"balance", balance.String(),
	)
	return movement, nil
}

// ReverseMovement undoes a movement: the inverse delta is applied to the
// balance and the movement is deleted, atomically. It returns the customer
// as it is after the reversal.
func (e *Engine) ReverseMovement(ctx context.Context, movementID string) (*models.Customer, error) {
	var customer *models.Customer
	err := e.store.WithTx(ctx, func(tx storage.Tx) error {
		movement, err := tx.GetMovement(ctx, movementID)
		if err != nil {
			return err
		}
		delta, err := calculator.Inverse(*movement)
		if err != nil {
			return &models.ValidationError{Field: "kind", Reason: err.Error()}
		}
		if _, err := tx.AdjustBalance(ctx, movement.CustomerID, delta); err != nil {
			return err
		}
		if err := tx.DeleteMovement(ctx, movementID); err != nil {
			return err
		}
		customer, err = tx.GetCustomer(ctx, movement.CustomerID)
		return err
	})
	if err != nil {
		slog.Warn("ReverseMovement failed", "movement_id", movementID, "error", err)
		return nil, err
	}

	e.metrics.MovementReversed()
	slog.Info("Movement reversed",
		"movement_id", movementID,
		"customer_id", customer.ID,
		"balance", customer.Balance.String(),
	)
	return customer, nil
}

// AuditResult compares the stored balance with the one implied by history.
type AuditResult struct {
	CustomerID int64
	Balance    decimal.Decimal
	Expected   decimal.Decimal
	// Drift is Balance - Expected; zero for a consistent ledger.
	Drift     decimal.Decimal
	Movements int
}

// Consistent reports whether the stored balance matches its history.
func (r AuditResult) Consistent() bool {
	return r.Drift.IsZero()
}

// Audit recomputes opening balance + debts - payments for one customer and
// reports any drift from the stored running balance. It never writes.
func (e *Engine) Audit(ctx context.Context, customerID int64) (AuditResult, error) {
	var result AuditResult
	err := e.store.WithTx(ctx, func(tx storage.Tx) error {
		customer, err := tx.GetCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		movements, err := tx.ListAllMovements(ctx, customerID)
		if err != nil {
			return err
		}
		expected, err := calculator.Replay(customer.OpeningBalance, movements)
		if err != nil {
			return err
		}
		result = AuditResult{
			CustomerID: customerID,
			Balance:    customer.Balance,
			Expected:   expected,
			Drift:      customer.Balance.Sub(expected),
			Movements:  len(movements),
		}
		return nil
	})
	if err != nil {
		return AuditResult{}, err
	}

	if !result.Consistent() {
		slog.Warn("Balance drift detected",
			"customer_id", customerID,
			"balance", result.Balance.String(),
			"expected", result.Expected.String(),
		)
	}
	return result, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mmynk/veresiye/internal/models"
	"github.com/mmynk/veresiye/internal/storage"
)

var _ storage.Tx = (*sqliteTx)(nil)

// sqliteTx binds the ledger write operations to one *sql.Tx.
type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return getCustomer(ctx, t.tx, id)
}

func (t *sqliteTx) AdjustBalance(ctx context.Context, customerID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	customer, err := getCustomer(ctx, t.tx, customerID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := customer.Balance.Add(delta)
	res, err := t.tx.ExecContext(ctx, "UPDATE customers SET balance = ? WHERE id = ?", balance.String(), customerID)
	if err != nil {
		return decimal.Zero, storageErr("update balance", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return decimal.Zero, storageErr("update balance", err)
	} else if n == 0 {
		return decimal.Zero, &models.NotFoundError{Entity: "customer", ID: strconv.FormatInt(customerID, 10)}
	}
	return balance, nil
}

func (t *sqliteTx) InsertMovement(ctx context.Context, movement *models.Movement) error {
	return insertMovement(ctx, t.tx, movement)
}

func (t *sqliteTx) GetMovement(ctx context.Context, id string) (*models.Movement, error) {
	return getMovement(ctx, t.tx, id)
}

func (t *sqliteTx) DeleteMovement(ctx context.Context, id string) error {
	return deleteMovement(ctx, t.tx, id)
}

func (t *sqliteTx) ListAllMovements(ctx context.Context, customerID int64) ([]models.Movement, error) {
	return queryMovements(ctx, t.tx,
		"SELECT "+movementColumns+" FROM movements WHERE customer_id = ? ORDER BY occurred_at, rowid",
		customerID,
	)
}

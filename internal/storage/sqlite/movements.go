package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/veresiye/internal/models"
)

const movementColumns = "id, customer_id, amount, kind, note, occurred_at"

// ListMovements retrieves a customer's movements, newest first.
func (s *SQLiteStore) ListMovements(ctx context.Context, customerID int64, since *time.Time) ([]models.Movement, error) {
	query := "SELECT " + movementColumns + " FROM movements WHERE customer_id = ?"
	args := []any{customerID}
	if since != nil {
		query += " AND occurred_at >= ?"
		args = append(args, since.Unix())
	}
	query += " ORDER BY occurred_at DESC, rowid DESC"

	return queryMovements(ctx, s.db, query, args...)
}

func insertMovement(ctx context.Context, q querier, movement *models.Movement) error {
	// Generate ID if not set
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.OccurredAt.IsZero() {
		movement.OccurredAt = time.Now()
	}

	var note any
	if movement.Note != "" {
		note = movement.Note
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO movements (id, customer_id, amount, kind, note, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		movement.ID, movement.CustomerID, movement.Amount.String(), string(movement.Kind),
		note, movement.OccurredAt.Unix(),
	)
	if err != nil {
		return storageErr("insert movement", err)
	}
	return nil
}

func getMovement(ctx context.Context, q querier, id string) (*models.Movement, error) {
	row := q.QueryRowContext(ctx, "SELECT "+movementColumns+" FROM movements WHERE id = ?", id)
	movement, err := scanMovement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "movement", ID: id}
	}
	if err != nil {
		return nil, storageErr("get movement", err)
	}
	return movement, nil
}

func deleteMovement(ctx context.Context, q querier, id string) error {
	res, err := q.ExecContext(ctx, "DELETE FROM movements WHERE id = ?", id)
	if err != nil {
		return storageErr("delete movement", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete movement", err)
	}
	if n == 0 {
		return &models.NotFoundError{Entity: "movement", ID: id}
	}
	return nil
}

func queryMovements(ctx context.Context, q querier, query string, args ...any) ([]models.Movement, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list movements", err)
	}
	defer rows.Close()

	var movements []models.Movement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, storageErr("scan movement", err)
		}
		movements = append(movements, *movement)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate movements", err)
	}
	return movements, nil
}

func scanMovement(row scanner) (*models.Movement, error) {
	movement := &models.Movement{}
	var (
		kind       string
		note       sql.NullString
		occurredAt int64
	)
	if err := row.Scan(&movement.ID, &movement.CustomerID, &movement.Amount, &kind, &note, &occurredAt); err != nil {
		return nil, err
	}
	movement.Kind = models.MovementKind(kind)
	if note.Valid {
		movement.Note = note.String
	}
	movement.OccurredAt = time.Unix(occurredAt, 0)
	return movement, nil
}

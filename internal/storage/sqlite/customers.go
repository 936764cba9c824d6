package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mmynk/veresiye/internal/calculator"
	"github.com/mmynk/veresiye/internal/models"
)

const customerColumns = "id, name, surname, phone, address, balance, opening_balance, created_at"

// CreateCustomer persists a new customer to the database.
func (s *SQLiteStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now()
	}
	customer.Balance = customer.OpeningBalance

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (name, surname, phone, address, balance, opening_balance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		customer.Name, customer.Surname, customer.Phone, customer.Address,
		customer.Balance.String(), customer.OpeningBalance.String(), customer.CreatedAt.Unix(),
	)
	if err != nil {
		return storageErr("insert customer", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("read customer id", err)
	}
	customer.ID = id

	return nil
}

// GetCustomer retrieves a customer by ID.
func (s *SQLiteStore) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return getCustomer(ctx, s.db, id)
}

// ListCustomers retrieves all customers matching the filter, in insertion order.
func (s *SQLiteStore) ListCustomers(ctx context.Context, filter models.CustomerFilter) ([]models.Customer, error) {
	all, err := listCustomers(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return applyFilter(all, filter), nil
}

// SearchCustomers retrieves customers whose name, surname or phone contains text.
// Matching is case-insensitive under Turkish rules and treats dotted and dotless
// i as the same letter: "ÇELİK" finds "çelik" and "ışık" finds "IŞIK".
func (s *SQLiteStore) SearchCustomers(ctx context.Context, text string, filter models.CustomerFilter) ([]models.Customer, error) {
	all, err := listCustomers(ctx, s.db)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return applyFilter(all, filter), nil
	}

	needle := searchKey(text)

	var matched []models.Customer
	for _, c := range all {
		if !filter.Match(&c) {
			continue
		}
		if strings.Contains(searchKey(c.Name), needle) ||
			strings.Contains(searchKey(c.Surname), needle) ||
			strings.Contains(searchKey(c.Phone), needle) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// dottedI collapses the i variants left after lowering: dotless ı, and i
// followed by a combining dot above (İ lowered outside a Turkish locale).
var dottedI = strings.NewReplacer("ı", "i", "i\u0307", "i")

// searchKey lowers s with Turkish casing (I→ı, İ→i) and then merges the i variants.
func searchKey(s string) string {
	// A Caser keeps state and must not be shared between goroutines.
	return dottedI.Replace(cases.Lower(language.Turkish).String(s))
}

// DeleteCustomer removes a customer and its movement history.
func (s *SQLiteStore) DeleteCustomer(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM movements WHERE customer_id = ?", id); err != nil {
		return storageErr("delete movements", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id); err != nil {
		return storageErr("delete customer", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

// Summary aggregates balances over customers that owe money.
func (s *SQLiteStore) Summary(ctx context.Context) (models.Summary, error) {
	all, err := listCustomers(ctx, s.db)
	if err != nil {
		return models.Summary{}, err
	}
	return calculator.Summarize(all), nil
}

func getCustomer(ctx context.Context, q querier, id int64) (*models.Customer, error) {
	row := q.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM customers WHERE id = ?", id)
	customer, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "customer", ID: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return nil, storageErr("get customer", err)
	}
	return customer, nil
}

func listCustomers(ctx context.Context, q querier) ([]models.Customer, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+customerColumns+" FROM customers ORDER BY id")
	if err != nil {
		return nil, storageErr("list customers", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, storageErr("scan customer", err)
		}
		customers = append(customers, *customer)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate customers", err)
	}
	return customers, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row scanner) (*models.Customer, error) {
	customer := &models.Customer{}
	var createdAt int64
	if err := row.Scan(&customer.ID, &customer.Name, &customer.Surname, &customer.Phone,
		&customer.Address, &customer.Balance, &customer.OpeningBalance, &createdAt); err != nil {
		return nil, err
	}
	customer.CreatedAt = time.Unix(createdAt, 0)
	return customer, nil
}

func applyFilter(customers []models.Customer, filter models.CustomerFilter) []models.Customer {
	if filter == models.FilterAll || filter == "" {
		return customers
	}
	var out []models.Customer
	for _, c := range customers {
		if filter.Match(&c) {
			out = append(out, c)
		}
	}
	return out
}

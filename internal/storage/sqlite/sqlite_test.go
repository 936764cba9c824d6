package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/veresiye/internal/models"
	"github.com/mmynk/veresiye/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func createCustomer(t *testing.T, store *SQLiteStore, name string, opening string) *models.Customer {
	t.Helper()

	c := &models.Customer{Name: name, OpeningBalance: decimal.RequireFromString(opening)}
	require.NoError(t, store.CreateCustomer(context.Background(), c))
	return c
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateCustomer generates ID and timestamp", func(t *testing.T) {
		c := &models.Customer{
			Name:           "  Ali  ",
			Surname:        "Yılmaz",
			Phone:          "0555 111 22 33",
			OpeningBalance: decimal.NewFromInt(100),
		}
		require.NoError(t, store.CreateCustomer(ctx, c))

		assert.NotZero(t, c.ID)
		assert.False(t, c.CreatedAt.IsZero())
		assert.Equal(t, "Ali", c.Name)
		assert.True(t, c.Balance.Equal(decimal.NewFromInt(100)))
	})

	t.Run("CreateCustomer rejects blank name", func(t *testing.T) {
		err := store.CreateCustomer(ctx, &models.Customer{Name: "   "})
		require.Error(t, err)
		assert.True(t, models.IsValidation(err))
	})

	t.Run("IDs grow monotonically", func(t *testing.T) {
		a := createCustomer(t, store, "Ayşe", "0")
		b := createCustomer(t, store, "Mehmet", "0")
		assert.Greater(t, b.ID, a.ID)
	})

	t.Run("GetCustomer round-trips fields", func(t *testing.T) {
		original := &models.Customer{
			Name:           "Fatma",
			Surname:        "Demir",
			Phone:          "0532",
			Address:        "Çarşı Cad. 5",
			OpeningBalance: decimal.RequireFromString("12.34"),
		}
		require.NoError(t, store.CreateCustomer(ctx, original))

		got, err := store.GetCustomer(ctx, original.ID)
		require.NoError(t, err)
		assert.Equal(t, original.Name, got.Name)
		assert.Equal(t, original.Surname, got.Surname)
		assert.Equal(t, original.Phone, got.Phone)
		assert.Equal(t, original.Address, got.Address)
		assert.True(t, got.Balance.Equal(original.OpeningBalance))
		assert.True(t, got.OpeningBalance.Equal(original.OpeningBalance))
		assert.Equal(t, original.CreatedAt.Unix(), got.CreatedAt.Unix())
	})

	t.Run("GetCustomer returns NotFoundError", func(t *testing.T) {
		_, err := store.GetCustomer(ctx, 999999)
		require.Error(t, err)
		assert.True(t, models.IsNotFound(err))
	})
}

func TestListAndSearchCustomers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ali := createCustomer(t, store, "Ali", "80")
	veli := createCustomer(t, store, "Veli", "0")
	zeynep := createCustomer(t, store, "Zeynep", "-5")

	t.Run("all in insertion order", func(t *testing.T) {
		got, err := store.ListCustomers(ctx, models.FilterAll)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []int64{ali.ID, veli.ID, zeynep.ID}, []int64{got[0].ID, got[1].ID, got[2].ID})
	})

	t.Run("owing", func(t *testing.T) {
		got, err := store.ListCustomers(ctx, models.FilterOwing)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, ali.ID, got[0].ID)
	})

	t.Run("settled includes zero and credit", func(t *testing.T) {
		got, err := store.ListCustomers(ctx, models.FilterSettled)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, veli.ID, got[0].ID)
		assert.Equal(t, zeynep.ID, got[1].ID)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		got, err := store.SearchCustomers(ctx, "aLI", models.FilterAll)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, ali.ID, got[0].ID)

		got, err = store.SearchCustomers(ctx, "EL", models.FilterAll)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, veli.ID, got[0].ID)
	})

	t.Run("search follows Turkish casing", func(t *testing.T) {
		store := newTestStore(t)
		celik := &models.Customer{Name: "Ayşe", Surname: "çelik"}
		require.NoError(t, store.CreateCustomer(ctx, celik))
		isik := &models.Customer{Name: "IŞIK", Surname: "Demir"}
		require.NoError(t, store.CreateCustomer(ctx, isik))

		for query, want := range map[string]int64{
			"ÇELİK": celik.ID,
			"Çelik": celik.ID,
			"çeli":  celik.ID,
			"ışık":  isik.ID,
			"Işık":  isik.ID,
			"IŞIK":  isik.ID,
		} {
			got, err := store.SearchCustomers(ctx, query, models.FilterAll)
			require.NoError(t, err, query)
			require.Len(t, got, 1, query)
			assert.Equal(t, want, got[0].ID, query)
		}
	})

	t.Run("search intersects with filter", func(t *testing.T) {
		got, err := store.SearchCustomers(ctx, "e", models.FilterSettled)
		require.NoError(t, err)
		require.Len(t, got, 2)

		got, err = store.SearchCustomers(ctx, "e", models.FilterOwing)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestWithTx(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := createCustomer(t, store, "Ali", "100")

	t.Run("commit applies both writes", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx storage.Tx) error {
			if _, err := tx.AdjustBalance(ctx, c.ID, decimal.NewFromInt(50)); err != nil {
				return err
			}
			return tx.InsertMovement(ctx, &models.Movement{
				CustomerID: c.ID, Amount: decimal.NewFromInt(50), Kind: models.KindDebt,
			})
		})
		require.NoError(t, err)

		got, err := store.GetCustomer(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(decimal.NewFromInt(150)))

		movements, err := store.ListMovements(ctx, c.ID, nil)
		require.NoError(t, err)
		assert.Len(t, movements, 1)
	})

	t.Run("error rolls back balance change", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.WithTx(ctx, func(tx storage.Tx) error {
			if _, err := tx.AdjustBalance(ctx, c.ID, decimal.NewFromInt(1000)); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := store.GetCustomer(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(decimal.NewFromInt(150)))

		movements, err := store.ListMovements(ctx, c.ID, nil)
		require.NoError(t, err)
		assert.Len(t, movements, 1)
	})

	t.Run("panic rolls back", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = store.WithTx(ctx, func(tx storage.Tx) error {
				_, _ = tx.AdjustBalance(ctx, c.ID, decimal.NewFromInt(1))
				panic("boom")
			})
		})

		got, err := store.GetCustomer(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(decimal.NewFromInt(150)))
	})
}

func TestListMovements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := createCustomer(t, store, "Ali", "0")

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)
	insert := func(offset time.Duration, kind models.MovementKind) *models.Movement {
		m := &models.Movement{
			CustomerID: c.ID,
			Amount:     decimal.NewFromInt(10),
			Kind:       kind,
			OccurredAt: base.Add(offset),
		}
		require.NoError(t, store.WithTx(ctx, func(tx storage.Tx) error {
			return tx.InsertMovement(ctx, m)
		}))
		return m
	}

	oldest := insert(-72*time.Hour, models.KindDebt)
	middle := insert(-24*time.Hour, models.KindPayment)
	newest := insert(0, models.KindDebt)

	t.Run("sorted newest first", func(t *testing.T) {
		got, err := store.ListMovements(ctx, c.ID, nil)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, newest.ID, got[0].ID)
		assert.Equal(t, middle.ID, got[1].ID)
		assert.Equal(t, oldest.ID, got[2].ID)
	})

	t.Run("since is inclusive", func(t *testing.T) {
		since := base.Add(-24 * time.Hour)
		got, err := store.ListMovements(ctx, c.ID, &since)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, middle.ID, got[1].ID)
	})

	t.Run("note and kind round-trip", func(t *testing.T) {
		m := &models.Movement{CustomerID: c.ID, Amount: decimal.RequireFromString("7.25"), Kind: models.KindPayment, Note: "nakit"}
		require.NoError(t, store.WithTx(ctx, func(tx storage.Tx) error {
			return tx.InsertMovement(ctx, m)
		}))

		var got *models.Movement
		require.NoError(t, store.WithTx(ctx, func(tx storage.Tx) error {
			var err error
			got, err = tx.GetMovement(ctx, m.ID)
			return err
		}))
		assert.Equal(t, "nakit", got.Note)
		assert.Equal(t, models.KindPayment, got.Kind)
		assert.True(t, got.Amount.Equal(decimal.RequireFromString("7.25")))
	})
}

func TestDeleteCustomer(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := createCustomer(t, store, "Ali", "0")

	require.NoError(t, store.WithTx(ctx, func(tx storage.Tx) error {
		return tx.InsertMovement(ctx, &models.Movement{CustomerID: c.ID, Amount: decimal.NewFromInt(5), Kind: models.KindDebt})
	}))

	require.NoError(t, store.DeleteCustomer(ctx, c.ID))

	_, err := store.GetCustomer(ctx, c.ID)
	assert.True(t, models.IsNotFound(err))

	movements, err := store.ListMovements(ctx, c.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, movements)

	// Already gone: silent success.
	assert.NoError(t, store.DeleteCustomer(ctx, c.ID))
}

func TestSummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		s, err := store.Summary(ctx)
		require.NoError(t, err)
		assert.True(t, s.TotalOwing.IsZero())
		assert.True(t, s.AverageOwing.IsZero())
		assert.Equal(t, 0, s.DebtorCount)
	})

	t.Run("only positive balances count", func(t *testing.T) {
		createCustomer(t, store, "A", "80")
		createCustomer(t, store, "B", "20")
		createCustomer(t, store, "C", "-50")
		createCustomer(t, store, "D", "0")

		s, err := store.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, "100", s.TotalOwing.String())
		assert.Equal(t, "50", s.AverageOwing.String())
		assert.Equal(t, 2, s.DebtorCount)
	})
}

func TestSettings(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "settings.db")
	store, err := New(dbPath)
	require.NoError(t, err)
	ctx := context.Background()

	freq, ok, err := store.GetSetting(ctx, models.KeyAutoBackupFrequency)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, string(models.DefaultFrequency), freq)

	_, ok, err = store.GetSetting(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetSetting(ctx, models.KeyAutoBackupFrequency, "weekly"))
	require.NoError(t, store.SetSetting(ctx, models.KeyShopName, "Bakkal"))
	require.NoError(t, store.Close())

	// Reopening must not reset existing values to defaults.
	store, err = New(dbPath)
	require.NoError(t, err)
	defer store.Close()

	freq, _, err = store.GetSetting(ctx, models.KeyAutoBackupFrequency)
	require.NoError(t, err)
	assert.Equal(t, "weekly", freq)

	name, _, err := store.GetSetting(ctx, models.KeyShopName)
	require.NoError(t, err)
	assert.Equal(t, "Bakkal", name)
}

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/veresiye/internal/models"
	"github.com/mmynk/veresiye/internal/storage/sqlite"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("VERESIYE_DATA_DIR", dir)
	t.Setenv("VERESIYE_AUTH_JWT_SECRET", "test")

	store, err := sqlite.New(filepath.Join(dir, "veresiye.db"))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.CreateCustomer(ctx, &models.Customer{Name: "Ali", Surname: "Yılmaz", OpeningBalance: decimal.NewFromInt(80)}))
	require.NoError(t, store.CreateCustomer(ctx, &models.Customer{Name: "Ayşe", OpeningBalance: decimal.Zero}))
	require.NoError(t, store.Close())

	out := run(t, "summary")
	assert.Contains(t, out, "Total owed:       80.00")
	assert.Contains(t, out, "Debtors:          1")
	assert.Contains(t, out, "Last backup:      never")

	path := strings.TrimSpace(run(t, "backup", "--format", "xlsx"))
	assert.Equal(t, filepath.Join(dir, "backups"), filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "veresiye_yedek_"))
	_, err = os.Stat(path)
	require.NoError(t, err)

	out = run(t, "summary", "--list")
	assert.NotContains(t, out, "never")
	assert.Contains(t, out, "Ali Yılmaz")
	assert.NotContains(t, out, "Ayşe")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "backups", "auto_backup_01-01-2020_0000.csv"), nil, 0o644))
	out = run(t, "prune")
	assert.Equal(t, "1 old snapshot(s) deleted\n", out)
}

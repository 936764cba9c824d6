package models

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerValidate(t *testing.T) {
	c := &Customer{Name: "  Ali ", Surname: " Yılmaz", Phone: " 0555 "}
	require.NoError(t, c.Validate())
	assert.Equal(t, "Ali", c.Name)
	assert.Equal(t, "0555", c.Phone)
	assert.Equal(t, "Ali Yılmaz", c.FullName())

	err := (&Customer{Name: "   "}).Validate()
	assert.True(t, IsValidation(err))
}

func TestCustomerFilter(t *testing.T) {
	owing := &Customer{Balance: decimal.RequireFromString("0.01")}
	zero := &Customer{Balance: decimal.Zero}
	credit := &Customer{Balance: decimal.NewFromInt(-3)}

	assert.True(t, FilterOwing.Match(owing))
	assert.False(t, FilterOwing.Match(zero))
	assert.True(t, FilterSettled.Match(zero))
	assert.True(t, FilterSettled.Match(credit))
	assert.True(t, FilterAll.Match(credit))

	f, err := ParseCustomerFilter(" Owing ")
	require.NoError(t, err)
	assert.Equal(t, FilterOwing, f)

	_, err = ParseCustomerFilter("rich")
	assert.True(t, IsValidation(err))
}

func TestParseAmount(t *testing.T) {
	a, err := ParseAmount(" 12.50 ")
	require.NoError(t, err)
	assert.Equal(t, "12.5", a.String())

	a, err = ParseAmount("7.100")
	require.NoError(t, err)
	assert.Equal(t, "7.1", a.String())

	for _, bad := range []string{"", "abc", "12,50", "0", "-1", "0.001", "12.345"} {
		_, err := ParseAmount(bad)
		assert.True(t, IsValidation(err), bad)
	}

	b, err := ParseBalance("")
	require.NoError(t, err)
	assert.True(t, b.IsZero())
	b, err = ParseBalance("-7.25")
	require.NoError(t, err)
	assert.Equal(t, "-7.25", b.String())
	_, err = ParseBalance("-7.255")
	assert.True(t, IsValidation(err))
}

func TestParseFrequency(t *testing.T) {
	for in, want := range map[string]Frequency{
		"hourly":  FrequencyHourly,
		"DAILY":   FrequencyDaily,
		"weekly":  FrequencyWeekly,
		"monthly": FrequencyMonthly,
		"off":     FrequencyOff,
		"none":    FrequencyOff,
		"":        FrequencyOff,
	} {
		got, err := ParseFrequency(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFrequency("yearly")
	assert.True(t, IsValidation(err))
}

func TestErrors(t *testing.T) {
	cause := fmt.Errorf("disk full")
	wrapped := fmt.Errorf("export: %w", &BackupError{Path: "/tmp/x.csv", Err: cause})

	assert.True(t, IsBackup(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, "customer not found: 7", (&NotFoundError{Entity: "customer", ID: "7"}).Error())
	assert.ErrorIs(t, &StorageError{Op: "insert", Err: cause}, cause)
}

package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	ts := time.Date(2024, 1, 1, 9, 5, 59, 0, time.UTC)
	assert.Equal(t, "auto_backup_01-01-2024_0905.csv", FileName(AutoPrefix, FormatCSV, ts))
	assert.Equal(t, "veresiye_yedek_01-01-2024_0905.xlsx", FileName(ManualPrefix, FormatXLSX, ts))
}

func TestParseTimestamp(t *testing.T) {
	ts := time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC)

	for _, name := range []string{
		FileName(AutoPrefix, FormatCSV, ts),
		FileName("my_shop_backup", FormatXLSX, ts),
	} {
		got, err := ParseTimestamp(name, time.UTC)
		require.NoError(t, err, name)
		assert.True(t, ts.Equal(got), "%s: got %s", name, got)
	}

	for _, name := range []string{
		"auto_backup_01-01-2024_bad.csv",
		"auto_backup.csv",
		"auto_backup_32-13-2024_0900.csv",
		"notes.txt",
	} {
		_, err := ParseTimestamp(name, time.UTC)
		assert.Error(t, err, name)
	}
}

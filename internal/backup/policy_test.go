package backup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/veresiye/internal/models"
)

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func TestIsDue(t *testing.T) {
	ptr := func(t time.Time) *time.Time { return &t }
	now := at(2024, 3, 15, 12, 0)

	tests := []struct {
		name string
		freq models.Frequency
		last *time.Time
		now  time.Time
		want bool
	}{
		{"off never runs", models.FrequencyOff, nil, now, false},
		{"off ignores age", models.FrequencyOff, ptr(now.AddDate(-1, 0, 0)), now, false},
		{"never backed up", models.FrequencyHourly, nil, now, true},
		{"never backed up monthly", models.FrequencyMonthly, nil, now, true},

		{"hourly after 30 minutes", models.FrequencyHourly, ptr(now.Add(-30 * time.Minute)), now, false},
		{"hourly after exactly one hour", models.FrequencyHourly, ptr(now.Add(-time.Hour)), now, true},

		{"daily across midnight", models.FrequencyDaily, ptr(at(2024, 1, 1, 10, 0)), at(2024, 1, 2, 9, 59), true},
		{"daily same day", models.FrequencyDaily, ptr(at(2024, 1, 2, 0, 1)), at(2024, 1, 2, 23, 59), false},

		{"weekly after six days", models.FrequencyWeekly, ptr(at(2024, 1, 1, 8, 0)), at(2024, 1, 7, 23, 0), false},
		{"weekly after seven calendar days", models.FrequencyWeekly, ptr(at(2024, 1, 1, 23, 0)), at(2024, 1, 8, 1, 0), true},

		{"monthly across month end", models.FrequencyMonthly, ptr(at(2024, 1, 31, 12, 0)), at(2024, 2, 1, 12, 0), true},
		{"monthly same month", models.FrequencyMonthly, ptr(at(2024, 2, 1, 0, 0)), at(2024, 2, 29, 23, 0), false},
		{"monthly same month next year", models.FrequencyMonthly, ptr(at(2023, 2, 10, 0, 0)), at(2024, 2, 10, 0, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDue(tt.freq, tt.last, tt.now))
		})
	}
}

func TestCalendarDaysUsesNowLocation(t *testing.T) {
	istanbul := time.FixedZone("TRT", 3*60*60)

	// 22:30 UTC on Jan 1 is already Jan 2 in Istanbul.
	last := time.Date(2024, 1, 1, 22, 30, 0, 0, time.UTC)
	now := time.Date(2024, 1, 2, 9, 0, 0, 0, istanbul)

	assert.Equal(t, 0, calendarDays(last, now))
	assert.False(t, IsDue(models.FrequencyDaily, &last, now))
}

// Package backup decides when automatic snapshots are due and runs them.
package backup

import (
	"time"

	"github.com/mmynk/veresiye/internal/models"
)

// IsDue reports whether an automatic backup should run at now, given the
// configured frequency and the time of the last successful backup.
// A nil last means no backup has ever run.
func IsDue(freq models.Frequency, last *time.Time, now time.Time) bool {
	if freq == models.FrequencyOff {
		return false
	}
	if last == nil {
		return true
	}

	switch freq {
	case models.FrequencyHourly:
		return now.Sub(*last) >= time.Hour
	case models.FrequencyDaily:
		return calendarDays(*last, now) >= 1
	case models.FrequencyWeekly:
		return calendarDays(*last, now) >= 7
	case models.FrequencyMonthly:
		l := last.In(now.Location())
		return l.Year() != now.Year() || l.Month() != now.Month()
	}
	return false
}

// calendarDays counts midnights crossed between from and to, using the date
// components in to's location. Negative when from is after to.
func calendarDays(from, to time.Time) int {
	loc := to.Location()
	f := from.In(loc)
	a := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

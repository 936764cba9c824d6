package snapshot

import (
	"fmt"
	"regexp"
	"time"
)

const (
	// AutoPrefix names scheduled snapshots.
	AutoPrefix = "auto_backup"
	// ManualPrefix is used when a manual backup does not name its own prefix.
	ManualPrefix = "veresiye_yedek"

	stampLayout = "02-01-2006_1504"
)

var stampPattern = regexp.MustCompile(`_(\d{2}-\d{2}-\d{4}_\d{4})\.[A-Za-z0-9]+$`)

// FileName builds <prefix>_<DD-MM-YYYY_HHMM>.<ext>.
func FileName(prefix string, format Format, t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, t.Format(stampLayout), format)
}

// ParseTimestamp extracts the timestamp embedded by FileName, interpreted in loc.
func ParseTimestamp(name string, loc *time.Location) (time.Time, error) {
	m := stampPattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, fmt.Errorf("no timestamp in %q", name)
	}
	return time.ParseInLocation(stampLayout, m[1], loc)
}

package snapshot

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmynk/veresiye/internal/models"
)

// DefaultMaxAgeDays is the retention used when none is configured.
const DefaultMaxAgeDays = 30

// Prune deletes snapshot files in dir whose embedded timestamp is more than
// maxAgeDays whole days before now. Files whose name carries no parseable
// timestamp are never touched. It returns how many files were deleted.
func Prune(dir string, maxAgeDays int, now time.Time) (int, error) {
	if maxAgeDays < 0 {
		return 0, &models.ValidationError{Field: "max_age_days", Reason: "must not be negative"}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, &models.BackupError{Path: dir, Err: err}
	}

	var (
		deleted int
		errs    []error
	)
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !isSnapshotFile(entry.Name()) {
			continue
		}

		stamp, err := ParseTimestamp(entry.Name(), now.Location())
		if err != nil {
			slog.Debug("Skipping snapshot with unparseable name", "file", entry.Name())
			continue
		}

		ageDays := int(now.Sub(stamp).Hours() / 24)
		if ageDays <= maxAgeDays {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
			continue
		}
		deleted++
		slog.Info("Old snapshot deleted", "file", path, "age_days", ageDays)
	}

	if len(errs) > 0 {
		return deleted, &models.BackupError{Path: dir, Err: errors.Join(errs...)}
	}
	return deleted, nil
}

func isSnapshotFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == "."+string(FormatCSV) || ext == "."+string(FormatXLSX)
}

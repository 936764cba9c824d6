package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mmynk/veresiye/internal/models"
)

// maxSameMinute bounds how many snapshots with one prefix fit in a minute.
const maxSameMinute = 99

// Write exports customers into dir/<prefix>_<stamp>.<ext> and returns the
// absolute path written. An existing snapshot is never replaced: a second
// write in the same minute becomes <prefix>-2_<stamp>.<ext> and so on. The
// file is written under a temporary name and renamed into place, so a failed
// export never leaves a truncated snapshot. Every failure is reported as a
// *models.BackupError.
func Write(dir, prefix string, format Format, customers []models.Customer, now time.Time) (string, error) {
	if prefix == "" {
		prefix = ManualPrefix
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", &models.BackupError{Path: dir, Err: err}
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", &models.BackupError{Path: absDir, Err: err}
	}

	path, err := reserve(absDir, prefix, format, now)
	if err != nil {
		return "", &models.BackupError{Path: filepath.Join(absDir, FileName(prefix, format, now)), Err: err}
	}
	written := false
	defer func() {
		if !written {
			os.Remove(path)
		}
	}()

	tmp, err := os.CreateTemp(absDir, ".snapshot-*")
	if err != nil {
		return "", &models.BackupError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := Export(tmp, format, customers); err != nil {
		tmp.Close()
		return "", &models.BackupError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &models.BackupError{Path: path, Err: fmt.Errorf("close: %w", err)}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", &models.BackupError{Path: path, Err: err}
	}
	written = true

	return path, nil
}

// reserve claims the first free snapshot name by creating it empty. The
// caller renames the finished export over it.
func reserve(dir, prefix string, format Format, now time.Time) (string, error) {
	for n := 1; n <= maxSameMinute; n++ {
		p := prefix
		if n > 1 {
			p = fmt.Sprintf("%s-%d", prefix, n)
		}
		path := filepath.Join(dir, FileName(p, format, now))

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return path, f.Close()
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("%d snapshots named %s already exist for %s", maxSameMinute, prefix, now.Format(stampLayout))
}

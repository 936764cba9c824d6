package backup

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/veresiye/internal/metrics"
	"github.com/mmynk/veresiye/internal/models"
	"github.com/mmynk/veresiye/internal/snapshot"
	"github.com/mmynk/veresiye/internal/storage"
)

// LastBackupLayout is how last_backup_at is persisted. The offset pins the
// instant, so an hour repeated by a DST change is not ambiguous.
const LastBackupLayout = time.RFC3339

// legacyLastBackupLayout is the zoneless local form older databases hold.
const legacyLastBackupLayout = "2006-01-02 15:04:05"

// ErrInProgress is wrapped in the BackupError returned when a manual backup
// finds another export running.
var ErrInProgress = errors.New("another backup is in progress")

const (
	triggerAuto   = "auto"
	triggerManual = "manual"
)

// TickResult describes what a Tick did.
type TickResult struct {
	// Due is false when the policy said no backup was needed.
	Due bool
	// Skipped is true when a backup was due but another one was running.
	Skipped bool
	// Path is the snapshot written, empty unless one was.
	Path string
}

// ManualRequest is a user-initiated backup.
type ManualRequest struct {
	// Dir is the destination directory. Required.
	Dir string
	// Prefix defaults to snapshot.ManualPrefix.
	Prefix string
	// Format defaults to CSV.
	Format snapshot.Format
}

// Scheduler runs automatic and manual snapshots. It owns no goroutine or
// timer; the host calls Tick periodically.
type Scheduler struct {
	store      storage.Store
	backupDir  string
	retention  int
	now        func() time.Time
	metrics    *metrics.Metrics
	inProgress sync.Mutex
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the clock used for due checks and file names.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithMetrics records backup outcomes and pruned files.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithRetention sets the default age, in days, used by Prune.
func WithRetention(days int) Option {
	return func(s *Scheduler) { s.retention = days }
}

// NewScheduler creates a Scheduler writing automatic snapshots to backupDir.
func NewScheduler(store storage.Store, backupDir string, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:     store,
		backupDir: backupDir,
		retention: snapshot.DefaultMaxAgeDays,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BackupDir is where automatic snapshots are written.
func (s *Scheduler) BackupDir() string {
	return s.backupDir
}

// Tick runs an automatic backup if one is due. A failed backup returns a
// BackupError and leaves last_backup_at untouched, so the next Tick retries.
func (s *Scheduler) Tick(ctx context.Context) (TickResult, error) {
	now := s.now()

	freq, last, err := s.state(ctx, now.Location())
	if err != nil {
		return TickResult{}, err
	}
	if !IsDue(freq, last, now) {
		return TickResult{}, nil
	}

	if !s.inProgress.TryLock() {
		slog.Info("Automatic backup skipped, another backup is running")
		s.metrics.Backup(triggerAuto, "skipped", 0)
		return TickResult{Due: true, Skipped: true}, nil
	}
	defer s.inProgress.Unlock()

	path, err := s.run(ctx, triggerAuto, s.backupDir, snapshot.AutoPrefix, snapshot.FormatCSV, now)
	if err != nil {
		return TickResult{Due: true}, err
	}
	return TickResult{Due: true, Path: path}, nil
}

// Backup writes a snapshot to req.Dir and returns its absolute path.
// Like the automatic backup it advances last_backup_at on success.
func (s *Scheduler) Backup(ctx context.Context, req ManualRequest) (string, error) {
	if req.Dir == "" {
		return "", &models.ValidationError{Field: "dir", Reason: "destination directory is required"}
	}
	if req.Prefix == "" {
		req.Prefix = snapshot.ManualPrefix
	}
	if req.Format == "" {
		req.Format = snapshot.FormatCSV
	}

	if !s.inProgress.TryLock() {
		s.metrics.Backup(triggerManual, "skipped", 0)
		return "", &models.BackupError{Path: req.Dir, Err: ErrInProgress}
	}
	defer s.inProgress.Unlock()

	return s.run(ctx, triggerManual, req.Dir, req.Prefix, req.Format, s.now())
}

// Prune deletes snapshots in dir older than maxAgeDays. An empty dir means the
// automatic backup directory and a negative maxAgeDays means the configured retention.
func (s *Scheduler) Prune(ctx context.Context, dir string, maxAgeDays int) (int, error) {
	if dir == "" {
		dir = s.backupDir
	}
	if maxAgeDays < 0 {
		maxAgeDays = s.retention
	}

	deleted, err := snapshot.Prune(dir, maxAgeDays, s.now())
	s.metrics.Pruned(deleted)
	if err != nil {
		return deleted, err
	}
	slog.Info("Snapshots pruned", "dir", dir, "max_age_days", maxAgeDays, "deleted", deleted)
	return deleted, nil
}

// LastBackup returns the time of the last successful backup, nil if none.
func (s *Scheduler) LastBackup(ctx context.Context) (*time.Time, error) {
	_, last, err := s.state(ctx, s.now().Location())
	return last, err
}

func (s *Scheduler) run(ctx context.Context, trigger, dir, prefix string, format snapshot.Format, now time.Time) (string, error) {
	start := time.Now()

	path, err := s.export(ctx, dir, prefix, format, now)
	if err != nil {
		s.metrics.Backup(trigger, "error", time.Since(start))
		slog.Error("Backup failed", "trigger", trigger, "dir", dir, "error", err)
		return "", err
	}

	s.metrics.Backup(trigger, "ok", time.Since(start))
	slog.Info("Backup written", "trigger", trigger, "path", path)
	return path, nil
}

func (s *Scheduler) export(ctx context.Context, dir, prefix string, format snapshot.Format, now time.Time) (string, error) {
	customers, err := s.store.ListCustomers(ctx, models.FilterAll)
	if err != nil {
		return "", &models.BackupError{Path: dir, Err: err}
	}

	path, err := snapshot.Write(dir, prefix, format, customers, now)
	if err != nil {
		return "", err
	}

	if err := s.store.SetSetting(ctx, models.KeyLastBackupAt, now.Format(LastBackupLayout)); err != nil {
		return "", &models.BackupError{Path: path, Err: err}
	}
	return path, nil
}

// state reads the frequency and last backup time. Unknown frequencies fall
// back to the default and an unparseable timestamp counts as never.
func (s *Scheduler) state(ctx context.Context, loc *time.Location) (models.Frequency, *time.Time, error) {
	raw, ok, err := s.store.GetSetting(ctx, models.KeyAutoBackupFrequency)
	if err != nil {
		return "", nil, err
	}
	freq := models.DefaultFrequency
	if ok {
		if freq, err = models.ParseFrequency(raw); err != nil {
			slog.Warn("Unknown backup frequency, using default", "value", raw, "default", models.DefaultFrequency)
			freq = models.DefaultFrequency
		}
	}

	raw, ok, err = s.store.GetSetting(ctx, models.KeyLastBackupAt)
	if err != nil {
		return "", nil, err
	}
	if !ok || raw == "" {
		return freq, nil, nil
	}
	last, err := time.Parse(LastBackupLayout, raw)
	if err != nil {
		last, err = time.ParseInLocation(legacyLastBackupLayout, raw, loc)
	}
	if err != nil {
		slog.Warn("Unparseable last backup time, treating as never", "value", raw)
		return freq, nil, nil
	}
	return freq, &last, nil
}

package service

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/veresiye/internal/backup"
	"github.com/mmynk/veresiye/internal/models"
	"github.com/mmynk/veresiye/internal/snapshot"
)

// BackupService implements veresiye.v1.BackupService.
type BackupService struct {
	scheduler *backup.Scheduler
}

func NewBackupService(scheduler *backup.Scheduler) *BackupService {
	return &BackupService{scheduler: scheduler}
}

func (s *BackupService) Backup(ctx context.Context, req *connect.Request[BackupRequest]) (*connect.Response[BackupResponse], error) {
	slog.Info("Backup request received", "dir", req.Msg.Dir, "format", req.Msg.Format)

	format, err := snapshot.ParseFormat(req.Msg.Format)
	if err != nil {
		return nil, toConnectError(err)
	}
	dir, err := s.confine(req.Msg.Dir)
	if err != nil {
		return nil, toConnectError(err)
	}

	path, err := s.scheduler.Backup(ctx, backup.ManualRequest{Dir: dir, Prefix: req.Msg.Prefix, Format: format})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&BackupResponse{Path: path}), nil
}

func (s *BackupService) Prune(ctx context.Context, req *connect.Request[PruneRequest]) (*connect.Response[PruneResponse], error) {
	slog.Info("Prune request received", "dir", req.Msg.Dir)

	maxAge := -1
	if req.Msg.MaxAgeDays != nil {
		maxAge = *req.Msg.MaxAgeDays
		if maxAge < 0 {
			return nil, toConnectError(errNegativeAge)
		}
	}

	dir, err := s.confine(req.Msg.Dir)
	if err != nil {
		return nil, toConnectError(err)
	}

	deleted, err := s.scheduler.Prune(ctx, dir, maxAge)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PruneResponse{Deleted: deleted}), nil
}

func (s *BackupService) Tick(ctx context.Context, req *connect.Request[TickRequest]) (*connect.Response[TickResponse], error) {
	slog.Info("Tick request received")

	res, err := s.scheduler.Tick(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&TickResponse{Due: res.Due, Skipped: res.Skipped, Path: res.Path}), nil
}

// confine resolves a requested directory against the backup directory. Empty
// means the backup directory itself and relative paths are taken from it. The
// result, with symlinks resolved, must not leave the backup directory.
func (s *BackupService) confine(dir string) (string, error) {
	root, err := filepath.Abs(s.scheduler.BackupDir())
	if err != nil {
		return "", err
	}
	switch {
	case dir == "":
		return root, nil
	case !filepath.IsAbs(dir):
		dir = filepath.Join(root, dir)
	}
	dir = filepath.Clean(dir)

	realRoot, err := resolvePath(root)
	if err != nil {
		return "", err
	}
	realDir, err := resolvePath(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(realRoot, realDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &models.ValidationError{Field: "dir", Reason: "must be inside the backup directory"}
	}
	return dir, nil
}

// resolvePath evaluates symlinks in the longest existing prefix of path and
// appends the rest unchanged.
func resolvePath(path string) (string, error) {
	var rest []string
	for cur := path; ; cur = filepath.Dir(cur) {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return path, nil
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
	}
}

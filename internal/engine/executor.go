package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/vaeleborne/rcpy/internal/event"
	"github.com/vaeleborne/rcpy/internal/platform"
	"github.com/vaeleborne/rcpy/internal/stats"
)

const tmpSuffix = ".rcpy-tmp"

var errNotRegular = errors.New("not a regular file")

// ExecutorConfig controls how tasks are carried out.
type ExecutorConfig struct {
	DryRun  bool
	Limiter *rate.Limiter // nil means unlimited
	Events  chan<- event.Event
	Stats   stats.Recorder
}

// Executor performs (or, in dry-run, simulates) one CopyTask at a time.
// It is safe for concurrent use; every outcome is recorded in Stats.
type Executor struct {
	cfg ExecutorConfig
	tmp *tmpRegistry

	// dirHook runs before each directory is created. Tests use it to
	// slow directory creation down.
	dirHook func(CopyTask)
}

// NewExecutor creates an executor.
func NewExecutor(cfg ExecutorConfig) *Executor {
	return &Executor{cfg: cfg, tmp: newTmpRegistry()}
}

// Execute runs task and records its outcome. The returned error is the
// recorded failure, if any; callers never need to record it again.
func (x *Executor) Execute(ctx context.Context, task CopyTask, workerID int) error {
	x.cfg.Stats.AddTasksDispatched(1)
	switch task.Kind {
	case KindDir:
		return x.createDir(ctx, task, workerID)
	case KindFile:
		return x.copyFile(ctx, task, workerID)
	default:
		err := fmt.Errorf("unknown task kind %d", task.Kind)
		x.fail(ctx, task, stats.Copy, err, workerID)
		return err
	}
}

// Reject dispatches task as a failure without touching the filesystem.
func (x *Executor) Reject(ctx context.Context, task CopyTask, workerID int, err error) {
	x.cfg.Stats.AddTasksDispatched(1)
	x.fail(ctx, task, stats.Create, err, workerID)
}

// Cleanup removes temp files left behind by copies that never finished.
func (x *Executor) Cleanup() {
	if n := x.tmp.len(); n > 0 {
		slog.Debug("removing unfinished temp files", "count", n)
	}
	x.tmp.cleanup()
}

func (x *Executor) createDir(ctx context.Context, task CopyTask, workerID int) error {
	if x.dirHook != nil {
		x.dirHook(task)
	}
	if !x.cfg.DryRun {
		if err := os.MkdirAll(task.DstPath, 0o755); err != nil {
			x.fail(ctx, task, stats.Create, err, workerID)
			return err
		}
	}
	x.cfg.Stats.AddDirsCreated(1)
	x.emit(ctx, event.Event{
		Type:     event.DirCreated,
		Path:     task.SrcPath,
		DstPath:  task.DstPath,
		WorkerID: workerID,
		DryRun:   x.cfg.DryRun,
	})
	return nil
}

func (x *Executor) copyFile(ctx context.Context, task CopyTask, workerID int) error {
	x.emit(ctx, event.Event{
		Type:     event.FileStarted,
		Path:     task.SrcPath,
		DstPath:  task.DstPath,
		Size:     task.Size,
		WorkerID: workerID,
		DryRun:   x.cfg.DryRun,
	})

	var (
		n   int64
		err error
	)
	if x.cfg.DryRun {
		var info os.FileInfo
		if info, err = os.Stat(task.SrcPath); err == nil {
			n = info.Size()
		}
	} else {
		n, err = x.writeFile(ctx, task)
	}
	if err != nil {
		x.fail(ctx, task, stats.Copy, err, workerID)
		return err
	}

	x.cfg.Stats.AddFileCopied(n)
	x.emit(ctx, event.Event{
		Type:     event.FileCopied,
		Path:     task.SrcPath,
		DstPath:  task.DstPath,
		Size:     n,
		WorkerID: workerID,
		DryRun:   x.cfg.DryRun,
	})
	return nil
}

// writeFile copies task's source into a temp file beside the destination
// and renames it into place, so the destination is never seen half written.
func (x *Executor) writeFile(ctx context.Context, task CopyTask) (int64, error) {
	src, err := os.Open(task.SrcPath)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%s: %w", task.SrcPath, errNotRegular)
	}

	tmpPath := filepath.Join(filepath.Dir(task.DstPath),
		fmt.Sprintf(".%s.%s%s", filepath.Base(task.DstPath), uuid.NewString()[:8], tmpSuffix))
	x.tmp.add(tmpPath)
	defer func() {
		x.tmp.remove(tmpPath)
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return 0, err
	}

	n, err := x.copyBytes(ctx, tmp, src, info.Size())
	if err != nil {
		tmp.Close()
		return n, fmt.Errorf("copy %s: %w", task.SrcPath, err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return n, err
	}
	if err := tmp.Close(); err != nil {
		return n, err
	}
	if err := os.Rename(tmpPath, task.DstPath); err != nil {
		return n, err
	}
	return n, nil
}

func (x *Executor) copyBytes(ctx context.Context, dst, src *os.File, size int64) (int64, error) {
	if x.cfg.Limiter != nil {
		return platform.CopyBuffered(dst, newLimitedReader(ctx, src, x.cfg.Limiter))
	}
	res, err := platform.CopyFile(dst, src, size)
	if err == nil {
		slog.Debug("copied", "path", src.Name(), "bytes", res.BytesWritten, "method", res.Method.String())
	}
	return res.BytesWritten, err
}

func (x *Executor) fail(ctx context.Context, task CopyTask, kind stats.ErrorKind, err error, workerID int) {
	x.cfg.Stats.RecordError(task.SrcPath, kind, err)
	slog.Debug("task failed", "kind", kind.String(), "path", task.SrcPath, "error", err)
	x.emit(ctx, event.Event{
		Type:     event.TaskFailed,
		Path:     task.SrcPath,
		DstPath:  task.DstPath,
		Error:    err,
		IsDir:    task.IsDir(),
		WorkerID: workerID,
		DryRun:   x.cfg.DryRun,
	})
}

func (x *Executor) emit(ctx context.Context, e event.Event) {
	emit(ctx, x.cfg.Events, e)
}

// emit delivers e, blocking until the consumer takes it or ctx ends.
func emit(ctx context.Context, ch chan<- event.Event, e event.Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	case <-ctx.Done():
	}
}

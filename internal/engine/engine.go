// Package engine copies a directory tree: it walks the source, creates
// every destination directory before any file beneath it, and copies
// files on one goroutine or a fixed pool while recording progress.
package engine

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vaeleborne/rcpy/internal/event"
	"github.com/vaeleborne/rcpy/internal/filter"
	"github.com/vaeleborne/rcpy/internal/stats"
)

// Config describes a copy operation. It is not modified by Run.
type Config struct {
	Src       string
	Dst       string
	Recursive bool
	Workers   int // <= 1 runs single-threaded
	DryRun    bool
	Exclude   filter.ExclusionSet
	Verify    bool
	BWLimit   int64 // bytes/sec, 0 = unlimited

	Events chan<- event.Event // may be nil
	Stats  *stats.Collector   // created when nil
}

// Result is the outcome of a copy operation.
type Result struct {
	Stats stats.Snapshot
	// Err is a *FatalError when the run never started, or a *RunError
	// when it completed with recorded failures.
	Err         error
	Interrupted bool
}

// Run executes a copy operation, blocking until complete or ctx ends.
func Run(ctx context.Context, cfg Config) Result {
	cfg.Src, cfg.Dst = cleanRoot(cfg.Src), cleanRoot(cfg.Dst)
	collector := cfg.Stats
	if collector == nil {
		collector = stats.NewCollector()
	}

	exec := NewExecutor(ExecutorConfig{
		DryRun: cfg.DryRun,
		Events: cfg.Events,
		Stats:  collector,
	})
	if cfg.BWLimit > 0 {
		exec.cfg.Limiter = NewBWLimiter(cfg.BWLimit)
	}
	defer exec.Cleanup()

	if info, err := os.Stat(cfg.Src); err == nil && info.Mode().IsRegular() {
		runFileCopy(ctx, cfg, exec, collector, info)
	} else {
		walker := NewWalker(WalkerConfig{
			SrcRoot:   cfg.Src,
			DstRoot:   cfg.Dst,
			Recursive: cfg.Recursive,
			Exclude:   cfg.Exclude,
			Events:    cfg.Events,
			Stats:     collector,
		})
		tasks, err := walker.Walk(ctx)
		if err != nil {
			collector.Finish()
			return Result{Stats: collector.Snapshot(), Err: err}
		}

		slog.Debug("run started", "src", cfg.Src, "dst", cfg.Dst,
			"workers", cfg.Workers, "recursive", cfg.Recursive, "dry_run", cfg.DryRun)
		_ = NewDistributor(cfg.Workers, exec).Run(ctx, tasks)

		if cfg.Verify && !cfg.DryRun && ctx.Err() == nil {
			Verify(ctx, VerifyConfig{
				SrcRoot:   cfg.Src,
				DstRoot:   cfg.Dst,
				Recursive: cfg.Recursive,
				Workers:   cfg.Workers,
				Exclude:   cfg.Exclude,
				Events:    cfg.Events,
				Stats:     collector,
			})
		}
	}

	collector.Finish()
	return Result{
		Stats:       collector.Snapshot(),
		Err:         runError(collector),
		Interrupted: ctx.Err() != nil,
	}
}

// runFileCopy handles a regular-file source: it is copied to Dst, or
// into Dst when that is an existing directory.
func runFileCopy(ctx context.Context, cfg Config, exec *Executor, collector *stats.Collector, info os.FileInfo) {
	dst := cfg.Dst
	if dstInfo, err := os.Stat(dst); err == nil && dstInfo.IsDir() {
		dst = filepath.Join(dst, filepath.Base(cfg.Src))
	}

	name := filepath.Base(cfg.Src)
	if !cfg.Exclude.Included(name) {
		collector.AddFilesExcluded(1)
		return
	}
	collector.AddFilesTotal(1)
	collector.AddBytesTotal(info.Size())

	task := CopyTask{
		SrcPath: cfg.Src,
		DstPath: dst,
		RelPath: name,
		Size:    info.Size(),
		Mode:    info.Mode(),
		Kind:    KindFile,
	}
	if err := exec.Execute(ctx, task, 1); err != nil {
		return
	}
	if cfg.Verify && !cfg.DryRun && ctx.Err() == nil {
		verifyFile(ctx, VerifyConfig{Events: cfg.Events, Stats: collector, Workers: 1}, cfg.Src, dst)
	}
}

func runError(c *stats.Collector) error {
	errs := c.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &RunError{Count: int64(len(errs)), First: errs[0]}
}

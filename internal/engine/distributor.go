package engine

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Distributor feeds walker output to an Executor.
//
// With one worker it executes tasks in emission order. With more it runs
// in two phases: directories are created synchronously as they stream in
// while file tasks are buffered, then the buffered files are drained by a
// fixed pool. Either way no file is written before its parent exists.
type Distributor struct {
	workers int
	exec    *Executor

	// failed holds destinations of directories that were not created.
	// Only the dispatching goroutine touches it.
	failed map[string]struct{}
}

// NewDistributor creates a distributor. workers <= 1 selects single mode.
// File copies report worker IDs from 1; directories in pool mode report 0.
func NewDistributor(workers int, exec *Executor) *Distributor {
	return &Distributor{
		workers: max(workers, 1),
		exec:    exec,
		failed:  make(map[string]struct{}),
	}
}

// Run consumes tasks until the channel closes or ctx is cancelled. It
// returns ctx.Err() when the run was interrupted.
func (d *Distributor) Run(ctx context.Context, tasks <-chan CopyTask) error {
	if d.workers == 1 {
		return d.runSingle(ctx, tasks)
	}
	return d.runPool(ctx, tasks)
}

func (d *Distributor) runSingle(ctx context.Context, tasks <-chan CopyTask) error {
	for task := range tasks {
		if ctx.Err() != nil {
			break
		}
		if d.orphaned(ctx, task, 0) {
			continue
		}
		if err := d.exec.Execute(ctx, task, 1); err != nil && task.IsDir() {
			d.failed[task.DstPath] = struct{}{}
		}
	}
	return ctx.Err()
}

func (d *Distributor) runPool(ctx context.Context, tasks <-chan CopyTask) error {
	// Phase 1: materialize directories, buffer files.
	var files []CopyTask
	for task := range tasks {
		if ctx.Err() != nil {
			break
		}
		if d.orphaned(ctx, task, 0) {
			continue
		}
		if task.IsDir() {
			if err := d.exec.Execute(ctx, task, 0); err != nil {
				d.failed[task.DstPath] = struct{}{}
			}
			continue
		}
		files = append(files, task)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	// Phase 2: the queue is filled once and never grows.
	queue := make(chan CopyTask, len(files))
	for _, f := range files {
		queue <- f
	}
	close(queue)

	var g errgroup.Group
	for id := range min(d.workers, max(len(files), 1)) {
		g.Go(func() error {
			for task := range queue {
				if ctx.Err() != nil {
					return nil
				}
				_ = d.exec.Execute(ctx, task, id+1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

// orphaned rejects task when its parent directory failed. A rejected
// directory is itself marked failed so its subtree is rejected too.
func (d *Distributor) orphaned(ctx context.Context, task CopyTask, workerID int) bool {
	if len(d.failed) == 0 {
		return false
	}
	if _, ok := d.failed[filepath.Dir(task.DstPath)]; !ok {
		return false
	}
	d.exec.Reject(ctx, task, workerID, ErrParentNotCreated)
	if task.IsDir() {
		d.failed[task.DstPath] = struct{}{}
	}
	return true
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaeleborne/rcpy/internal/event"
	"github.com/vaeleborne/rcpy/internal/stats"
)

func distribute(t *testing.T, ctx context.Context, src, dst string, workers int, x *Executor, c *stats.Collector) error {
	t.Helper()
	tasks, err := NewWalker(WalkerConfig{SrcRoot: src, DstRoot: dst, Recursive: true, Stats: c}).Walk(ctx)
	require.NoError(t, err)
	return NewDistributor(workers, x).Run(ctx, tasks)
}

func TestDistributor_DirectoriesBeforeFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	files := make(map[string]string)
	for i := range 8 {
		for j := range 4 {
			files[fmt.Sprintf("d%d/sub%d/f.txt", i, j)] = "x"
		}
	}
	writeTree(t, src, files)

	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			out := filepath.Join(dst, fmt.Sprint(workers))
			events := make(chan event.Event, 1024)
			c := stats.NewCollector()
			x := NewExecutor(ExecutorConfig{Events: events, Stats: c})

			var mu sync.Mutex
			created := make(map[string]time.Time)
			x.dirHook = func(task CopyTask) {
				time.Sleep(2 * time.Millisecond)
				mu.Lock()
				created[task.DstPath] = time.Now()
				mu.Unlock()
			}

			require.NoError(t, distribute(t, context.Background(), src, out, workers, x, c))
			close(events)

			// Every file event comes after its parent's creation.
			for ev := range events {
				if ev.Type != event.FileStarted {
					continue
				}
				parentAt, ok := created[filepath.Dir(ev.DstPath)]
				require.True(t, ok, "parent of %s never created", ev.DstPath)
				assert.False(t, ev.Timestamp.Before(parentAt), ev.DstPath)
			}

			snap := c.Snapshot()
			assert.Equal(t, int64(32), snap.FilesCopied)
			assert.Equal(t, int64(1+8+32), snap.DirsCreated)
			assert.Zero(t, snap.TaskErrors)
			assert.True(t, snap.Conserved())
		})
	}
}

func TestDistributor_FailedDirectoryRejectsSubtree(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeTree(t, src, map[string]string{
		"bad/a.txt":       "a",
		"bad/inner/b.txt": "b",
		"good/c.txt":      "c",
	})
	// A file where the "bad" directory must go.
	writeTree(t, dst, map[string]string{"bad": "in the way"})

	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			c := stats.NewCollector()
			x := NewExecutor(ExecutorConfig{Stats: c})

			require.NoError(t, distribute(t, context.Background(), src, dst, workers, x, c))

			snap := c.Snapshot()
			assert.Equal(t, int64(1), snap.FilesCopied) // good/c.txt
			assert.Equal(t, int64(2), snap.DirsCreated) // root, good
			// bad (mkdir), bad/a.txt, bad/inner, bad/inner/b.txt
			assert.Equal(t, int64(4), snap.TaskErrors)
			assert.True(t, snap.Conserved())

			rejected := 0
			for _, e := range c.Errors() {
				assert.Equal(t, stats.Create, e.Kind)
				if errors.Is(e.Err, ErrParentNotCreated) {
					rejected++
				}
			}
			assert.Equal(t, 3, rejected)

			data, err := os.ReadFile(filepath.Join(dst, "bad"))
			require.NoError(t, err)
			assert.Equal(t, "in the way", string(data))
		})
	}
}

func TestDistributor_CancelStopsDispatch(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	files := make(map[string]string)
	for i := range 200 {
		files[fmt.Sprintf("f%03d.txt", i)] = "x"
	}
	writeTree(t, src, files)

	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			c := stats.NewCollector()
			events := make(chan event.Event)
			x := NewExecutor(ExecutorConfig{Events: events, Stats: c})
			go func() {
				n := 0
				for ev := range events {
					if ev.Type == event.FileCopied {
						if n++; n == 10 {
							cancel()
						}
					}
				}
			}()
			defer close(events)

			err := distribute(t, ctx, src, filepath.Join(dir, fmt.Sprint("dst", workers)), workers, x, c)
			assert.ErrorIs(t, err, context.Canceled)

			snap := c.Snapshot()
			assert.Less(t, snap.TasksDispatched, int64(201))
			assert.True(t, snap.Conserved())
		})
	}
}

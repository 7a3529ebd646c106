package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaeleborne/rcpy/internal/event"
	"github.com/vaeleborne/rcpy/internal/stats"
)

// writeTree creates files under root. Keys are slash-separated relative
// paths; a key ending in "/" creates an empty directory.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(root, 0o755))
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			require.NoError(t, os.MkdirAll(p, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// exampleTree is a/{file1.txt, sub/file2.tmp}.
func exampleTree(t *testing.T) (src, dst string) {
	t.Helper()
	dir := t.TempDir()
	src = filepath.Join(dir, "a")
	dst = filepath.Join(dir, "out")
	writeTree(t, src, map[string]string{
		"file1.txt":     "one",
		"sub/file2.tmp": "two",
	})
	return src, dst
}

// listTree returns the sorted relative paths under root, directories
// suffixed with "/". A missing root yields nil.
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, _ := filepath.Rel(root, p)
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			rel += "/"
		}
		out = append(out, rel)
		return nil
	})
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	sort.Strings(out)
	return out
}

// drainEvents returns an event channel consumed in the background for the
// lifetime of the test.
func drainEvents(t *testing.T) chan<- event.Event {
	t.Helper()
	ch := make(chan event.Event, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range ch { //nolint:revive // drain
		}
	}()
	t.Cleanup(func() {
		close(ch)
		<-done
	})
	return ch
}

// walkAll runs a walker to completion and returns its tasks in order.
func walkAll(t *testing.T, cfg WalkerConfig) []CopyTask {
	t.Helper()
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	ch, err := NewWalker(cfg).Walk(context.Background())
	require.NoError(t, err)
	var tasks []CopyTask
	for task := range ch {
		tasks = append(tasks, task)
	}
	return tasks
}

func relPaths(tasks []CopyTask) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = filepath.ToSlash(task.RelPath)
		if task.IsDir() {
			out[i] += "/"
		}
	}
	return out
}

func skipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
}

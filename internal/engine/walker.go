package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vaeleborne/rcpy/internal/event"
	"github.com/vaeleborne/rcpy/internal/filter"
	"github.com/vaeleborne/rcpy/internal/stats"
)

// WalkerConfig controls tree discovery.
type WalkerConfig struct {
	SrcRoot   string
	DstRoot   string
	Recursive bool
	Exclude   filter.ExclusionSet
	Events    chan<- event.Event // WalkStarted / WalkComplete; may be nil
	Stats     stats.Recorder
}

// Walker turns a source tree into an ordered stream of CopyTasks.
//
// Order is depth-first pre-order with entries in lexical order: every
// Directory task precedes all tasks beneath it, starting with the root
// mapped to DstRoot.
type Walker struct {
	cfg   WalkerConfig
	files int64
	bytes int64
}

// NewWalker creates a walker with the given config. Both roots are
// cleaned so the root task's DstPath matches filepath.Dir of its children.
func NewWalker(cfg WalkerConfig) *Walker {
	cfg.SrcRoot, cfg.DstRoot = cleanRoot(cfg.SrcRoot), cleanRoot(cfg.DstRoot)
	return &Walker{cfg: cfg}
}

func cleanRoot(p string) string {
	if p == "" {
		return p
	}
	return filepath.Clean(p)
}

// frame is a directory whose entries are being emitted.
type frame struct {
	src, dst, rel string
	entries       []os.DirEntry
	next          int
}

// Walk validates the roots and starts a producer goroutine. Precondition
// failures are returned as *FatalError before any task is produced. The
// channel closes when the walk is complete or ctx is cancelled.
func (w *Walker) Walk(ctx context.Context) (<-chan CopyTask, error) {
	info, err := os.Stat(w.cfg.SrcRoot)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fatal(ErrSourceMissing, w.cfg.SrcRoot, nil)
	case err != nil:
		return nil, fatal(ErrSourceMissing, w.cfg.SrcRoot, err)
	case !info.IsDir():
		return nil, fatal(ErrSourceNotDir, w.cfg.SrcRoot, nil)
	}
	if err := checkDestOutsideSource(w.cfg.SrcRoot, w.cfg.DstRoot); err != nil {
		return nil, err
	}

	tasks := make(chan CopyTask, 64)
	go func() {
		defer close(tasks)
		w.run(ctx, tasks, info.Mode())
	}()
	return tasks, nil
}

func (w *Walker) run(ctx context.Context, tasks chan<- CopyTask, rootMode os.FileMode) {
	root := CopyTask{
		SrcPath: w.cfg.SrcRoot,
		DstPath: w.cfg.DstRoot,
		RelPath: ".",
		Mode:    rootMode,
		Kind:    KindDir,
	}
	emit(ctx, w.cfg.Events, event.Event{Type: event.WalkStarted, Path: w.cfg.SrcRoot})
	defer func() {
		emit(ctx, w.cfg.Events, event.Event{
			Type: event.WalkComplete, Path: w.cfg.SrcRoot, Total: w.files, TotalSize: w.bytes,
		})
	}()
	if !w.send(ctx, tasks, root) {
		return
	}

	stack := []frame{w.open(w.cfg.SrcRoot, w.cfg.DstRoot, ".")}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.entries) {
			stack = stack[:len(stack)-1]
			continue
		}
		entry := top.entries[top.next]
		top.next++

		task, ok := w.entryTask(top, entry)
		if !ok {
			continue
		}
		if !w.send(ctx, tasks, task) {
			return
		}
		// Descend before the next sibling so the whole subtree follows
		// its Directory task.
		if task.Kind == KindDir && w.cfg.Recursive {
			stack = append(stack, w.open(task.SrcPath, task.DstPath, task.RelPath))
		}
	}
}

// open reads one directory's entries. os.ReadDir returns them sorted by
// name. A read failure is recorded and yields whatever entries were read.
func (w *Walker) open(src, dst, rel string) frame {
	entries, err := os.ReadDir(src)
	if err != nil {
		w.cfg.Stats.RecordError(src, stats.Traversal, fmt.Errorf("read dir: %w", err))
		slog.Debug("unreadable directory", "path", src, "error", err)
	}
	return frame{src: src, dst: dst, rel: rel, entries: entries}
}

func (w *Walker) entryTask(parent *frame, entry os.DirEntry) (CopyTask, bool) {
	name := entry.Name()
	task := CopyTask{
		SrcPath: filepath.Join(parent.src, name),
		DstPath: filepath.Join(parent.dst, name),
		RelPath: filepath.Join(parent.rel, name),
	}

	typ := entry.Type()
	switch {
	case typ.IsDir():
		info, err := entry.Info()
		if err != nil {
			w.cfg.Stats.RecordError(task.SrcPath, stats.Traversal, fmt.Errorf("stat: %w", err))
			return task, false
		}
		task.Kind = KindDir
		task.Mode = info.Mode()
		return task, true

	case typ.IsRegular(), typ&fs.ModeSymlink != 0:
		if !w.cfg.Exclude.Included(name) {
			w.cfg.Stats.AddFilesExcluded(1)
			return task, false
		}
		task.Kind = KindFile
		// Symlinks are copied as the file they point to. A dangling link
		// still becomes a task so the failure is reported by the copy.
		if info, err := os.Stat(task.SrcPath); err == nil {
			task.Size = info.Size()
			task.Mode = info.Mode()
		}
		w.files++
		w.bytes += task.Size
		w.cfg.Stats.AddFilesTotal(1)
		w.cfg.Stats.AddBytesTotal(task.Size)
		return task, true

	default:
		slog.Debug("skipping special file", "path", task.SrcPath, "type", typ.String())
		return task, false
	}
}

func (w *Walker) send(ctx context.Context, tasks chan<- CopyTask, task CopyTask) bool {
	select {
	case tasks <- task:
		return true
	case <-ctx.Done():
		return false
	}
}

// checkDestOutsideSource rejects a destination equal to or beneath the
// source, which would make the walk feed on its own output.
func checkDestOutsideSource(src, dst string) error {
	srcReal, err := resolvePath(src)
	if err != nil {
		return fatal(ErrSourceMissing, src, err)
	}
	dstReal, err := resolvePath(dst)
	if err != nil {
		return fatal(ErrDestInsideSource, dst, err)
	}
	rel, err := filepath.Rel(srcReal, dstReal)
	if err != nil {
		return nil
	}
	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return fatal(ErrDestInsideSource, dst, nil)
	}
	return nil
}

// resolvePath makes p absolute and resolves symlinks in its longest
// existing prefix. The destination usually does not exist yet.
func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	cur, rest := abs, ""
	for {
		if real, err := filepath.EvalSymlinks(cur); err == nil {
			return filepath.Join(real, rest), nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(cur), rest)
		cur = parent
	}
}

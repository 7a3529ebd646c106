package tui

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vaeleborne/rcpy/internal/event"
	"github.com/vaeleborne/rcpy/internal/ui"
)

const maxErrorLines = 5

type inFlightEntry struct {
	path     string
	workerID int
	size     int64
}

type completedEntry struct {
	path   string
	size   int64
	isDir  bool
	failed bool
	errMsg string
}

type errorEntry struct {
	path string
	err  string
}

type feedView struct {
	inFlight     map[int]*inFlightEntry // keyed by worker ID
	completed    []completedEntry
	errors       []errorEntry
	verbosity    ui.Verbosity
	dstRoot      string
	scrollOffset int
	autoScroll   bool
}

func newFeedView(dstRoot string, v ui.Verbosity) feedView {
	return feedView{
		inFlight:   make(map[int]*inFlightEntry),
		verbosity:  v,
		dstRoot:    dstRoot,
		autoScroll: true,
	}
}

func (f *feedView) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.FileStarted:
		f.inFlight[ev.WorkerID] = &inFlightEntry{
			path:     ev.DstPath,
			workerID: ev.WorkerID,
			size:     ev.Size,
		}

	case event.FileCopied:
		delete(f.inFlight, ev.WorkerID)
		if f.verbosity.ShowFiles() {
			f.completed = append(f.completed, completedEntry{path: ev.DstPath, size: ev.Size})
		}

	case event.DirCreated:
		if f.verbosity.ShowDirs() {
			f.completed = append(f.completed, completedEntry{path: ev.DstPath, isDir: true})
		}

	case event.TaskFailed:
		delete(f.inFlight, ev.WorkerID)
		msg := errMessage(ev.Error)
		f.completed = append(f.completed, completedEntry{
			path:   ev.DstPath,
			isDir:  ev.IsDir,
			failed: true,
			errMsg: msg,
		})
		f.errors = append(f.errors, errorEntry{path: ev.Path, err: msg})

	case event.VerifyFailed:
		f.errors = append(f.errors, errorEntry{path: ev.Path, err: errMessage(ev.Error)})
	}
}

func errMessage(err error) string {
	if err == nil {
		return "error"
	}
	return err.Error()
}

func (f *feedView) scrollDown() {
	f.autoScroll = false
	f.scrollOffset++
}

func (f *feedView) scrollUp() {
	f.autoScroll = false
	if f.scrollOffset > 0 {
		f.scrollOffset--
	}
}

func (f *feedView) scrollToTop() {
	f.autoScroll = false
	f.scrollOffset = 0
}

// scrollToBottom re-pins the viewport to the newest entry.
func (f *feedView) scrollToBottom() {
	f.autoScroll = true
}

// view lays out three sections: in-flight files, a scrollable history, and
// the most recent errors pinned at the bottom.
func (f *feedView) view(height int) string {
	maxInFlight := max(height/3, 1)
	inFlightCount := min(len(f.inFlight), maxInFlight)
	errCount := min(len(f.errors), maxErrorLines)

	dividers := 0
	for _, n := range []int{inFlightCount, errCount, len(f.completed)} {
		if n > 0 {
			dividers++
		}
	}
	completedHeight := max(height-inFlightCount-errCount-dividers, 1)

	maxOffset := max(len(f.completed)-completedHeight, 0)
	if f.autoScroll || f.scrollOffset > maxOffset {
		f.scrollOffset = maxOffset
	}

	var b strings.Builder
	if inFlightCount > 0 {
		b.WriteString(styleDivider.Render("─ in-flight") + "\n")
		b.WriteString(f.renderInFlight(maxInFlight))
	}
	if len(f.completed) > 0 {
		b.WriteString(styleDivider.Render(fmt.Sprintf("─ completed (%d)", len(f.completed))) + "\n")
		b.WriteString(f.renderCompleted(completedHeight))
	}
	if errCount > 0 {
		b.WriteString(styleDivider.Render(fmt.Sprintf("─ errors (%d)", len(f.errors))) + "\n")
		b.WriteString(f.renderErrors(errCount))
	}
	return b.String()
}

func (f *feedView) renderInFlight(maxLines int) string {
	ids := make([]int, 0, len(f.inFlight))
	for id := range f.inFlight {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	if len(ids) > maxLines {
		ids = ids[:maxLines]
	}

	var b strings.Builder
	for _, id := range ids {
		e := f.inFlight[id]
		fmt.Fprintf(&b, "  %s  %s  %s\n",
			styleInFlight.Render("⟩"),
			f.styledPath(e.path),
			styleFileSize.Render(ui.FormatBytes(e.size)),
		)
	}
	return b.String()
}

func (f *feedView) renderCompleted(viewportHeight int) string {
	end := min(f.scrollOffset+viewportHeight, len(f.completed))

	var b strings.Builder
	for _, e := range f.completed[f.scrollOffset:end] {
		path := f.styledPath(e.path)
		switch {
		case e.failed:
			fmt.Fprintf(&b, "  %s  %s  %s\n", styleIconFailed.Render("✗"), path, styleError.Render(e.errMsg))
		case e.isDir:
			fmt.Fprintf(&b, "  %s  %s\n", styleIconDone.Render("+"), path+styleFileDir.Render("/"))
		default:
			fmt.Fprintf(&b, "  %s  %s  %s\n", styleIconDone.Render("✓"), path,
				styleFileSize.Render(fmt.Sprintf("%10s", ui.FormatBytes(e.size))))
		}
	}
	return b.String()
}

func (f *feedView) renderErrors(n int) string {
	var b strings.Builder
	for _, e := range f.errors[len(f.errors)-n:] {
		fmt.Fprintf(&b, "  %s  %s  %s\n",
			styleIconFailed.Render("✗"),
			styleErrorPath.Render(e.path),
			styleError.Render(e.err),
		)
	}
	return b.String()
}

func (f *feedView) styledPath(path string) string {
	path = ui.StripRoot(f.dstRoot, path)
	dir, base := filepath.Split(path)
	if dir == "" {
		return styleFilePath.Render(base)
	}
	return styleFileDir.Render(dir) + styleFilePath.Render(base)
}

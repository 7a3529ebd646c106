package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/vaeleborne/rcpy/internal/stats"
	"github.com/vaeleborne/rcpy/internal/ui"
)

// lineEditor is a one-line text input. The cursor counts runes.
type lineEditor struct {
	text []rune
	pos  int
}

func newLineEditor(s string) lineEditor {
	r := []rune(s)
	return lineEditor{text: r, pos: len(r)}
}

func (e *lineEditor) String() string { return string(e.text) }

func (e *lineEditor) insert(rs ...rune) {
	e.text = slices.Insert(e.text, e.pos, rs...)
	e.pos += len(rs)
}

func (e *lineEditor) deleteBack() {
	if e.pos == 0 {
		return
	}
	e.text = slices.Delete(e.text, e.pos-1, e.pos)
	e.pos--
}

func (e *lineEditor) left()  { e.pos = max(e.pos-1, 0) }
func (e *lineEditor) right() { e.pos = min(e.pos+1, len(e.text)) }

func (e *lineEditor) view(prompt string) string {
	return "  " + styleSavePrompt.Render(prompt) +
		styleSaveInput.Render(string(e.text[:e.pos])+"█"+string(e.text[e.pos:]))
}

func defaultReportName(now time.Time) string {
	return "rcpy-" + now.Format("2006-01-02-150405") + ".log"
}

// report is everything written to a saved run report.
type report struct {
	srcRoot, dstRoot string
	finished         time.Time
	snap             stats.Snapshot
	errs             []stats.TaskError
	dryRun           bool
	tasks            []completedEntry
}

func (r report) String() string {
	var b strings.Builder
	b.WriteString("rcpy report\n===========\n")
	fmt.Fprintf(&b, "source:      %s\n", r.srcRoot)
	fmt.Fprintf(&b, "destination: %s\n", r.dstRoot)
	fmt.Fprintf(&b, "finished:    %s\n\n", r.finished.Format(time.DateTime))
	b.WriteString(ui.CompletionSummary(r.snap, r.errs, r.dryRun))
	b.WriteString("\n\n--- tasks ---\n")
	for _, t := range r.tasks {
		rel := ui.StripRoot(r.dstRoot, t.path)
		switch {
		case t.failed:
			fmt.Fprintf(&b, "x  %-50s  %s\n", rel, t.errMsg)
		case t.isDir:
			fmt.Fprintf(&b, "d  %s/\n", rel)
		default:
			fmt.Fprintf(&b, "f  %-50s  %s\n", rel, ui.FormatBytes(t.size))
		}
	}
	return b.String()
}

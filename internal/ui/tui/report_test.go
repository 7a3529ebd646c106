package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vaeleborne/rcpy/internal/stats"
)

func TestLineEditor_MultibyteCursor(t *testing.T) {
	e := newLineEditor("día")
	assert.Equal(t, 3, e.pos)

	e.left()
	e.deleteBack()
	assert.Equal(t, "da", e.String())
	assert.Equal(t, 1, e.pos)

	e.insert('é', 'é')
	assert.Equal(t, "dééa", e.String())
}

func TestLineEditor_Bounds(t *testing.T) {
	e := newLineEditor("ab")
	e.right()
	assert.Equal(t, 2, e.pos)

	e.left()
	e.left()
	e.left()
	assert.Equal(t, 0, e.pos)

	e.deleteBack()
	assert.Equal(t, "ab", e.String(), "backspace at start is a no-op")
	assert.Contains(t, e.view("Save to: "), "█ab")
}

func TestDefaultReportName(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "rcpy-2026-03-04-050607.log", defaultReportName(now))
}

func TestReport_String(t *testing.T) {
	c := stats.NewCollector()
	c.AddFilesTotal(2)
	c.AddFileCopied(10)
	c.RecordError("/src/bad", stats.Copy, errors.New("no space left"))

	r := report{
		srcRoot:  "/src",
		dstRoot:  "/dst",
		finished: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		snap:     c.Snapshot(),
		errs:     c.Errors(),
		tasks: []completedEntry{
			{path: "/dst/docs", isDir: true},
			{path: "/dst/docs/a.txt", size: 10},
			{path: "/dst/bad", failed: true, errMsg: "no space left"},
		},
	}

	out := r.String()
	assert.Contains(t, out, "finished:    2026-01-02 03:04:05")
	assert.Contains(t, out, "d  docs/\n")
	assert.Regexp(t, `f  docs/a\.txt\s+10 B`, out)
	assert.Regexp(t, `x  bad\s+no space left`, out)
	assert.Contains(t, out, "copy complete")
}

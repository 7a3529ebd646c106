package tui

import (
	"fmt"
	"strings"

	"github.com/vaeleborne/rcpy/internal/event"
	"github.com/vaeleborne/rcpy/internal/stats"
	"github.com/vaeleborne/rcpy/internal/ui"
)

type rateView struct {
	busyWorkers map[int]bool
}

func newRateView() rateView {
	return rateView{busyWorkers: make(map[int]bool)}
}

func (r *rateView) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.FileStarted:
		r.busyWorkers[ev.WorkerID] = true
	case event.FileCopied, event.TaskFailed:
		delete(r.busyWorkers, ev.WorkerID)
	}
}

func (r *rateView) view(width int, snap stats.Snapshot, reader stats.Reader, totalWorkers int) string {
	width = max(width, 20)

	var b strings.Builder

	speed := reader.RollingSpeed(5)
	b.WriteString("  " + styleBigNumber.Render(ui.FormatRate(speed)))
	b.WriteString("\n\n")

	sparkWidth := max(width-4, 10)
	spark := ui.Sparkline(reader.SparklineData(sparkWidth), sparkWidth)
	b.WriteString("  " + styleSparkline.Render(spark))
	b.WriteString("\n\n")

	fps := reader.RollingFilesPerSec(5)
	fmt.Fprintf(&b, "  %s   %s\n\n",
		styleInFlight.Render(ui.FormatCount(int64(fps))+" files/s"),
		styleFileSize.Render(fmt.Sprintf("%s / %s files",
			ui.FormatCount(snap.FilesCopied), ui.FormatCount(snap.FilesTotal))),
	)

	b.WriteString("  " + styleDivider.Render("workers") + "  ")
	b.WriteString(r.renderWorkerGrid(totalWorkers))
	b.WriteByte('\n')

	return b.String()
}

// renderWorkerGrid draws one cell per worker. Worker IDs start at 1.
func (r *rateView) renderWorkerGrid(total int) string {
	var b strings.Builder
	for i := 1; i <= total; i++ {
		if r.busyWorkers[i] {
			b.WriteString(styleWorkerBusy.Render("▪"))
		} else {
			b.WriteString(styleWorkerIdle.Render("□"))
		}
	}
	return b.String()
}

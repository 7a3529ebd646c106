package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// ANSI escape sequences.
const (
	ansiDim   = "\033[2m"
	ansiRed   = "\033[31m"
	ansiReset = "\033[0m"
)

const (
	rateThreshHigh   = 200.0
	rateThreshLow    = 100.0
	sparklineWidth   = 20
	progressBarWidth = 20
	hudMinInterval   = 50 * time.Millisecond
)

// hudPresenter prints the gated task feed above a two-line progress
// display that is redrawn in place. Everything goes to ErrWriter, the
// terminal.
//
// While files complete faster than rateThreshHigh per second the HUD
// gains a files/s line. The feed itself is never suspended.
type hudPresenter struct {
	cfg Config

	hudLines int // lines drawn by the last drawHUD, 0 when cleared
	rateMode bool
	busy     map[int]bool
	lastDraw time.Time
}

func (p *hudPresenter) w() io.Writer { return p.cfg.ErrWriter }

func (p *hudPresenter) Run(events <-chan Event) error {
	p.busy = make(map[int]bool)

	// The first sample comes early so the speed readout is not blank for
	// a whole second.
	secTicker := time.NewTicker(250 * time.Millisecond)
	defer secTicker.Stop()
	seeded := false

	redraw := time.NewTicker(100 * time.Millisecond)
	defer redraw.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clearHUD()
				return nil
			}
			p.handleEvent(ev)
			if time.Since(p.lastDraw) >= hudMinInterval {
				p.drawHUD()
			}

		case <-redraw.C:
			p.maybeSwitch()
			p.drawHUD()

		case <-secTicker.C:
			p.cfg.Stats.Tick()
			if !seeded {
				seeded = true
				secTicker.Reset(time.Second)
			}
		}
	}
}

func (p *hudPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case FileStarted:
		p.busy[ev.WorkerID] = true
		return
	case FileCopied, TaskFailed:
		delete(p.busy, ev.WorkerID)
	}

	line, show := feedLine(ev, p.cfg.Verbosity)
	if !show {
		return
	}
	p.clearHUD()
	if isFailure(ev) {
		fmt.Fprintf(p.w(), "%s%s%s\n", ansiRed, line, ansiReset)
	} else {
		fmt.Fprintln(p.w(), p.dimDirs(line))
	}
	p.drawHUD()
}

// dimDirs dims the directory part of the last path on a feed line so the
// file name stands out.
func (p *hudPresenter) dimDirs(line string) string {
	i := strings.LastIndex(line, " ")
	if i < 0 {
		return line
	}
	path := line[i+1:]
	dir, base := filepath.Split(path)
	if dir == "" {
		return line
	}
	return line[:i+1] + ansiDim + dir + ansiReset + base
}

func (p *hudPresenter) maybeSwitch() {
	fps := p.cfg.Stats.RollingFilesPerSec(2)
	switch {
	case !p.rateMode && fps > rateThreshHigh:
		p.rateMode = true
	case p.rateMode && fps < rateThreshLow:
		p.rateMode = false
	}
}

func (p *hudPresenter) drawHUD() {
	p.clearHUD()

	stats := p.cfg.Stats
	snap := stats.Snapshot()
	var pct float64
	if snap.BytesTotal > 0 {
		pct = float64(snap.BytesCopied) / float64(snap.BytesTotal)
	}
	spark := Sparkline(stats.SparklineData(sparklineWidth), sparklineWidth)

	lines := 0
	if p.rateMode {
		fmt.Fprintf(p.w(), "files/s  %s/s   %s / %s done\n",
			FormatCount(int64(stats.RollingFilesPerSec(5))),
			FormatCount(snap.FilesCopied), FormatCount(snap.FilesTotal))
		lines++
	}

	fmt.Fprintf(p.w(), "       %s   %s   %s / %s\n",
		spark, FormatRate(stats.RollingSpeed(10)),
		FormatBytes(snap.BytesCopied), FormatBytes(snap.BytesTotal))
	lines++

	workers := ""
	if p.cfg.Workers > 1 {
		workers = "   " + WorkerIndicator(len(p.busy), p.cfg.Workers)
	}
	errs := ""
	if n := snap.Errors(); n > 0 {
		errs = fmt.Sprintf("   %s%d errors%s", ansiRed, n, ansiReset)
	}
	fmt.Fprintf(p.w(), " %3.0f%%  %s   %s / %s files   eta %s%s%s\n",
		pct*100, ProgressBar(pct, progressBarWidth),
		FormatCount(snap.FilesCopied), FormatCount(snap.FilesTotal),
		FormatETA(stats.ETA()), workers, errs)
	lines++

	p.hudLines = lines
	p.lastDraw = time.Now()
}

func (p *hudPresenter) clearHUD() {
	if p.hudLines == 0 {
		return
	}
	// Cursor up over the HUD, then clear to end of screen.
	fmt.Fprintf(p.w(), "\033[%dA\033[J", p.hudLines)
	p.hudLines = 0
}

func (p *hudPresenter) Summary() string {
	return summary(p.cfg)
}

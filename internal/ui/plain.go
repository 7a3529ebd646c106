package ui

import (
	"fmt"
	"time"
)

const plainProgressInterval = 5 * time.Second

// plainPresenter prints one line per shown task to Writer, failures to
// ErrWriter, and a periodic progress line to ErrWriter unless disabled.
type plainPresenter struct {
	cfg Config
}

func (p *plainPresenter) Run(events <-chan Event) error {
	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()
	progress := time.NewTicker(plainProgressInterval)
	defer progress.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-secTicker.C:
			p.cfg.Stats.Tick()
		case <-progress.C:
			if !p.cfg.NoProgress {
				p.printProgress()
			}
		}
	}
}

func (p *plainPresenter) handleEvent(ev Event) {
	line, show := feedLine(ev, p.cfg.Verbosity)
	if !show {
		return
	}
	if isFailure(ev) {
		fmt.Fprintln(p.cfg.ErrWriter, line)
		return
	}
	fmt.Fprintln(p.cfg.Writer, line)
}

func (p *plainPresenter) printProgress() {
	snap := p.cfg.Stats.Snapshot()
	if snap.BytesTotal > 0 {
		pct := float64(snap.BytesCopied) / float64(snap.BytesTotal) * 100
		fmt.Fprintf(p.cfg.ErrWriter, "progress: %.0f%% %s/%s %s/%s files %s eta %s\n",
			pct,
			FormatBytes(snap.BytesCopied), FormatBytes(snap.BytesTotal),
			FormatCount(snap.FilesCopied), FormatCount(snap.FilesTotal),
			FormatRate(p.cfg.Stats.RollingSpeed(10)),
			FormatETA(p.cfg.Stats.ETA()),
		)
		return
	}
	fmt.Fprintf(p.cfg.ErrWriter, "progress: %s copied %s files\n",
		FormatBytes(snap.BytesCopied), FormatCount(snap.FilesCopied))
}

func (p *plainPresenter) Summary() string {
	return summary(p.cfg)
}

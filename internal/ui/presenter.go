package ui

import (
	"io"

	"github.com/vaeleborne/rcpy/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan Event) error
	// Summary returns the end-of-run report.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer     io.Writer // task lines
	ErrWriter  io.Writer // failures, progress
	Stats      stats.ReadTicker
	SrcRoot    string
	DstRoot    string
	Verbosity  Verbosity
	DryRun     bool
	Workers    int
	IsTTY      bool
	NoProgress bool
}

// NewPresenter picks a presenter for the output mode: a live HUD on a
// terminal, plain lines otherwise, and nothing at all when quiet without
// progress.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	switch {
	case cfg.Verbosity == Quiet && cfg.NoProgress:
		return &quietPresenter{cfg: cfg}
	case !cfg.IsTTY || cfg.NoProgress:
		return &plainPresenter{cfg: cfg}
	default:
		return &hudPresenter{cfg: cfg}
	}
}

// summary is shared by every presenter.
func summary(cfg Config) string {
	return CompletionSummary(cfg.Stats.Snapshot(), cfg.Stats.Errors(), cfg.DryRun)
}

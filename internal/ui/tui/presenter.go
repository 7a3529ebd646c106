package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaeleborne/rcpy/internal/config"
	"github.com/vaeleborne/rcpy/internal/event"
	"github.com/vaeleborne/rcpy/internal/stats"
	"github.com/vaeleborne/rcpy/internal/ui"
)

// Config configures the TUI presenter.
type Config struct {
	Stats     stats.ReadTicker
	Cancel    func() // stops the run when the user quits early
	Workers   int
	SrcRoot   string
	DstRoot   string
	Verbosity ui.Verbosity
	DryRun    bool
	Theme     config.ThemeConfig
}

// Presenter wraps a Bubble Tea program and implements ui.Presenter.
type Presenter struct {
	cfg Config
}

var _ ui.Presenter = (*Presenter)(nil)

// NewPresenter creates a TUI presenter with the configured theme applied.
func NewPresenter(cfg Config) *Presenter {
	ApplyTheme(cfg.Theme)
	return &Presenter{cfg: cfg}
}

// Run starts the Bubble Tea program and blocks until the user quits. Events
// still arriving after an early quit are drained so the engine never blocks.
func (p *Presenter) Run(events <-chan event.Event) error {
	prog := tea.NewProgram(
		NewModel(events, p.cfg),
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)
	_, err := prog.Run()
	for range events { //nolint:revive // drain
	}
	return err
}

// Summary returns the end-of-run report.
func (p *Presenter) Summary() string {
	return ui.CompletionSummary(p.cfg.Stats.Snapshot(), p.cfg.Stats.Errors(), p.cfg.DryRun)
}

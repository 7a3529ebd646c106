package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaeleborne/rcpy/internal/event"
	"github.com/vaeleborne/rcpy/internal/stats"
	"github.com/vaeleborne/rcpy/internal/ui"
)

type viewMode int

const (
	viewFeed viewMode = iota
	viewRate
)

type (
	engineEventMsg event.Event
	channelDoneMsg struct{}
	tickMsg        time.Time
	saveResultMsg  struct {
		path string
		err  error
	}
)

// waitForEvent blocks on the next engine event.
func waitForEvent(ch <-chan event.Event) tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return engineEventMsg(ev)
		}
		return channelDoneMsg{}
	}
}

func everySecond() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the root Bubble Tea model. It only reads the collector; counts
// are never derived from events.
type Model struct {
	events <-chan event.Event
	stats  stats.ReadTicker
	cancel func()

	workers          int
	srcRoot, dstRoot string
	dryRun           bool

	mode          viewMode
	feed          feedView
	rate          rateView
	width, height int

	status    string
	verifying int64 // files queued for verification, 0 when not verifying
	done      bool
	quitting  bool

	snap stats.Snapshot
	eta  time.Duration

	saving bool
	editor lineEditor
}

// NewModel creates a model reading events from the engine.
func NewModel(events <-chan event.Event, cfg Config) Model {
	return Model{
		events:  events,
		stats:   cfg.Stats,
		cancel:  cfg.Cancel,
		workers: max(cfg.Workers, 1),
		srcRoot: cfg.SrcRoot,
		dstRoot: cfg.DstRoot,
		dryRun:  cfg.DryRun,
		feed:    newFeedView(cfg.DstRoot, cfg.Verbosity),
		rate:    newRateView(),
		width:   80,
		height:  24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), everySecond())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.saving {
			return m.editKey(msg)
		}
		return m.commandKey(msg.String())

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case engineEventMsg:
		ev := event.Event(msg)
		m.feed.handleEvent(ev)
		m.rate.handleEvent(ev)
		if ev.Type == event.VerifyStarted {
			m.verifying = ev.Total
		}
		return m, waitForEvent(m.events)

	case channelDoneMsg:
		m.done = true
		m.refresh()
		m.eta = 0

	case tickMsg:
		if m.done {
			return m, nil
		}
		m.stats.Tick()
		m.refresh()
		return m, everySecond()

	case saveResultMsg:
		m.saving = false
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
		} else {
			m.status = "saved to " + msg.path
		}
	}
	return m, nil
}

func (m *Model) refresh() {
	m.snap = m.stats.Snapshot()
	m.eta = m.stats.ETA()
}

func (m Model) commandKey(key string) (tea.Model, tea.Cmd) {
	scroll := map[string]func(){
		"j": m.feed.scrollDown, "down": m.feed.scrollDown,
		"k": m.feed.scrollUp, "up": m.feed.scrollUp,
		"g": m.feed.scrollToTop,
		"G": m.feed.scrollToBottom,
	}
	if fn, ok := scroll[key]; ok {
		if m.mode == viewFeed {
			fn()
		}
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		if !m.done && m.cancel != nil {
			m.cancel() // quitting mid-run interrupts the copy
		}
		m.quitting = true
		return m, tea.Quit
	case "r":
		m.mode, m.status = viewRate, ""
	case "f":
		m.mode, m.status = viewFeed, ""
	case "s":
		if m.done {
			m.saving = true
			m.editor = newLineEditor(defaultReportName(time.Now()))
			m.status = ""
		}
	}
	return m, nil
}

func (m Model) editKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.saving, m.status = false, ""
	case tea.KeyEnter:
		return m, m.saveReport(m.editor.String())
	case tea.KeyBackspace:
		m.editor.deleteBack()
	case tea.KeyLeft:
		m.editor.left()
	case tea.KeyRight:
		m.editor.right()
	case tea.KeyRunes, tea.KeySpace:
		m.editor.insert(msg.Runes...)
	}
	return m, nil
}

// saveReport writes the run report off the update loop.
func (m Model) saveReport(path string) tea.Cmd {
	r := report{
		srcRoot:  m.srcRoot,
		dstRoot:  m.dstRoot,
		finished: time.Now(),
		snap:     m.snap,
		errs:     m.stats.Errors(),
		dryRun:   m.dryRun,
		tasks:    append([]completedEntry(nil), m.feed.completed...),
	}
	return func() tea.Msg {
		err := os.WriteFile(path, []byte(r.String()), 0o644) //nolint:gosec // user-chosen report path
		return saveResultMsg{path: path, err: err}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.header() + "\n")

	switch m.mode {
	case viewFeed:
		b.WriteString(m.feed.view(max(m.height-3, 3))) // header, status, footer
	case viewRate:
		b.WriteString(m.rate.view(m.width, m.snap, m.stats, m.workers))
	}

	switch {
	case m.saving:
		b.WriteString(m.editor.view("Save to: "))
	case m.status != "":
		b.WriteString(styleStatus.Render("  " + m.status))
	}
	b.WriteString("\n" + m.footer())
	return b.String()
}

func (m Model) header() string {
	s := m.snap
	label := styleHeaderLabel.Render("rcpy")
	if m.dryRun {
		label += " " + styleStatus.Render("dry run")
	}
	var errs string
	if n := s.Errors(); n > 0 {
		errs = "  " + styleError.Render(fmt.Sprintf("%d errors", n))
	}

	if m.done {
		line := fmt.Sprintf("  %s  %s  %s  %s / %s files  %s", label, styleIconDone.Render("done"),
			ui.FormatBytes(s.BytesCopied), ui.FormatCount(s.FilesCopied), ui.FormatCount(s.FilesTotal),
			ui.FormatDuration(s.Elapsed))
		return styleHeader.Render(line) + errs
	}

	frac := 0.0
	if s.BytesTotal > 0 {
		frac = float64(s.BytesCopied) / float64(s.BytesTotal)
	}
	stage := "eta " + ui.FormatETA(m.eta)
	if m.verifying > 0 {
		stage = fmt.Sprintf("verifying %s / %s",
			ui.FormatCount(s.FilesVerified+s.VerifyFailed), ui.FormatCount(m.verifying))
	}
	line := fmt.Sprintf("  %s  %3.0f%%  %s  %s / %s  %s / %s files  %s  %dw", label, frac*100,
		styleProgressFilled.Render(ui.ProgressBar(frac, 10)),
		ui.FormatBytes(s.BytesCopied), ui.FormatBytes(s.BytesTotal),
		ui.FormatCount(s.FilesCopied), ui.FormatCount(s.FilesTotal),
		stage, m.workers)
	return styleHeader.Render(line) + errs
}

var (
	runningKeys = [][2]string{{"q", "stop"}, {"r", "rate"}, {"f", "feed"}, {"j/k", "scroll"}}
	doneKeys    = [][2]string{{"s", "save"}, {"j/k", "scroll"}, {"r", "rate"}, {"f", "feed"}, {"q", "quit"}}
)

func (m Model) footer() string {
	keys := runningKeys
	if m.done {
		keys = doneKeys
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = styleKeybindKey.Render(k[0]) + " " + styleKeybindLabel.Render(k[1])
	}
	return "  " + strings.Join(parts, "   ")
}

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vaeleborne/rcpy/internal/config"
)

// Palette defaults; ApplyTheme overrides them from the config file.
var (
	ColorAccent  = lipgloss.Color("#89b4fa")
	ColorSuccess = lipgloss.Color("#a6e3a1")
	ColorFailure = lipgloss.Color("#f38ba8")
	ColorMuted   = lipgloss.Color("#5a6278")
	ColorBright  = lipgloss.Color("#cdd6f4")
)

// Styles derived from the palette. rebuildStyles reassigns all of them.
var (
	styleHeader, styleHeaderLabel, styleStatus, styleDivider   lipgloss.Style
	styleIconDone, styleIconFailed, styleError, styleErrorPath lipgloss.Style
	styleFilePath, styleFileDir, styleFileSize, styleInFlight  lipgloss.Style
	styleKeybindKey, styleKeybindLabel                         lipgloss.Style
	styleBigNumber, styleSparkline, styleProgressFilled        lipgloss.Style
	styleWorkerBusy, styleWorkerIdle                           lipgloss.Style
	styleSavePrompt, styleSaveInput                            lipgloss.Style
)

func init() { rebuildStyles() }

func rebuildStyles() {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	accent, bright, muted := fg(ColorAccent), fg(ColorBright), fg(ColorMuted)
	success, failure := fg(ColorSuccess), fg(ColorFailure)

	styleHeader, styleHeaderLabel = bright.Bold(true), accent.Bold(true)
	styleStatus, styleDivider = accent.Italic(true), muted

	styleIconDone, styleIconFailed = success, failure
	styleError, styleErrorPath = failure, failure.Bold(true)

	styleFilePath, styleFileDir, styleFileSize = bright, muted, muted
	styleInFlight = accent

	styleKeybindKey, styleKeybindLabel = accent.Bold(true), muted
	styleBigNumber, styleSparkline, styleProgressFilled = success.Bold(true), accent, success
	styleWorkerBusy, styleWorkerIdle = accent, muted
	styleSavePrompt, styleSaveInput = muted, bright
}

// ApplyTheme overrides colors from the config file and rebuilds all styles.
func ApplyTheme(tc config.ThemeConfig) {
	set := func(dst *lipgloss.Color, v *string) {
		if v != nil && *v != "" {
			*dst = lipgloss.Color(*v)
		}
	}
	set(&ColorAccent, tc.Accent)
	set(&ColorSuccess, tc.Success)
	set(&ColorFailure, tc.Failure)
	set(&ColorMuted, tc.Muted)
	set(&ColorBright, tc.Bright)
	rebuildStyles()
}

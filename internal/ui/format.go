package ui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var rateUnits = []string{"B/s", "KiB/s", "MiB/s", "GiB/s", "TiB/s"}

// FormatRate formats a bytes-per-second rate with three significant digits.
func FormatRate(bytesPerSec float64) string {
	if bytesPerSec <= 0 {
		return "0 B/s"
	}
	val := bytesPerSec
	for i, u := range rateUnits {
		if val < 1024 || i == len(rateUnits)-1 {
			switch {
			case i == 0:
				return fmt.Sprintf("%.0f %s", val, u)
			case val < 10:
				return fmt.Sprintf("%.2f %s", val, u)
			case val < 100:
				return fmt.Sprintf("%.1f %s", val, u)
			default:
				return fmt.Sprintf("%.0f %s", val, u)
			}
		}
		val /= 1024
	}
	return ""
}

// FormatETA formats a remaining-time estimate; unknown is "--".
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return "--"
	}
	return clock(d.Round(time.Second))
}

// FormatDuration formats elapsed time. Runs shorter than a minute keep
// hundredths of a second.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return clock(d.Round(time.Second))
}

func clock(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatCount formats an integer with comma separators.
func FormatCount(n int64) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(s[:head])
	for i := head; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// ProgressBar renders pct (0..1, clamped) as width ▪/□ cells.
func ProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = min(max(pct, 0), 1)
	filled := min(int(pct*float64(width)), width)
	return strings.Repeat("▪", filled) + strings.Repeat("□", width-filled)
}

// WorkerIndicator renders one cell per worker, busy ones filled.
func WorkerIndicator(busy, total int) string {
	busy = min(max(busy, 0), total)
	return strings.Repeat("▪", busy) + strings.Repeat("□", total-busy)
}

// FormatBytes formats a byte count in binary units with one decimal.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// StripRoot returns path relative to root when it lies beneath it, and
// path unchanged otherwise.
func StripRoot(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

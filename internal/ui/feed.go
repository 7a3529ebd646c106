package ui

import (
	"fmt"

	"github.com/vaeleborne/rcpy/internal/event"
)

// feedLine formats the per-task line for ev, or reports false when v hides
// it. Failures are never hidden.
func feedLine(ev Event, v Verbosity) (string, bool) {
	switch ev.Type {
	case event.DirCreated:
		return "[DIR] " + ev.DstPath, v.ShowDirs()
	case event.FileCopied:
		return fmt.Sprintf("[FILE] %s -> %s", ev.Path, ev.DstPath), v.ShowFiles()
	case event.TaskFailed, event.VerifyFailed:
		return "[ERR] " + ev.Path + ": " + errText(ev.Error), true
	case event.VerifyStarted:
		return fmt.Sprintf("verifying %s files...", FormatCount(ev.Total)), v != Quiet
	default:
		return "", false
	}
}

func errText(err error) string {
	if err == nil {
		return "error"
	}
	return err.Error()
}

// isFailure reports whether ev belongs on the error stream.
func isFailure(ev Event) bool {
	return ev.Type == event.TaskFailed || ev.Type == event.VerifyFailed
}

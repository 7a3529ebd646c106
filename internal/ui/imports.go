package ui

import "github.com/vaeleborne/rcpy/internal/event"

// Event is the engine's per-task notification.
type Event = event.Event

// Re-export event types for convenience.
const (
	WalkStarted   = event.WalkStarted
	WalkComplete  = event.WalkComplete
	DirCreated    = event.DirCreated
	FileStarted   = event.FileStarted
	FileCopied    = event.FileCopied
	TaskFailed    = event.TaskFailed
	VerifyStarted = event.VerifyStarted
	VerifyOK      = event.VerifyOK
	VerifyFailed  = event.VerifyFailed
)

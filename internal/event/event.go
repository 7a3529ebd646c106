package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	WalkStarted Type = iota + 1
	WalkComplete
	DirCreated
	FileStarted
	FileCopied
	TaskFailed
	VerifyStarted
	VerifyOK
	VerifyFailed
)

var typeNames = [...]string{
	WalkStarted:   "WalkStarted",
	WalkComplete:  "WalkComplete",
	DirCreated:    "DirCreated",
	FileStarted:   "FileStarted",
	FileCopied:    "FileCopied",
	TaskFailed:    "TaskFailed",
	VerifyStarted: "VerifyStarted",
	VerifyOK:      "VerifyOK",
	VerifyFailed:  "VerifyFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event is a single per-task notification from the engine. Events are
// informational; the collector remains the source of truth for counts.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // source path
	DstPath   string // destination path
	Size      int64  // file size
	Total     int64  // files found (WalkComplete)
	TotalSize int64  // bytes found (WalkComplete)
	Error     error
	WorkerID  int
	IsDir     bool // TaskFailed on a directory
	DryRun    bool
}

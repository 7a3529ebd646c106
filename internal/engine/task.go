package engine

import "os"

// TaskKind identifies what a CopyTask does.
type TaskKind int

const (
	KindDir TaskKind = iota + 1
	KindFile
)

func (k TaskKind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// CopyTask describes a single unit of work: create one directory or copy
// one file. Tasks are produced by the Walker and executed exactly once.
type CopyTask struct {
	SrcPath string
	DstPath string
	RelPath string // relative to the source root; "." for the root itself
	Size    int64  // files only, as seen by the walk
	Mode    os.FileMode
	Kind    TaskKind
}

// IsDir reports whether the task creates a directory.
func (t CopyTask) IsDir() bool { return t.Kind == KindDir }

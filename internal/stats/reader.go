package stats

import "time"

// Reader is the read-only view presenters use.
type Reader interface {
	Snapshot() Snapshot
	Errors() []TaskError
	RollingSpeed(seconds int) float64
	RollingFilesPerSec(seconds int) float64
	SparklineData(n int) []float64
	ETA() time.Duration
}

// ReadTicker is a Reader that also owns the once-per-second sampling.
type ReadTicker interface {
	Reader
	Tick()
}

// Recorder is the write side the engine uses.
type Recorder interface {
	AddFilesTotal(n int64)
	AddBytesTotal(n int64)
	AddFilesExcluded(n int64)
	AddTasksDispatched(n int64)
	AddDirsCreated(n int64)
	AddFileCopied(size int64)
	AddFilesVerified(n int64)
	RecordError(path string, kind ErrorKind, err error)
}

var (
	_ ReadTicker = (*Collector)(nil)
	_ Recorder   = (*Collector)(nil)
)

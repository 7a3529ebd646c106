package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const ringSize = 60

// ErrorKind classifies a recorded failure.
type ErrorKind int

const (
	// Traversal: a source directory could not be enumerated.
	Traversal ErrorKind = iota + 1
	// Create: a destination directory could not be created.
	Create
	// Copy: a file could not be copied.
	Copy
	// Verify: a copied file did not match its source checksum.
	Verify
)

var kindNames = [...]string{
	Traversal: "traversal",
	Create:    "create",
	Copy:      "copy",
	Verify:    "verify",
}

func (k ErrorKind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// TaskError records one non-fatal failure.
type TaskError struct {
	Path string // source path of the failing task
	Kind ErrorKind
	Err  error
}

func (e TaskError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e TaskError) Unwrap() error { return e.Err }

// Collector is the run's progress state. Counters are lock-free atomics.
//
// gate is used in inverted mode: writers that touch several counters at
// once hold the shared (read) side, so they never wait on each other, and
// Snapshot holds the exclusive side for the duration of its loads. A
// snapshot therefore never observes a file counted without its bytes.
type Collector struct {
	gate sync.RWMutex

	filesCopied     atomic.Int64
	dirsCreated     atomic.Int64
	bytesCopied     atomic.Int64
	filesExcluded   atomic.Int64
	tasksDispatched atomic.Int64
	taskErrors      atomic.Int64
	traversalErrors atomic.Int64
	filesVerified   atomic.Int64
	verifyFailed    atomic.Int64
	filesTotal      atomic.Int64
	bytesTotal      atomic.Int64

	startTime time.Time
	endNanos  atomic.Int64 // set by Finish

	errMu  sync.Mutex
	errors []TaskError

	// Ring buffer, written only by the presenter's Tick().
	mu          sync.Mutex
	throughput  [ringSize]int64 // bytes delta per second
	filesPerSec [ringSize]int64 // files delta per second
	ringIdx     int
	ringCount   int
	lastBytes   int64
	lastFiles   int64
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesCopied     int64
	DirsCreated     int64
	BytesCopied     int64
	FilesExcluded   int64
	TasksDispatched int64
	TaskErrors      int64 // create + copy failures
	TraversalErrors int64
	FilesVerified   int64
	VerifyFailed    int64
	FilesTotal      int64 // files found by the walk so far
	BytesTotal      int64
	Elapsed         time.Duration
}

// AddFilesTotal increments the walk's file count.
func (c *Collector) AddFilesTotal(n int64) { c.filesTotal.Add(n) }

// AddBytesTotal increments the walk's byte count.
func (c *Collector) AddBytesTotal(n int64) { c.bytesTotal.Add(n) }

func (c *Collector) AddDirsCreated(n int64)     { c.shared(func() { c.dirsCreated.Add(n) }) }
func (c *Collector) AddFilesExcluded(n int64)   { c.filesExcluded.Add(n) }
func (c *Collector) AddTasksDispatched(n int64) { c.tasksDispatched.Add(n) }
func (c *Collector) AddFilesVerified(n int64)   { c.filesVerified.Add(n) }

// AddFileCopied counts one copied file and its bytes as a single update.
func (c *Collector) AddFileCopied(size int64) {
	c.shared(func() {
		c.filesCopied.Add(1)
		c.bytesCopied.Add(size)
	})
}

// RecordError appends a failure to the error log and bumps the counter
// for its kind.
func (c *Collector) RecordError(path string, kind ErrorKind, err error) {
	c.shared(func() {
		c.errMu.Lock()
		c.errors = append(c.errors, TaskError{Path: path, Kind: kind, Err: err})
		c.errMu.Unlock()

		switch kind {
		case Traversal:
			c.traversalErrors.Add(1)
		case Verify:
			c.verifyFailed.Add(1)
		default:
			c.taskErrors.Add(1)
		}
	})
}

// Errors returns a copy of the error log in append order.
func (c *Collector) Errors() []TaskError {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	out := make([]TaskError, len(c.errors))
	copy(out, c.errors)
	return out
}

func (c *Collector) shared(fn func()) {
	c.gate.RLock()
	fn()
	c.gate.RUnlock()
}

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	c.gate.Lock()
	s := Snapshot{
		FilesCopied:     c.filesCopied.Load(),
		DirsCreated:     c.dirsCreated.Load(),
		BytesCopied:     c.bytesCopied.Load(),
		FilesExcluded:   c.filesExcluded.Load(),
		TasksDispatched: c.tasksDispatched.Load(),
		TaskErrors:      c.taskErrors.Load(),
		TraversalErrors: c.traversalErrors.Load(),
		FilesVerified:   c.filesVerified.Load(),
		VerifyFailed:    c.verifyFailed.Load(),
		FilesTotal:      c.filesTotal.Load(),
		BytesTotal:      c.bytesTotal.Load(),
	}
	c.gate.Unlock()
	s.Elapsed = c.Elapsed()
	return s
}

// Finish freezes the elapsed time. Later calls are no-ops.
func (c *Collector) Finish() {
	c.endNanos.CompareAndSwap(0, time.Now().UnixNano())
}

// Elapsed returns time since collector creation, or the run duration once
// Finish has been called.
func (c *Collector) Elapsed() time.Duration {
	if c.startTime.IsZero() {
		return 0
	}
	if end := c.endNanos.Load(); end != 0 {
		return time.Unix(0, end).Sub(c.startTime)
	}
	return time.Since(c.startTime)
}

// Tick snapshots byte/file deltas into the ring buffer. Called 1/sec by the presenter.
func (c *Collector) Tick() {
	currentBytes := c.bytesCopied.Load()
	currentFiles := c.filesCopied.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.throughput[c.ringIdx] = currentBytes - c.lastBytes
	c.filesPerSec[c.ringIdx] = currentFiles - c.lastFiles
	c.lastBytes = currentBytes
	c.lastFiles = currentFiles

	c.ringIdx = (c.ringIdx + 1) % ringSize
	if c.ringCount < ringSize {
		c.ringCount++
	}
}

// RollingSpeed returns average bytes/sec over the last n seconds of samples.
func (c *Collector) RollingSpeed(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollingAvg(c.throughput[:], seconds)
}

// RollingFilesPerSec returns average files/sec over the last n seconds.
func (c *Collector) RollingFilesPerSec(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollingAvg(c.filesPerSec[:], seconds)
}

func (c *Collector) rollingAvg(buf []int64, n int) float64 {
	count := min(n, c.ringCount)
	if count <= 0 {
		return 0
	}
	var sum int64
	for i := range count {
		sum += buf[(c.ringIdx-1-i+ringSize)%ringSize]
	}
	return float64(sum) / float64(count)
}

// SparklineData returns the last n bytes/sec samples, oldest first.
func (c *Collector) SparklineData(n int) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := min(n, c.ringCount)
	if count <= 0 {
		return nil
	}
	data := make([]float64, count)
	for i := range count {
		data[i] = float64(c.throughput[(c.ringIdx-count+i+ringSize)%ringSize])
	}
	return data
}

// ETA estimates remaining time from the rolling speed and the bytes the
// walk has found but not yet copied.
func (c *Collector) ETA() time.Duration {
	speed := c.RollingSpeed(10)
	if speed <= 0 {
		return 0
	}
	remaining := c.bytesTotal.Load() - c.bytesCopied.Load()
	if remaining <= 0 {
		return 0
	}
	return time.Duration(float64(remaining)/speed) * time.Second
}

// Errors is the total number of recorded failures of every kind.
func (s Snapshot) Errors() int64 {
	return s.TaskErrors + s.TraversalErrors + s.VerifyFailed
}

// Conserved reports whether every dispatched task has exactly one outcome.
// Only meaningful once the run has drained.
func (s Snapshot) Conserved() bool {
	return s.FilesCopied+s.DirsCreated+s.TaskErrors == s.TasksDispatched
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"files=%d dirs=%d bytes=%d excluded=%d dispatched=%d errors=%d traversal=%d verified=%d mismatched=%d",
		s.FilesCopied, s.DirsCreated, s.BytesCopied, s.FilesExcluded,
		s.TasksDispatched, s.TaskErrors, s.TraversalErrors,
		s.FilesVerified, s.VerifyFailed,
	)
}

package platform

import (
	"io"
	"os"
	"sync"
)

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// copyReadWrite streams src into dst through a pooled buffer.
func copyReadWrite(dst, src *os.File) (CopyResult, error) {
	n, err := CopyBuffered(dst, src)
	return CopyResult{BytesWritten: n, Method: ReadWrite}, err
}

// CopyBuffered is io.Copy with a pooled 1 MiB buffer. The wrapper types
// hide ReaderFrom/WriterTo so the buffer is always used, which lets
// callers interpose rate-limited readers.
func CopyBuffered(dst io.Writer, src io.Reader) (int64, error) {
	bufp := bufPool.Get().(*[]byte) //nolint:errcheck,forcetypeassert // pool only holds *[]byte
	defer bufPool.Put(bufp)
	return io.CopyBuffer(struct{ io.Writer }{dst}, struct{ io.Reader }{src}, *bufp)
}

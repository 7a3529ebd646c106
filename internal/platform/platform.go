// Package platform moves file bytes using the fastest mechanism the
// operating system offers.
package platform

import "os"

// CopyMethod identifies which syscall/strategy was used for a copy.
type CopyMethod int

const (
	ReadWrite     CopyMethod = iota
	CopyFileRange            // Linux copy_file_range(2)
	Sendfile                 // Linux sendfile(2)
)

func (m CopyMethod) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case CopyFileRange:
		return "copy_file_range"
	case Sendfile:
		return "sendfile"
	default:
		return "unknown"
	}
}

// CopyResult reports the outcome of a copy operation.
type CopyResult struct {
	BytesWritten int64
	Method       CopyMethod
}

// CopyFile copies everything readable from src into dst, starting at both
// files' current offsets. sizeHint is the expected length and is used only
// to preallocate; copying always runs to EOF.
func CopyFile(dst, src *os.File, sizeHint int64) (CopyResult, error) {
	if sizeHint > 0 {
		preallocate(dst, sizeHint)
	}
	res, err := copyFast(dst, src)
	if err != nil {
		return res, err
	}
	// Preallocation may have extended dst past a source that shrank.
	if sizeHint > res.BytesWritten {
		if err := dst.Truncate(res.BytesWritten); err != nil {
			return res, err
		}
	}
	return res, nil
}

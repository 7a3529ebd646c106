//go:build linux

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// maxChunk bounds a single copy_file_range/sendfile request.
const maxChunk = 1 << 30

// copyFast tries copy_file_range, then sendfile, then read/write. A
// strategy is abandoned only if it failed before moving any bytes with an
// error that means "not supported here".
func copyFast(dst, src *os.File) (CopyResult, error) {
	strategies := []struct {
		method CopyMethod
		fn     func(dstFd, srcFd int) (int, error)
	}{
		{CopyFileRange, func(dstFd, srcFd int) (int, error) {
			return unix.CopyFileRange(srcFd, nil, dstFd, nil, maxChunk, 0)
		}},
		{Sendfile, func(dstFd, srcFd int) (int, error) {
			return unix.Sendfile(dstFd, srcFd, nil, maxChunk)
		}},
	}

	//nolint:gosec // G115: fd values are small non-negative integers
	dstFd, srcFd := int(dst.Fd()), int(src.Fd())
	for _, s := range strategies {
		var total int64
		for {
			n, err := s.fn(dstFd, srcFd)
			if err != nil {
				if errors.Is(err, unix.EINTR) {
					continue
				}
				if total == 0 && isFallbackErr(err) {
					break
				}
				return CopyResult{BytesWritten: total, Method: s.method}, err
			}
			if n == 0 {
				return CopyResult{BytesWritten: total, Method: s.method}, nil
			}
			total += int64(n)
		}
	}

	return copyReadWrite(dst, src)
}

// isFallbackErr reports whether err means the strategy is unavailable for
// this pair of files rather than a real I/O failure.
func isFallbackErr(err error) bool {
	for _, e := range []error{unix.ENOSYS, unix.EXDEV, unix.EINVAL, unix.ENOTSUP, unix.EOPNOTSUPP, unix.EBADF} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

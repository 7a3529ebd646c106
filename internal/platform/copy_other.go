//go:build !linux

package platform

import "os"

func copyFast(dst, src *os.File) (CopyResult, error) {
	return copyReadWrite(dst, src)
}

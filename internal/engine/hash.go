package engine

import (
	"encoding/hex"
	"os"

	"github.com/zeebo/blake3"

	"github.com/vaeleborne/rcpy/internal/platform"
)

// HashFile returns the hex BLAKE3-256 digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	if _, err := platform.CopyBuffered(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// sizeUnits maps accepted suffixes to their multiplier. All units are
// binary: "1M", "1MB" and "1MiB" all mean 1048576 bytes.
var sizeUnits = []struct {
	suffix string
	mult   float64
}{
	// Longest suffixes first so "MIB" is not read as "B".
	{"KIB", 1 << 10}, {"MIB", 1 << 20}, {"GIB", 1 << 30}, {"TIB", 1 << 40},
	{"KB", 1 << 10}, {"MB", 1 << 20}, {"GB", 1 << 30}, {"TB", 1 << 40},
	{"K", 1 << 10}, {"M", 1 << 20}, {"G", 1 << 30}, {"T", 1 << 40},
	{"B", 1},
}

// ParseSize parses a human-readable size such as "512", "100K", "1.5G" or
// "100MB" into a byte count. Suffixes are case-insensitive.
func ParseSize(s string) (int64, error) {
	raw := s
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	mult := 1.0
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u.suffix) {
			mult = u.mult
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}
	if s == "" {
		return 0, fmt.Errorf("invalid size %q: missing number", raw)
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("invalid size %q: negative", raw)
		}
		return n * int64(mult), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid size %q", raw)
	}
	if f < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", raw)
	}
	return int64(f * mult), nil
}

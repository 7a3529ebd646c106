package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFile reads excluded extensions from a file and adds them to the set.
// Format:
//
//	psd        → one extension per line
//	.tmp, bak  → commas separate several extensions
//	# comment  → skipped
//	blank line → skipped
func (s *ExclusionSet) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open exclude file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, ext := range SplitList(line) {
			if strings.ContainsAny(ext, `/\ `) {
				return fmt.Errorf("%s:%d: invalid extension %q", path, lineNum, ext)
			}
			s.Add(ext)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read exclude file: %w", err)
	}
	return nil
}

// SplitList splits a comma-separated flag value into trimmed, non-empty parts.
func SplitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

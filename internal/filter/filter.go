package filter

import (
	"sort"
	"strings"
)

// ExclusionSet is a set of file extensions that are never copied.
// Extensions are stored lowercase and without a leading dot.
// The zero value is an empty set that includes every file.
type ExclusionSet struct {
	exts map[string]struct{}
}

// NewExclusionSet creates a set from the given extensions. Values are
// normalized, so "PSD", ".psd" and "psd" are the same entry.
func NewExclusionSet(exts ...string) ExclusionSet {
	s := ExclusionSet{exts: make(map[string]struct{}, len(exts))}
	for _, e := range exts {
		s.Add(e)
	}
	return s
}

// Add inserts one extension. Blank values are ignored.
func (s *ExclusionSet) Add(ext string) {
	ext = normalize(ext)
	if ext == "" {
		return
	}
	if s.exts == nil {
		s.exts = make(map[string]struct{})
	}
	s.exts[ext] = struct{}{}
}

// Len returns the number of excluded extensions.
func (s ExclusionSet) Len() int { return len(s.exts) }

// Included reports whether a file with the given name should be copied.
// Only the base name's last dot-delimited suffix is compared, case-insensitively.
// Files without an extension are always included.
func (s ExclusionSet) Included(name string) bool {
	if len(s.exts) == 0 {
		return true
	}
	ext := Extension(name)
	if ext == "" {
		return true
	}
	_, excluded := s.exts[strings.ToLower(ext)]
	return !excluded
}

// Extensions returns the sorted set members.
func (s ExclusionSet) Extensions() []string {
	out := make([]string, 0, len(s.exts))
	for e := range s.exts {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

func (s ExclusionSet) String() string {
	return strings.Join(s.Extensions(), ",")
}

// Extension returns the extension of the base name of path without the dot.
// A dot at the start of the name does not begin an extension (".bashrc"
// has none, "..hidden" has "hidden"), and a trailing dot yields none.
// "a.tar.gz" yields "gz".
func Extension(path string) string {
	name := path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i+1:]
}

func normalize(ext string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(ext), "."))
}

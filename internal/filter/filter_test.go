package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptySetIncludesAll(t *testing.T) {
	var s ExclusionSet
	assert.True(t, s.Included("file.txt"))
	assert.True(t, s.Included("Makefile"))
	assert.Equal(t, 0, s.Len())
}

func TestExcludeByExtension(t *testing.T) {
	s := NewExclusionSet("tmp")

	assert.False(t, s.Included("file2.tmp"))
	assert.False(t, s.Included("a/sub/file2.tmp"))
	assert.True(t, s.Included("file1.txt"))
}

func TestExcludeCaseInsensitive(t *testing.T) {
	s := NewExclusionSet(".PSD")

	assert.Equal(t, []string{"psd"}, s.Extensions())
	assert.False(t, s.Included("Poster.psd"))
	assert.False(t, s.Included("poster.PsD"))
}

func TestExcludeLastSegmentOnly(t *testing.T) {
	s := NewExclusionSet("tar")

	// Only the last suffix counts.
	assert.True(t, s.Included("backup.tar.gz"))
	assert.False(t, s.Included("backup.gz.tar"))
}

func TestExcludeDoubleDotName(t *testing.T) {
	s := NewExclusionSet("hidden")

	assert.False(t, s.Included("..hidden"))
	assert.True(t, s.Included(".hidden"))
}

func TestNoExtensionAlwaysIncluded(t *testing.T) {
	s := NewExclusionSet("bashrc", "", "  ")

	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Included(".bashrc"))
	assert.True(t, s.Included("README"))
	assert.True(t, s.Included("notes."))
}

func TestExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"file.txt", "txt"},
		{"dir.d/file", ""},
		{"a.tar.gz", "gz"},
		{".bashrc", ""},
		{"..hidden", "hidden"},
		{"..", ""},
		{".config.yaml", "yaml"},
		{"trailing.", ""},
		{`C:\tmp\x.LOG`, "LOG"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Extension(tt.in))
		})
	}
}

func TestString(t *testing.T) {
	s := NewExclusionSet("tmp", "bak")
	assert.Equal(t, "bak,tmp", s.String())
}

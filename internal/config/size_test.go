package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"0", 0},
		{"512", 512},
		{"512B", 512},
		{"64k", 65536},
		{"100K", 102400},
		{"1M", 1048576},
		{"100MB", 104857600},
		{"2MiB", 2097152},
		{"1G", 1073741824},
		{"1.5G", 1610612736},
		{" 1T ", 1099511627776},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSizeErrors(t *testing.T) {
	for _, input := range []string{"", "  ", "M", "fast", "-5M", "1.2.3K"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSize(input)
			assert.Error(t, err)
		})
	}
}

package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	kib = 1024
	mib = kib * 1024
	tib = mib * 1024 * 1024
)

func TestFormatRate(t *testing.T) {
	cases := map[string]float64{
		"0 B/s":      -3,
		"1023 B/s":   1023,
		"3.00 KiB/s": 3 * kib,
		"42.0 MiB/s": 42 * mib,
		"640 MiB/s":  640 * mib,
		"5.00 TiB/s": 5 * tib,
	}
	for want, in := range cases {
		assert.Equal(t, want, FormatRate(in), "rate %v", in)
	}
}

func TestFormatETA(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{-5 * time.Second, "--"},
		{0, "--"},
		{1500 * time.Millisecond, "2s"},
		{61 * time.Second, "1m 01s"},
		{2 * time.Hour, "2h 00m 00s"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatETA(c.in), "eta %s", c.in)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0.00s", FormatDuration(0))
	assert.Equal(t, "1.23s", FormatDuration(1234*time.Millisecond), "sub-minute runs keep hundredths")
	assert.Equal(t, "2m 05s", FormatDuration(125*time.Second))
	assert.Equal(t, "26h 00m 00s", FormatDuration(26*time.Hour))
}

func TestFormatCount(t *testing.T) {
	cases := map[int64]string{
		0:          "0",
		7:          "7",
		123:        "123",
		1234:       "1,234",
		48917:      "48,917",
		123456:     "123,456",
		9876543210: "9,876,543,210",
		-48917:     "-48,917",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCount(in))
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", FormatBytes(0))
	assert.Equal(t, "1023 B", FormatBytes(1023))
	assert.Equal(t, "1.5 KiB", FormatBytes(1536))
	assert.Equal(t, "42.0 MiB", FormatBytes(42*mib))
	assert.Equal(t, "5.0 TiB", FormatBytes(5*tib))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "▪▪□□□□□□", ProgressBar(0.25, 8))
	assert.Equal(t, "▪▪▪□", ProgressBar(0.99, 4), "partial cells round down")
	assert.Equal(t, "□□□", ProgressBar(-1, 3))
	assert.Equal(t, "▪▪▪", ProgressBar(2, 3))
	assert.Empty(t, ProgressBar(0.5, 0))
	assert.Empty(t, ProgressBar(0.5, -1))
}

func TestWorkerIndicator(t *testing.T) {
	assert.Equal(t, "▪□□", WorkerIndicator(1, 3))
	assert.Equal(t, "□□", WorkerIndicator(-2, 2))
	assert.Equal(t, "▪▪▪", WorkerIndicator(5, 3), "busy is capped at total")
}

func TestStripRoot(t *testing.T) {
	assert.Equal(t, "a/b.txt", StripRoot("/dst", "/dst/a/b.txt"))
	assert.Equal(t, ".", StripRoot("/dst", "/dst"))
	assert.Equal(t, "/dst2/x", StripRoot("/dst", "/dst2/x"))
	assert.Equal(t, "/other", StripRoot("", "/other"))
}

package engine

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBWLimiter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rate  int64
		burst int
	}{
		{"slow rate caps burst", 1024, 1024},
		{"fast rate caps at 1MiB", 10 << 20, 1 << 20},
		{"tiny rate keeps burst positive", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.burst, NewBWLimiter(tt.rate).Burst())
		})
	}
}

func TestLimitedReader(t *testing.T) {
	t.Parallel()

	t.Run("reads all data", func(t *testing.T) {
		t.Parallel()
		data := bytes.Repeat([]byte("x"), 4096)
		rl := newLimitedReader(context.Background(), bytes.NewReader(data), NewBWLimiter(1<<20))

		got, err := io.ReadAll(rl)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("reads never exceed burst", func(t *testing.T) {
		t.Parallel()
		data := bytes.Repeat([]byte("y"), 8192)
		rl := newLimitedReader(context.Background(), bytes.NewReader(data), NewBWLimiter(2048))

		buf := make([]byte, len(data))
		n, err := rl.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, 2048, n)
	})

	t.Run("enforces rate limit", func(t *testing.T) {
		t.Parallel()
		// 10 KiB at 5 KiB/s: the burst covers the first half, the rest waits ~1s.
		data := bytes.Repeat([]byte("a"), 10*1024)
		rl := newLimitedReader(context.Background(), bytes.NewReader(data), NewBWLimiter(5*1024))

		start := time.Now()
		got, err := io.ReadAll(rl)
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Len(t, got, len(data))
		assert.Greater(t, elapsed, 500*time.Millisecond)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()
		data := bytes.Repeat([]byte("b"), 1<<20)
		ctx, cancel := context.WithCancel(context.Background())
		rl := newLimitedReader(ctx, bytes.NewReader(data), NewBWLimiter(1024))
		cancel()

		buf := make([]byte, 4096)
		for range 100 {
			if _, err := rl.Read(buf); err != nil {
				assert.ErrorIs(t, err, context.Canceled)
				return
			}
		}
		t.Fatal("expected context cancellation error")
	})
}

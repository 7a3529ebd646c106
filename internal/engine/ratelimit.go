package engine

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// NewBWLimiter returns a limiter capping aggregate throughput at
// bytesPerSec, shared by every worker. The burst never exceeds one copy
// buffer so a single read cannot overdraw the bucket.
func NewBWLimiter(bytesPerSec int64) *rate.Limiter {
	const maxBurst = 1 << 20
	burst := int(min(bytesPerSec, maxBurst))
	return rate.NewLimiter(rate.Limit(bytesPerSec), max(burst, 1))
}

// limitedReader throttles reads from r through a shared limiter.
type limitedReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func newLimitedReader(ctx context.Context, r io.Reader, limiter *rate.Limiter) io.Reader {
	return &limitedReader{ctx: ctx, r: r, limiter: limiter}
}

func (l *limitedReader) Read(p []byte) (int, error) {
	// Never ask for more than the bucket can ever hold.
	if b := l.limiter.Burst(); len(p) > b {
		p = p[:b]
	}
	n, err := l.r.Read(p)
	if n > 0 {
		if werr := l.limiter.WaitN(l.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vaeleborne/rcpy/internal/event"
	"github.com/vaeleborne/rcpy/internal/filter"
	"github.com/vaeleborne/rcpy/internal/stats"
)

// VerifyConfig controls the post-copy verification pass.
type VerifyConfig struct {
	SrcRoot   string
	DstRoot   string
	Recursive bool
	Workers   int
	Exclude   filter.ExclusionSet
	Events    chan<- event.Event
	Stats     stats.Recorder
}

// VerifyResult holds the outcome of a verification pass.
type VerifyResult struct {
	Verified int64
	Failed   int64
}

type verifyPair struct {
	src, dst string
}

// Verify walks the destination tree and compares BLAKE3 checksums with the
// source for every regular file that the copy would have produced.
// Mismatches and unreadable files are recorded as Verify errors.
func Verify(ctx context.Context, cfg VerifyConfig) VerifyResult {
	pairs := collectVerifyPairs(ctx, cfg)
	return verifyPairs(ctx, cfg, pairs)
}

// verifyFile checks a single copied file.
func verifyFile(ctx context.Context, cfg VerifyConfig, src, dst string) VerifyResult {
	return verifyPairs(ctx, cfg, []verifyPair{{src: src, dst: dst}})
}

func verifyPairs(ctx context.Context, cfg VerifyConfig, pairs []verifyPair) VerifyResult {
	emit(ctx, cfg.Events, event.Event{Type: event.VerifyStarted, Total: int64(len(pairs))})

	var verified, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(max(cfg.Workers, 1))
	for _, p := range pairs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := comparePair(p); err != nil {
				failed.Add(1)
				cfg.Stats.RecordError(p.src, stats.Verify, err)
				emit(ctx, cfg.Events, event.Event{
					Type: event.VerifyFailed, Path: p.src, DstPath: p.dst, Error: err,
				})
				return nil
			}
			verified.Add(1)
			cfg.Stats.AddFilesVerified(1)
			emit(ctx, cfg.Events, event.Event{Type: event.VerifyOK, Path: p.src, DstPath: p.dst})
			return nil
		})
	}
	_ = g.Wait()

	return VerifyResult{Verified: verified.Load(), Failed: failed.Load()}
}

func comparePair(p verifyPair) error {
	srcHash, err := HashFile(p.src)
	if err != nil {
		return fmt.Errorf("hash source: %w", err)
	}
	dstHash, err := HashFile(p.dst)
	if err != nil {
		return fmt.Errorf("hash destination: %w", err)
	}
	if srcHash != dstHash {
		return fmt.Errorf("checksum mismatch: %s != %s", srcHash[:16], dstHash[:16])
	}
	return nil
}

// collectVerifyPairs lists destination files that have a counterpart in
// the source and are not excluded.
func collectVerifyPairs(ctx context.Context, cfg VerifyConfig) []verifyPair {
	var pairs []verifyPair
	_ = filepath.WalkDir(cfg.DstRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if !cfg.Recursive && path != cfg.DstRoot {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if !d.Type().IsRegular() || strings.HasSuffix(name, tmpSuffix) || !cfg.Exclude.Included(name) {
			return nil
		}

		rel, err := filepath.Rel(cfg.DstRoot, path)
		if err != nil {
			return nil
		}
		src := filepath.Join(cfg.SrcRoot, rel)
		if info, err := os.Stat(src); err != nil || !info.Mode().IsRegular() {
			return nil
		}
		pairs = append(pairs, verifyPair{src: src, dst: path})
		return nil
	})
	return pairs
}

package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaeleborne/rcpy/internal/event"
	"github.com/vaeleborne/rcpy/internal/filter"
	"github.com/vaeleborne/rcpy/internal/stats"
)

func TestVerify_MatchingFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	tree := map[string]string{"a.txt": "content a", "sub/b.txt": "content b"}
	writeTree(t, src, tree)
	writeTree(t, dst, tree)

	collector := stats.NewCollector()
	events := make(chan event.Event, 64)
	vr := Verify(context.Background(), VerifyConfig{
		SrcRoot: src, DstRoot: dst, Recursive: true, Workers: 2, Stats: collector, Events: events,
	})
	close(events)

	assert.Equal(t, VerifyResult{Verified: 2}, vr)
	assert.Equal(t, int64(2), collector.Snapshot().FilesVerified)
	assert.Empty(t, collector.Errors())

	var ok int
	for ev := range events {
		if ev.Type == event.VerifyOK {
			ok++
		}
	}
	assert.Equal(t, 2, ok)
}

func TestVerify_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeTree(t, src, map[string]string{"file.txt": "correct"})
	writeTree(t, dst, map[string]string{"file.txt": "corrupted"})

	collector := stats.NewCollector()
	vr := Verify(context.Background(), VerifyConfig{
		SrcRoot: src, DstRoot: dst, Recursive: true, Workers: 1, Stats: collector,
	})

	assert.Equal(t, VerifyResult{Failed: 1}, vr)
	errs := collector.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, stats.Verify, errs[0].Kind)
	assert.Equal(t, filepath.Join(src, "file.txt"), errs[0].Path)
	assert.Contains(t, errs[0].Error(), "checksum mismatch")

	snap := collector.Snapshot()
	assert.Equal(t, int64(1), snap.VerifyFailed)
	assert.Zero(t, snap.TaskErrors)
}

func TestVerify_Scope(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeTree(t, src, map[string]string{
		"top.txt":    "top",
		"skip.tmp":   "src version",
		"sub/in.txt": "nested",
	})
	writeTree(t, dst, map[string]string{
		"top.txt":                    "top",
		"skip.tmp":                   "dst version",   // excluded
		"extra.txt":                  "not in source", // no counterpart
		"sub/in.txt":                 "changed",       // outside non-recursive scope
		".top.txt.0a1b2c3d.rcpy-tmp": "stale temp",
	})

	collector := stats.NewCollector()
	vr := Verify(context.Background(), VerifyConfig{
		SrcRoot: src,
		DstRoot: dst,
		Workers: 4,
		Exclude: filter.NewExclusionSet("tmp"),
		Stats:   collector,
	})

	assert.Equal(t, VerifyResult{Verified: 1}, vr)
	assert.Empty(t, collector.Errors())
}

package ui_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaeleborne/rcpy/internal/ui"
)

// decodeJSON parses a single JSON log record.
func decodeJSON(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(b, &rec))
	return rec
}

func TestMultiHandlerTextAndJSON(t *testing.T) {
	var text, js bytes.Buffer
	logger := slog.New(ui.NewMultiHandler(
		slog.NewTextHandler(&text, nil),
		slog.NewJSONHandler(&js, nil),
	))

	logger.Warn("copy interrupted", "files", 12)

	assert.Contains(t, text.String(), `msg="copy interrupted" files=12`)
	rec := decodeJSON(t, js.Bytes())
	assert.Equal(t, "copy interrupted", rec["msg"])
	assert.InDelta(t, 12, rec["files"], 0)
}

func TestMultiHandlerPerHandlerLevels(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := slog.New(ui.NewMultiHandler(
		slog.NewTextHandler(&stderr, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
	))

	logger.Debug("rcpy.event", "type", "DirCreated")
	logger.Warn("config ignored")

	assert.NotContains(t, stderr.String(), "rcpy.event")
	assert.Contains(t, stderr.String(), "config ignored")
	assert.Contains(t, file.String(), `"type":"DirCreated"`)
	assert.Contains(t, file.String(), "config ignored")
}

func TestMultiHandlerEnabled(t *testing.T) {
	m := ui.NewMultiHandler(
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	ctx := context.Background()
	for level, want := range map[slog.Level]bool{
		slog.LevelDebug: false,
		slog.LevelInfo:  false,
		slog.LevelWarn:  true,
		slog.LevelError: true,
	} {
		assert.Equal(t, want, m.Enabled(ctx, level), level.String())
	}
}

func TestMultiHandlerAttrsAndGroups(t *testing.T) {
	var js bytes.Buffer
	base := ui.NewMultiHandler(slog.NewJSONHandler(&js, nil))
	logger := slog.New(base.WithAttrs([]slog.Attr{slog.String("component", "engine")}).WithGroup("task"))

	logger.Info("copied", "path", "a/b.txt")

	rec := decodeJSON(t, js.Bytes())
	assert.Equal(t, "engine", rec["component"])
	group, ok := rec["task"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a/b.txt", group["path"])
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestMultiHandlerJoinsErrors(t *testing.T) {
	var text bytes.Buffer
	m := ui.NewMultiHandler(
		failingHandler{slog.NewTextHandler(&bytes.Buffer{}, nil)},
		slog.NewTextHandler(&text, nil),
	)

	err := m.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, text.String(), "hello", "later handlers still run")
}

package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, Level(false, false))
	assert.Equal(t, slog.LevelDebug, Level(true, false))
	assert.Equal(t, slog.LevelWarn, Level(false, true))
	assert.Equal(t, slog.LevelWarn, Level(true, true), "quiet takes precedence")
}

func TestSetupEnablesLevels(t *testing.T) {
	ctx := context.Background()

	Setup(nil, false, false)
	h := slog.Default().Handler()
	assert.True(t, h.Enabled(ctx, slog.LevelInfo))
	assert.False(t, h.Enabled(ctx, slog.LevelDebug))

	Setup(nil, true, false)
	assert.True(t, slog.Default().Handler().Enabled(ctx, slog.LevelDebug))

	Setup(nil, false, true)
	h = slog.Default().Handler()
	assert.False(t, h.Enabled(ctx, slog.LevelInfo))
	assert.True(t, h.Enabled(ctx, slog.LevelWarn))
}

func TestSetupWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, true, false)
	t.Cleanup(func() { Setup(nil, false, false) })

	slog.Debug("loaded survey", "rows", 42)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "rows=42")
}

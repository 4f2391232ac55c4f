package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogger(t *testing.T) {
	var (
		buf bytes.Buffer
		ctx = context.Background()
		log = New(Config{Level: "debug", Format: "json", Output: &buf})
	)
	log.With(String("run", "a")).Info(ctx, "step", Int("step", 3), Float("sor", 1.5), Err(errors.New("boom")))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "step", rec["msg"])
	assert.Equal(t, "a", rec["run"])
	assert.Equal(t, 3., rec["step"])
	assert.Equal(t, 1.5, rec["sor"])
	assert.Equal(t, "boom", rec["error"])
}

func TestLevels(t *testing.T) {
	var (
		buf bytes.Buffer
		ctx = context.Background()
		log = New(Config{Level: "warn", Output: &buf})
	)
	log.Debug(ctx, "hidden")
	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown")
	log.Error(ctx, "shown too")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "level=WARN")
	assert.Contains(t, lines[1], "level=ERROR")

	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
}

func TestNoop(t *testing.T) {
	log := Noop()
	assert.NotPanics(t, func() {
		log.With(String("k", "v")).Error(context.Background(), "dropped")
	})
}

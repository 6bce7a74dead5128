package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Format: "json"}, &buf)

	l.Info().Msg("dropped")
	assert.Zero(t, buf.Len(), "info 低于 warn，不应输出")

	l.Warn().Str("template", "modern").Msg("排版越界")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "modern", entry["template"])
	assert.Equal(t, "排版越界", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "loud"}, &buf)
	l.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	l.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	assert.Equal(t, &Logger, Ctx(context.Background()))

	var buf bytes.Buffer
	l := New(Config{Level: "info"}, &buf)
	ctx := l.WithContext(context.Background())
	Ctx(ctx).Info().Msg("scoped")
	assert.Contains(t, buf.String(), "scoped")
}

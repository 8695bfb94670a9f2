package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "json", "info")
	logger.Info("поездка создана", "ride_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "поездка создана", entry["msg"])
	assert.EqualValues(t, 7, entry["ride_id"])
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "text", "warn")
	logger.Info("не попадет в лог")
	assert.Zero(t, buf.Len())

	logger.Warn("попадет")
	assert.Contains(t, buf.String(), "попадет")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

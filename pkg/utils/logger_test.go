package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", "json", &buf)

	logger.WithField("flights", 3).
		WithFields(map[string]interface{}{"points": 120}).
		Info("Analysis completed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "Analysis completed", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, float64(3), entry["flights"])
	assert.Equal(t, float64(120), entry["points"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("warn", "text", &buf)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("visible warning")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible warning")
	assert.False(t, logger.IsDebug())
}

func TestLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("verbose", "text", &buf)

	logger.Debug("dropped")
	logger.Info("kept")

	assert.False(t, strings.Contains(buf.String(), "dropped"))
	assert.True(t, strings.Contains(buf.String(), "kept"))
}

func TestLogger_FieldsDoNotLeakToParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLoggerWithOutput("info", "text", &buf)
	_ = parent.WithField("child_only", true)

	parent.Info("parent entry")

	assert.NotContains(t, buf.String(), "child_only")
}

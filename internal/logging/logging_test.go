package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/uc-client/internal/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"trace":   zerolog.TraceLevel,
		"off":     zerolog.Disabled,
		"info":    zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
		"chatty":  zerolog.InfoLevel,
	}

	for name, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(name), name)
	}
}

func TestNew_AutoFormatIsJSONForNonTerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.New(logging.Config{Level: "info", Output: &buf})
	logger.Info().Str("catalog", "main").Msg("listed")

	var line map[string]interface{}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "listed", line["message"])
	assert.Equal(t, "main", line["catalog"])
	assert.Contains(t, line, "time")
}

func TestNew_ConsoleFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.New(logging.Config{Level: "info", Format: logging.FormatConsole, Output: &buf})
	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestNew_LevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.New(logging.Config{Level: "warn", Format: logging.FormatJSON, Output: &buf})
	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	adapter := logging.NewAdapter(logging.New(logging.Config{Level: "debug", Format: logging.FormatJSON, Output: &buf}))
	adapter.Debug("HTTP Request", map[string]interface{}{"method": "GET", "status": 200})

	var line map[string]interface{}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "HTTP Request", line["message"])
	assert.Equal(t, "GET", line["method"])
	assert.InDelta(t, 200, line["status"], 0)

	buf.Reset()
	adapter.Error("failed", nil)
	assert.Contains(t, buf.String(), `"level":"error"`)
}

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestNew_ConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "warn", Console: &buf})

	logger.Info().Msg("quiet")
	logger.Warn().Str("symbol", "^GDAXI").Msg("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
	assert.Contains(t, out, "^GDAXI")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "marketcross.log")
	logger := New(Options{Level: "info", FilePath: path})

	logger.Info().Str("provider", "yahoo").Msg("analysis complete")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"provider":"yahoo"`)
	assert.Contains(t, string(data), `"message":"analysis complete"`)
}

func TestNew_NoOutputs(t *testing.T) {
	logger := New(Options{})
	assert.NotPanics(t, func() { logger.Error().Msg("discarded") })
}

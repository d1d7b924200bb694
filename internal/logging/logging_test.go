package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/tunewave/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"loud", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBuildJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Component(build(&buf, zerolog.WarnLevel, false), "ipc")

	log.Info().Msg("hidden")
	log.Warn().Str("socket", "/tmp/x").Msg("renderer not ready")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"component":"ipc"`)
	assert.Contains(t, out, `"message":"renderer not ready"`)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tunewave.log")
	log, closer, err := New(config.LogConfig{Level: "debug", File: path, Format: "json"})
	require.NoError(t, err)

	log.Debug().Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"message":"hello"`))
}

func TestUseConsole(t *testing.T) {
	assert.True(t, useConsole("console", false))
	assert.False(t, useConsole("json", true))
	assert.True(t, useConsole("auto", true))
	assert.False(t, useConsole("", false))
}

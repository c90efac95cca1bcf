package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want zapcore.Level
	}{
		{name: "default", opts: Options{}, want: zapcore.InfoLevel},
		{name: "warn", opts: Options{Level: "warn"}, want: zapcore.WarnLevel},
		{name: "verbose overrides", opts: Options{Level: "error", Verbose: true}, want: zapcore.DebugLevel},
		{name: "json", opts: Options{Format: "json", Level: "debug"}, want: zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.opts)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWriter(&buf, Options{Format: "json"})
	require.NoError(t, err)

	logger.Info("built", zap.Int("nodes", 3))
	logger.Debug("hidden")
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "built", entry["msg"])
	assert.EqualValues(t, 3, entry["nodes"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewWriter_BadFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Options{Format: "xml"})
	assert.Error(t, err)
}

// Package logging builds the zap logger shared by the dirtree commands.
// Logs go to stderr so that answers on stdout stay machine readable.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects level and encoding.
type Options struct {
	Level   string // debug|info|warn|error
	Format  string // console|json
	Verbose bool   // forces debug
}

// New builds a logger writing to stderr.
func New(o Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = o.Format
	if cfg.Encoding == "" {
		cfg.Encoding = "console"
	}
	if cfg.Encoding == "console" {
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	cfg.Sampling = nil

	level, err := resolveLevel(o)
	if err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// NewWriter builds a logger writing to w, for commands whose stderr is
// redirected (tests, embedding).
func NewWriter(w io.Writer, o Options) (*zap.Logger, error) {
	level, err := resolveLevel(o)
	if err != nil {
		return nil, err
	}
	var enc zapcore.Encoder
	switch o.Format {
	case "json":
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "", "console":
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	default:
		return nil, fmt.Errorf("unknown log format %q", o.Format)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core), nil
}

func resolveLevel(o Options) (zapcore.Level, error) {
	if o.Verbose {
		return zapcore.DebugLevel, nil
	}
	if o.Level == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(o.Level)
	if err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

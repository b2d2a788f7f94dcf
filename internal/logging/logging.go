// Package logging constructs the zap logger carrying operational detail.
// User-facing report output and the JSONL audit trail are separate; this
// logger writes structured records to stderr only.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// New builds a production logger at the named level ("debug", "info",
// "warn", "error"; empty means info). verbose forces debug regardless.
// When stderr is a terminal the encoder switches to console form.
func New(level string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()

	parsed := zapcore.InfoLevel
	if level != "" {
		var err error
		parsed, err = zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
	}
	if verbose {
		parsed = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(parsed)

	if term.IsTerminal(int(os.Stderr.Fd())) {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return logger, nil
}

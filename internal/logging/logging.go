package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const debugEnv = "TACK_DEBUG"

type Options struct {
	Debug bool
	// File receives JSON records when set. Otherwise debug output goes to
	// Stderr as text.
	File   string
	Stderr io.Writer
}

// New builds the process logger. Without debug or a log file every record is
// discarded. The returned close func releases the log file, if any.
func New(opts Options) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }

	if os.Getenv(debugEnv) == "1" {
		opts.Debug = true
	}

	if !opts.Debug && opts.File == "" {
		return slog.New(slog.DiscardHandler), noop, nil
	}

	handlerOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if opts.Debug {
		handlerOpts.Level = slog.LevelDebug
	}

	if opts.File == "" {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		return slog.New(slog.NewTextHandler(stderr, handlerOpts)), noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, noop, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("open log file: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(file, handlerOpts))
	logger.Debug("debug logging initialized", "log_file", opts.File)

	return logger, file.Close, nil
}

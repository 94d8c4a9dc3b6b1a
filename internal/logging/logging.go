// Package logging wires slog to stderr and a rotating log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel maps the --log flag values to slog levels: d=debug, i=info,
// w=warn. Empty means the default (warn).
func ParseLevel(s string) (slog.Level, error) {
	switch s {
	case "", "w":
		return slog.LevelWarn, nil
	case "i":
		return slog.LevelInfo, nil
	case "d":
		return slog.LevelDebug, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (want d, i, or w)", s)
	}
}

// Setup configures the process-wide logger: text records to stderr and to
// a rotating file at logPath. Returns the logger, which is also installed
// as the slog default.
func Setup(level string, logPath string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	rotating := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, rotating), &slog.HandlerOptions{
		Level: lvl,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

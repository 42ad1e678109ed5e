// Package log configures the process-wide slog logger for surveydash.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Level maps the --debug and --quiet flags to a slog level. Quiet wins when both are set.
func Level(debug, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case debug:
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Setup installs a text handler at the flag-derived level as the default logger.
// A nil writer means stderr, keeping stdout free for command output.
func Setup(w io.Writer, debug, quiet bool) {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: Level(debug, quiet)})
	slog.SetDefault(slog.New(handler))
}

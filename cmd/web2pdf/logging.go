package main

import (
	"io"
	"log/slog"
)

// logTimeFormat is the timestamp layout of status lines.
const logTimeFormat = "2006-01-02 15:04:05"

// newLogger returns a text logger on w. quiet wins over verbose.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.quiet:
		level = slog.LevelWarn
	case f.verbose:
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format(logTimeFormat))
			}
			return a
		},
	}))
}

// Package logger wraps slog with the fields libpsf logs when it opens and
// queries a file.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with decoder-specific helpers.
type Logger struct {
	*slog.Logger
}

// New creates a Logger over handler. A nil handler writes text to stderr at
// info level.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return &Logger{Logger: slog.New(handler)}
}

// Wrap adopts an existing slog logger. A nil logger yields Noop.
func Wrap(l *slog.Logger) *Logger {
	if l == nil {
		return Noop()
	}

	return &Logger{Logger: l}
}

// NewText creates a Logger writing human-readable text to w.
func NewText(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Noop creates a Logger that discards everything.
func Noop() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithFile tags every record with the file path.
func (l *Logger) WithFile(path string) *Logger {
	return &Logger{Logger: l.Logger.With("file", path)}
}

// LogOpen logs the outcome of opening a file.
func (l *Logger) LogOpen(path string, swept bool, signals int, err error) {
	if err != nil {
		l.Error("open failed", "path", path, "error", err)
		return
	}

	l.Debug("open completed", "path", path, "swept", swept, "signals", signals)
}

// LogSection logs one located section.
func (l *Logger) LogSection(kind string, offset, size int) {
	l.Debug("section located", "kind", kind, "offset", offset, "size", size)
}

// LogClose logs the outcome of closing a file.
func (l *Logger) LogClose(path string, err error) {
	if err != nil {
		l.Error("close failed", "path", path, "error", err)
		return
	}

	l.Debug("close completed", "path", path)
}

// LogQuery logs a signal query.
func (l *Logger) LogQuery(op string, names []string, points int, err error) {
	if err != nil {
		l.Debug("query failed", "op", op, "signals", names, "error", err)
		return
	}

	l.Debug("query completed", "op", op, "signals", names, "points", points)
}

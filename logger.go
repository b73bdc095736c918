package voxevents

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with voxevents-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// LogLoad logs a chunked load operation.
func (l *Logger) LogLoad(chunkIndex, numChunks, events int, err error) {
	if err != nil {
		l.Error("chunk load failed",
			"chunk_index", chunkIndex,
			"num_chunks", numChunks,
			"error", err,
		)
	} else {
		l.Info("chunks loaded",
			"chunk_index", chunkIndex,
			"num_chunks", numChunks,
			"events", events,
		)
	}
}

// LogRead logs an event file read.
func (l *Logger) LogRead(path string, events int, err error) {
	if err != nil {
		l.Error("event file read failed",
			"path", path,
			"error", err,
		)
	} else {
		l.Info("event file loaded",
			"path", path,
			"events", events,
		)
	}
}

// LogWrite logs an event file write.
func (l *Logger) LogWrite(path string, events int, err error) {
	if err != nil {
		l.Error("event file write failed",
			"path", path,
			"error", err,
		)
	} else {
		l.Info("event file written",
			"path", path,
			"events", events,
		)
	}
}

// LogIndexRebuild logs a spatial index rebuild.
func (l *Logger) LogIndexRebuild(events int) {
	l.Debug("spatial index rebuilt",
		"events", events,
	)
}

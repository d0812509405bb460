package pinball

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with decoder-domain field helpers.
// The decoders themselves are pure and never log; the simulation harness
// and CLI use this for structured progress and result reporting.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler to stderr at Info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewJSONLogger creates a Logger that writes JSON records to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	}))
}

// WithDistance adds a code-distance field to the logger.
func (l *Logger) WithDistance(d int) *Logger {
	return &Logger{Logger: l.Logger.With("distance", d)}
}

// WithErrorRate adds a physical error rate field to the logger.
func (l *Logger) WithErrorRate(p float64) *Logger {
	return &Logger{Logger: l.Logger.With("error_rate", p)}
}

// WithPredecoder adds the active predecoder's name to the logger.
func (l *Logger) WithPredecoder(name string) *Logger {
	return &Logger{Logger: l.Logger.With("predecoder", name)}
}

// WithRunID adds a simulation run identifier to the logger.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{Logger: l.Logger.With("run_id", id)}
}

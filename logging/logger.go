// Package logging defines the leveled logger the client and its middleware
// write diagnostics to. Zerolog is the implementation config wires in.
package logging

import "context"

// Classification is the level of a log entry.
type Classification string

// Classifications emitted by the client runtime.
const (
	Warn  Classification = "WARN"
	Debug Classification = "DEBUG"
)

// Logger writes formatted entries at a classification.
type Logger interface {
	// Logf accepts fmt verbs.
	Logf(level Classification, format string, v ...interface{})
}

// ContextLogger is implemented by loggers that tag entries with values
// carried on the operation context, such as the active trace.
type ContextLogger interface {
	WithContext(context.Context) Logger
}

// WithContext returns logger bound to ctx when it is a ContextLogger, and
// logger unchanged otherwise.
func WithContext(ctx context.Context, logger Logger) Logger {
	cl, ok := logger.(ContextLogger)
	if !ok {
		return logger
	}

	return cl.WithContext(ctx)
}

// Noop discards every entry. It is the client default.
type Noop struct{}

func (Noop) Logf(Classification, string, ...interface{}) {}

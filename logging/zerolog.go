package logging

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Zerolog is a Logger implementation that writes structured entries with
// zerolog. Entries logged with a context carrying an OpenTelemetry span are
// tagged with the trace and span IDs.
type Zerolog struct {
	Logger zerolog.Logger
}

var (
	_ Logger        = Zerolog{}
	_ ContextLogger = Zerolog{}
)

// NewZerolog returns a Zerolog writing JSON entries with timestamps to w.
func NewZerolog(w io.Writer) Zerolog {
	return Zerolog{
		Logger: zerolog.New(w).With().Timestamp().Str("component", "smithy-client").Logger(),
	}
}

// Logf logs the message at the level matching the classification.
func (z Zerolog) Logf(classification Classification, format string, v ...interface{}) {
	var ev *zerolog.Event
	switch classification {
	case Warn:
		ev = z.Logger.Warn()
	case Debug:
		ev = z.Logger.Debug()
	default:
		ev = z.Logger.Info()
	}
	ev.Msgf(format, v...)
}

// WithContext returns a logger enriched with the trace of ctx, if any.
func (z Zerolog) WithContext(ctx context.Context) Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return z
	}

	return Zerolog{
		Logger: z.Logger.With().
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String()).
			Logger(),
	}
}

package middleware

import (
	"context"

	"github.com/smithy-lang/smithy-go-client/logging"
)

type loggerKey struct{}

// GetLogger returns the operation logger stored on ctx, bound to ctx, or
// logging.Noop when the operation has none.
func GetLogger(ctx context.Context) logging.Logger {
	logger, ok := ctx.Value(loggerKey{}).(logging.Logger)
	if !ok || logger == nil {
		return logging.Noop{}
	}

	return logging.WithContext(ctx, logger)
}

// SetLogger stores the operation logger on ctx. The client does this at the
// start of every invocation.
func SetLogger(ctx context.Context, logger logging.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

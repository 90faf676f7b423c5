package retry

import (
	"context"
	"fmt"
	"strconv"
	"time"

	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/logging"
	"github.com/smithy-lang/smithy-go-client/middleware"
	"github.com/smithy-lang/smithy-go-client/middleware/id"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

// RequestCloner clones the transport request so each attempt starts from the
// request the stack built.
type RequestCloner func(interface{}) interface{}

type retryMetadata struct {
	AttemptNum  int
	MaxAttempts int
}

type retryMetadataKey struct{}

func getRetryMetadata(ctx context.Context) (retryMetadata, bool) {
	m, ok := middleware.GetStackValue(ctx, retryMetadataKey{}).(retryMetadata)
	return m, ok
}

func setRetryMetadata(ctx context.Context, m retryMetadata) context.Context {
	return middleware.WithStackValue(ctx, retryMetadataKey{}, m)
}

// Attempt is a finalize middleware that sends the request, retrying failed
// attempts as the Strategy allows.
type Attempt struct {
	// Enable logging of retry attempts, unretryable errors, and exhausted
	// attempts.
	LogAttempts bool

	strategy      Strategy
	requestCloner RequestCloner
	sleep         func(context.Context, time.Duration) error
}

// NewAttemptMiddleware returns a new Attempt retry middleware.
func NewAttemptMiddleware(strategy Strategy, requestCloner RequestCloner, optFns ...func(*Attempt)) *Attempt {
	m := &Attempt{
		strategy:      strategy,
		requestCloner: requestCloner,
		sleep:         sleepWithContext,
	}
	for _, fn := range optFns {
		fn(m)
	}
	return m
}

// ID returns the middleware identifier.
func (r *Attempt) ID() string { return id.Retry }

func (r *Attempt) logf(logger logging.Logger, classification logging.Classification, format string, v ...interface{}) {
	if !r.LogAttempts {
		return
	}
	logger.Logf(classification, format, v...)
}

// HandleFinalize runs attempts until one succeeds, fails with an
// unretryable error, or the maximum number of attempts is reached.
func (r *Attempt) HandleFinalize(ctx context.Context, in middleware.FinalizeInput, next middleware.FinalizeHandler) (
	out middleware.FinalizeOutput, metadata middleware.Metadata, err error,
) {
	maxAttempts := r.strategy.MaxAttempts()
	logger := middleware.GetLogger(ctx)

	var attemptNum int
	for {
		attemptNum++
		attemptInput := in
		attemptInput.Request = r.requestCloner(attemptInput.Request)

		attemptCtx := setRetryMetadata(ctx, retryMetadata{
			AttemptNum:  attemptNum,
			MaxAttempts: maxAttempts,
		})

		var retry bool
		out, metadata, retry, err = r.handleAttempt(attemptCtx, attemptInput, attemptNum, maxAttempts, logger, next)
		if !retry {
			break
		}
	}

	metadata = metadata.Clone()
	middleware.SetAttempts(&metadata, attemptNum)
	return out, metadata, err
}

func (r *Attempt) handleAttempt(
	ctx context.Context, in middleware.FinalizeInput, attemptNum, maxAttempts int,
	logger logging.Logger, next middleware.FinalizeHandler,
) (
	out middleware.FinalizeOutput, metadata middleware.Metadata, retry bool, err error,
) {
	select {
	case <-ctx.Done():
		return out, metadata, false, &smithy.CanceledError{Err: ctx.Err()}
	default:
	}

	// later attempts must start from a rewound payload
	if attemptNum > 1 {
		if rewindable, ok := in.Request.(interface{ RewindStream() error }); ok {
			if err := rewindable.RewindStream(); err != nil {
				return out, metadata, false, fmt.Errorf("failed to rewind transport stream for retry, %w", err)
			}
		}
		r.logf(logger, logging.Debug, "retrying request, attempt %d", attemptNum)
	}

	out, metadata, err = next.HandleFinalize(ctx, in)
	if err == nil {
		return out, metadata, false, nil
	}

	if !r.strategy.IsErrorRetryable(err) {
		r.logf(logger, logging.Debug, "request failed with unretryable error %v", err)
		return out, metadata, false, err
	}

	if attemptNum >= maxAttempts {
		r.logf(logger, logging.Debug, "max retry attempts exhausted, max %d", maxAttempts)
		return out, metadata, false, &MaxAttemptsError{Attempt: attemptNum, Err: err}
	}

	delay, delayErr := r.strategy.RetryDelay(attemptNum, err)
	if delayErr != nil {
		return out, metadata, false, delayErr
	}
	if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
		return out, metadata, false, &smithy.CanceledError{Err: sleepErr}
	}
	return out, metadata, true, err
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MetricsHeader sets the Amz-Sdk-Request header describing the attempt
// being made.
type MetricsHeader struct{}

// ID returns the middleware identifier.
func (r *MetricsHeader) ID() string { return id.RetryMetricsHeader }

// HandleFinalize sets the attempt header on the transport request.
func (r *MetricsHeader) HandleFinalize(ctx context.Context, in middleware.FinalizeInput, next middleware.FinalizeHandler) (
	out middleware.FinalizeOutput, metadata middleware.Metadata, err error,
) {
	m, _ := getRetryMetadata(ctx)

	const retryMetricHeader = "Amz-Sdk-Request"
	v := "attempt=" + strconv.Itoa(m.AttemptNum)
	if m.MaxAttempts != 0 {
		v += "; max=" + strconv.Itoa(m.MaxAttempts)
	}

	req, ok := in.Request.(*smithyhttp.Request)
	if !ok {
		return out, metadata, fmt.Errorf("unknown transport type %T", in.Request)
	}
	req.Header[retryMetricHeader] = append(req.Header[retryMetricHeader][:0], v)

	return next.HandleFinalize(ctx, in)
}

// AddRetryMiddlewaresOptions configures AddRetryMiddlewares.
type AddRetryMiddlewaresOptions struct {
	Strategy Strategy

	LogRetryAttempts bool
}

// AddRetryMiddlewares adds the retry loop and attempt header middleware to
// the end of the finalize step.
func AddRetryMiddlewares(stack *middleware.Stack, options AddRetryMiddlewaresOptions) error {
	strategy := options.Strategy
	if strategy == nil {
		strategy = NewStandard()
	}

	attempt := NewAttemptMiddleware(strategy, smithyhttp.RequestCloner, func(m *Attempt) {
		m.LogAttempts = options.LogRetryAttempts
	})
	if err := stack.Finalize.Add(attempt, middleware.After); err != nil {
		return err
	}
	return stack.Finalize.Add(&MetricsHeader{}, middleware.After)
}

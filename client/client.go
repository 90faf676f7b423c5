// Package client invokes modeled operations over the middleware stack: auth
// scheme selection, endpoint resolution, protocol serialization, signing,
// retries and response deserialization.
package client

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/middleware"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

// Version of the client runtime, sent in the User-Agent header.
const Version = "0.1.0"

const tracerName = "github.com/smithy-lang/smithy-go-client"

// Client invokes operations of a service. It is safe for concurrent use.
type Client struct {
	options Options
}

// New returns a client configured by options and optFns. Returns an error if
// no protocol is configured.
func New(options Options, optFns ...func(*Options)) (*Client, error) {
	options = options.Copy()
	for _, fn := range optFns {
		fn(&options)
	}

	if options.Protocol == nil {
		return nil, fmt.Errorf("client protocol is required")
	}
	if err := resolveDefaults(&options); err != nil {
		return nil, err
	}
	return &Client{options: options}, nil
}

// Options returns a copy of the client's options.
func (c *Client) Options() Options {
	return c.options.Copy()
}

// Invoke calls op with input, decoding the response into output. optFns
// modify the client options for this call only.
//
// Failures are returned as *smithy.OperationError.
func (c *Client) Invoke(
	ctx context.Context, op *smithy.Operation, input smithy.Serializable, output smithy.Deserializable,
	optFns ...func(*Options),
) (metadata middleware.Metadata, err error) {
	options := c.options.Copy()
	if options.defaultRetryer {
		options.Retryer = nil
	}
	for _, fn := range optFns {
		fn(&options)
	}
	if options.Retryer == nil {
		options.Retryer = newDefaultRetryer(options.RetryMaxAttempts)
	}

	start := time.Now()
	ctx, span := options.TracerProvider.Tracer(tracerName).Start(ctx, options.ServiceID+"."+op.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.system", "smithy"),
			attribute.String("rpc.service", options.ServiceID),
			attribute.String("rpc.method", op.Name),
		))
	defer func() {
		span.SetAttributes(attribute.Int("smithy.attempts", middleware.GetAttempts(metadata)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		recordCall(ctx, options.MeterProvider, options.ServiceID, op.Name, time.Since(start), middleware.GetAttempts(metadata), err)
	}()

	ctx = middleware.SetLogger(ctx, options.Logger)

	stack := middleware.NewStack(op.Name, smithyhttp.NewStackRequest)
	if err = addOperationMiddlewares(stack, op, output, options); err == nil {
		for _, fn := range options.APIOptions {
			if err = fn(stack); err != nil {
				break
			}
		}
	}
	if err == nil {
		handler := middleware.DecorateHandler(smithyhttp.NewClientHandler(options.HTTPClient), stack)
		_, metadata, err = handler.Handle(ctx, input)
	}

	metadata = metadata.Clone()
	middleware.SetServiceID(&metadata, options.ServiceID)
	middleware.SetOperationName(&metadata, op.Name)

	if err != nil {
		return metadata, &smithy.OperationError{
			ServiceID:     options.ServiceID,
			OperationName: op.Name,
			Err:           err,
		}
	}
	return metadata, nil
}

func recordCall(ctx context.Context, mp metric.MeterProvider, service, operation string, d time.Duration, attempts int, err error) {
	meter := mp.Meter(tracerName)
	attrs := []attribute.KeyValue{
		attribute.String("rpc.service", service),
		attribute.String("rpc.method", operation),
		attribute.Bool("error", err != nil),
	}

	if h, herr := meter.Float64Histogram("smithy.client.call.duration", metric.WithUnit("s")); herr == nil {
		h.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
	}
	if c, cerr := meter.Int64Counter("smithy.client.call.attempts", metric.WithUnit("{attempt}")); cerr == nil {
		c.Add(ctx, int64(attempts), metric.WithAttributes(attrs...))
	}
}

package client

import (
	"context"
	"fmt"

	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/httpbinding"
	"github.com/smithy-lang/smithy-go-client/middleware"
	"github.com/smithy-lang/smithy-go-client/middleware/id"
	"github.com/smithy-lang/smithy-go-client/retry"
	"github.com/smithy-lang/smithy-go-client/traits"
	"github.com/smithy-lang/smithy-go-client/transport"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

// addOperationMiddlewares builds the stack of an operation call.
func addOperationMiddlewares(stack *middleware.Stack, op *smithy.Operation, output smithy.Deserializable, o Options) error {
	if o.EndpointResolver == nil {
		return fmt.Errorf("no endpoint resolver configured")
	}

	if m := idempotencyTokenMember(op.InputSchema); m != nil {
		err := stack.Initialize.Add(&idempotencyTokenAutoFill{member: m, provider: o.IdempotencyTokenProvider}, middleware.After)
		if err != nil {
			return err
		}
	}

	if err := stack.Serialize.Add(&resolveAuthScheme{operation: op, options: o}, middleware.After); err != nil {
		return err
	}
	if err := stack.Serialize.Add(&resolveEndpoint{operation: op, resolver: o.EndpointResolver}, middleware.After); err != nil {
		return err
	}
	if err := stack.Serialize.Add(&serializeOperation{operation: op, protocol: o.Protocol}, middleware.After); err != nil {
		return err
	}

	if t, ok := smithy.SchemaTrait[*traits.RequestCompression](op.Schema); ok {
		err := smithyhttp.AddRequestCompressionMiddleware(stack, smithyhttp.RequestCompressionOptions{
			DisableRequestCompression:   o.DisableRequestCompression,
			RequestMinCompressSizeBytes: o.minCompressSize(),
			Encodings:                   t.Encodings,
		})
		if err != nil {
			return err
		}
	}
	if _, ok := smithy.SchemaTrait[*traits.HTTPChecksumRequired](op.Schema); ok {
		if err := smithyhttp.AddContentChecksumMiddleware(stack); err != nil {
			return err
		}
	}
	if err := smithyhttp.AddComputeContentLengthMiddleware(stack); err != nil {
		return err
	}
	if requiresLength(op.InputSchema) {
		if err := smithyhttp.ValidateContentLengthHeader(stack); err != nil {
			return err
		}
	}
	if err := smithyhttp.AddUserAgentMiddleware(stack, userAgentKeys(o)...); err != nil {
		return err
	}

	err := retry.AddRetryMiddlewares(stack, retry.AddRetryMiddlewaresOptions{
		Strategy:         o.Retryer,
		LogRetryAttempts: o.LogRetryAttempts,
	})
	if err != nil {
		return err
	}
	if err := stack.Finalize.Add(&signRequest{}, middleware.After); err != nil {
		return err
	}

	if err := smithyhttp.AddErrorCloseResponseBodyMiddleware(stack); err != nil {
		return err
	}
	// streamed outputs own the body after the call returns
	if !hasStreamingOutput(op) {
		if err := smithyhttp.AddCloseResponseBodyMiddleware(stack); err != nil {
			return err
		}
	}
	return stack.Deserialize.Add(&deserializeOperation{operation: op, protocol: o.Protocol, output: output}, middleware.After)
}

func userAgentKeys(o Options) []string {
	keys := []string{"smithy-go-client#" + Version}
	if len(o.AppID) != 0 {
		keys = append(keys, "app#"+o.AppID)
	}
	return keys
}

func payloadMember(s *smithy.Schema) *smithy.Schema {
	if s == nil {
		return nil
	}
	for _, m := range s.Members() {
		if _, ok := smithy.SchemaTrait[*traits.HTTPPayload](m); ok {
			return m
		}
	}
	return nil
}

func requiresLength(s *smithy.Schema) bool {
	_, ok := smithy.SchemaTrait[*traits.RequiresLength](payloadMember(s))
	return ok
}

func hasStreamingOutput(op *smithy.Operation) bool {
	if op.OutputEventStream() != nil {
		return true
	}
	m := payloadMember(op.OutputSchema)
	_, ok := smithy.SchemaTrait[*traits.Streaming](m)
	return ok && m.Type() == smithy.ShapeTypeBlob
}

type endpointKey struct{}

func getEndpoint(ctx context.Context) (transport.Endpoint, bool) {
	v, ok := middleware.GetStackValue(ctx, endpointKey{}).(transport.Endpoint)
	return v, ok
}

type resolveEndpoint struct {
	operation *smithy.Operation
	resolver  transport.EndpointResolver
}

func (*resolveEndpoint) ID() string { return id.ResolveEndpoint }

func (m *resolveEndpoint) HandleSerialize(
	ctx context.Context, in middleware.SerializeInput, next middleware.SerializeHandler,
) (
	out middleware.SerializeOutput, metadata middleware.Metadata, err error,
) {
	endpoint, err := m.resolver.ResolveEndpoint(ctx, transport.EndpointResolverParams{
		Operation: m.operation,
		Input:     in.Parameters,
	})
	if err != nil {
		return out, metadata, fmt.Errorf("resolve endpoint: %w", err)
	}
	if err := smithyhttp.ValidateEndpointHost(endpoint.URI.Host); err != nil {
		return out, metadata, fmt.Errorf("resolve endpoint: %w", err)
	}

	ctx = middleware.WithStackValue(ctx, endpointKey{}, endpoint)
	return next.HandleSerialize(ctx, in)
}

type serializeOperation struct {
	operation *smithy.Operation
	protocol  *httpbinding.Protocol
}

func (*serializeOperation) ID() string { return id.OperationSerializer }

func (m *serializeOperation) HandleSerialize(
	ctx context.Context, in middleware.SerializeInput, next middleware.SerializeHandler,
) (
	out middleware.SerializeOutput, metadata middleware.Metadata, err error,
) {
	input, ok := in.Parameters.(smithy.Serializable)
	if !ok {
		return out, metadata, &smithy.SerializationError{Err: fmt.Errorf("expect serializable input, got %T", in.Parameters)}
	}
	endpoint, ok := getEndpoint(ctx)
	if !ok {
		return out, metadata, fmt.Errorf("no endpoint resolved")
	}

	req, err := m.protocol.CreateRequest(ctx, m.operation, input, endpoint)
	if err != nil {
		return out, metadata, err
	}

	in.Request = req
	return next.HandleSerialize(ctx, in)
}

type deserializeOperation struct {
	operation *smithy.Operation
	protocol  *httpbinding.Protocol
	output    smithy.Deserializable
}

func (*deserializeOperation) ID() string { return id.OperationDeserializer }

func (m *deserializeOperation) HandleDeserialize(
	ctx context.Context, in middleware.DeserializeInput, next middleware.DeserializeHandler,
) (
	out middleware.DeserializeOutput, metadata middleware.Metadata, err error,
) {
	out, metadata, err = next.HandleDeserialize(ctx, in)
	if err != nil {
		return out, metadata, err
	}

	resp, ok := out.RawResponse.(*smithyhttp.Response)
	if !ok {
		return out, metadata, &smithy.DeserializationError{Err: fmt.Errorf("unknown transport type %T", out.RawResponse)}
	}
	if err := m.protocol.DeserializeResponse(ctx, m.operation, resp, m.output); err != nil {
		return out, metadata, err
	}

	out.Result = m.output
	return out, metadata, nil
}

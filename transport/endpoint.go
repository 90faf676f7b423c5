package transport

import (
	"context"
	"net/http"
	"net/url"

	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/auth"
)

// Endpoint is a Smithy endpoint.
type Endpoint struct {
	URI url.URL

	// Headers added to every request sent to the endpoint.
	Headers http.Header

	Properties auth.Properties
}

// EndpointResolverParams are the inputs to endpoint resolution.
type EndpointResolverParams struct {
	Operation *smithy.Operation

	// The operation input, used to source host labels.
	Input interface{}

	Properties auth.Properties
}

// EndpointResolver resolves the endpoint of an operation call.
type EndpointResolver interface {
	ResolveEndpoint(context.Context, EndpointResolverParams) (Endpoint, error)
}

// EndpointResolverFunc wraps a function to satisfy EndpointResolver.
type EndpointResolverFunc func(context.Context, EndpointResolverParams) (Endpoint, error)

// ResolveEndpoint calls fn.
func (fn EndpointResolverFunc) ResolveEndpoint(ctx context.Context, params EndpointResolverParams) (Endpoint, error) {
	return fn(ctx, params)
}

// StaticEndpointResolver resolves the same endpoint for every call, with the
// operation's host prefix applied.
type StaticEndpointResolver struct {
	Endpoint Endpoint

	// IgnorePrefix disables host prefixing, even for operations that declare
	// one.
	IgnorePrefix bool
}

var _ EndpointResolver = (*StaticEndpointResolver)(nil)

// NewStaticEndpointResolver returns a resolver for the parsed rawURL.
func NewStaticEndpointResolver(rawURL string) (*StaticEndpointResolver, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return &StaticEndpointResolver{Endpoint: Endpoint{URI: *u}}, nil
}

// ResolveEndpoint returns the configured endpoint. If the operation declares
// a smithy.api#endpoint host prefix, the prefix with its host labels
// substituted from the input is prepended to the host.
func (r *StaticEndpointResolver) ResolveEndpoint(_ context.Context, params EndpointResolverParams) (Endpoint, error) {
	endpoint := r.Endpoint
	endpoint.Headers = r.Endpoint.Headers.Clone()

	if r.IgnorePrefix || params.Operation == nil {
		return endpoint, nil
	}

	prefix, err := ResolveHostPrefix(params.Operation, params.Input)
	if err != nil {
		return Endpoint{}, err
	}
	endpoint.URI.Host = prefix + endpoint.URI.Host
	return endpoint, nil
}

package auth

import (
	"context"
	"time"
)

// Properties shared by several signers.
var (
	// SigningClock overrides the clock used to timestamp a signature.
	// Signers default to time.Now when absent.
	SigningClock = NewProperty[func() time.Time]("SigningClock")
)

// Option represents a possible authentication method for an operation.
type Option struct {
	SchemeID string

	// Properties passed to the identity resolver of the scheme.
	IdentityProperties Properties

	// Properties passed to the signer of the scheme. These override the
	// scheme's default signer properties.
	SignerProperties Properties
}

// SchemeResolverParams are the inputs to auth scheme resolution. They are
// built once per operation call.
type SchemeResolverParams struct {
	// ID of the protocol the client is configured with.
	ProtocolID string

	// Name of the operation being invoked.
	Operation string

	// The operation's effective auth schemes, in priority order.
	AuthSchemes []string

	Properties Properties
}

// SchemeResolver resolves the priority-ordered auth options for an
// operation.
type SchemeResolver interface {
	ResolveAuthSchemes(context.Context, *SchemeResolverParams) ([]*Option, error)
}

// DefaultSchemeResolver returns the operation's effective auth schemes
// verbatim.
type DefaultSchemeResolver struct{}

var _ SchemeResolver = (*DefaultSchemeResolver)(nil)

// ResolveAuthSchemes returns an option for every effective auth scheme, in
// order. Operations without auth schemes resolve to anonymous auth.
func (*DefaultSchemeResolver) ResolveAuthSchemes(_ context.Context, params *SchemeResolverParams) ([]*Option, error) {
	if len(params.AuthSchemes) == 0 {
		return []*Option{{SchemeID: SchemeIDAnonymous}}, nil
	}

	opts := make([]*Option, 0, len(params.AuthSchemes))
	for _, id := range params.AuthSchemes {
		opts = append(opts, &Option{SchemeID: id})
	}
	return opts, nil
}

// NoAuthSchemeResolver always resolves anonymous auth.
type NoAuthSchemeResolver struct{}

var _ SchemeResolver = (*NoAuthSchemeResolver)(nil)

// ResolveAuthSchemes returns the single anonymous option.
func (*NoAuthSchemeResolver) ResolveAuthSchemes(context.Context, *SchemeResolverParams) ([]*Option, error) {
	return []*Option{{SchemeID: SchemeIDAnonymous}}, nil
}

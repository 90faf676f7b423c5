package client

import (
	"context"
	"errors"
	"fmt"

	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/auth"
	"github.com/smithy-lang/smithy-go-client/logging"
	"github.com/smithy-lang/smithy-go-client/middleware"
	"github.com/smithy-lang/smithy-go-client/middleware/id"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

type signerPropertiesKey struct{}

// WithSignerProperties returns a context whose calls apply props on top of
// all other signer properties.
func WithSignerProperties(ctx context.Context, props auth.Properties) context.Context {
	return middleware.WithStackValue(ctx, signerPropertiesKey{}, props)
}

func getSignerProperties(ctx context.Context) auth.Properties {
	v, _ := middleware.GetStackValue(ctx, signerPropertiesKey{}).(auth.Properties)
	return v
}

// selectedAuth is the auth option chosen for a call with its identity.
type selectedAuth struct {
	Scheme   smithyhttp.AuthScheme
	Identity auth.Identity

	// Scheme defaults merged with option, client, and context properties.
	SignerProperties auth.Properties
}

type selectedAuthKey struct{}

func getSelectedAuth(ctx context.Context) (*selectedAuth, bool) {
	v, ok := middleware.GetStackValue(ctx, selectedAuthKey{}).(*selectedAuth)
	return v, ok
}

// resolveAuthScheme selects the first auth option with a registered scheme
// whose identity resolves.
type resolveAuthScheme struct {
	operation *smithy.Operation
	options   Options
}

func (*resolveAuthScheme) ID() string { return id.ResolveAuthScheme }

func (m *resolveAuthScheme) HandleSerialize(
	ctx context.Context, in middleware.SerializeInput, next middleware.SerializeHandler,
) (
	out middleware.SerializeOutput, metadata middleware.Metadata, err error,
) {
	selected, err := m.selectAuth(ctx)
	if err != nil {
		return out, metadata, fmt.Errorf("resolve auth scheme: %w", err)
	}

	ctx = middleware.WithStackValue(ctx, selectedAuthKey{}, selected)
	return next.HandleSerialize(ctx, in)
}

func (m *resolveAuthScheme) selectAuth(ctx context.Context) (*selectedAuth, error) {
	logger := middleware.GetLogger(ctx)

	params := &auth.SchemeResolverParams{
		ProtocolID:  m.options.Protocol.ID(),
		Operation:   m.operation.Name,
		AuthSchemes: m.operation.AuthSchemes,
		Properties:  m.options.SignerProperties.Merge(getSignerProperties(ctx)),
	}
	options, err := m.options.AuthSchemeResolver.ResolveAuthSchemes(ctx, params)
	if err != nil {
		return nil, err
	}

	var reasons []string
	skip := func(format string, v ...interface{}) {
		reason := fmt.Sprintf(format, v...)
		logger.Logf(logging.Debug, "skipping auth option, %s", reason)
		reasons = append(reasons, reason)
	}

	for _, opt := range options {
		scheme, ok := m.options.authScheme(opt.SchemeID)
		if !ok {
			skip("auth scheme %s is not registered", opt.SchemeID)
			continue
		}

		resolver := scheme.IdentityResolver(m.options)
		if resolver == nil {
			skip("no identity resolver configured for %s", opt.SchemeID)
			continue
		}
		if k := resolver.IdentityKind(); k != scheme.IdentityKind() {
			return nil, fmt.Errorf("identity resolver for %s resolves %s identity, expect %s",
				opt.SchemeID, k, scheme.IdentityKind())
		}

		identity, err := resolver.ResolveIdentity(ctx, opt.IdentityProperties)
		if err != nil {
			var nf *auth.IdentityNotFoundError
			if errors.As(err, &nf) {
				skip("%s: %v", opt.SchemeID, err)
				continue
			}
			return nil, err
		}
		if identity == nil {
			return nil, fmt.Errorf("identity resolver for %s returned no identity", opt.SchemeID)
		}

		return &selectedAuth{
			Scheme:   scheme,
			Identity: identity,
			SignerProperties: scheme.SignerProperties().
				Merge(opt.SignerProperties).
				Merge(m.options.SignerProperties).
				Merge(getSignerProperties(ctx)),
		}, nil
	}

	return nil, &auth.SchemeResolutionError{Reasons: reasons}
}

// signRequest signs every attempt with the selected auth scheme.
type signRequest struct{}

func (*signRequest) ID() string { return id.Signing }

func (m *signRequest) HandleFinalize(
	ctx context.Context, in middleware.FinalizeInput, next middleware.FinalizeHandler,
) (
	out middleware.FinalizeOutput, metadata middleware.Metadata, err error,
) {
	selected, ok := getSelectedAuth(ctx)
	if !ok {
		return out, metadata, fmt.Errorf("no auth scheme selected")
	}
	req, ok := in.Request.(*smithyhttp.Request)
	if !ok {
		return out, metadata, fmt.Errorf("unknown transport type %T", in.Request)
	}

	if err := selected.Scheme.Signer().SignRequest(ctx, req, selected.Identity, selected.SignerProperties); err != nil {
		return out, metadata, fmt.Errorf("sign request: %w", err)
	}
	in.Request = req
	return next.HandleFinalize(ctx, in)
}

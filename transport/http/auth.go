package http

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/smithy-lang/smithy-go-client/auth"
)

// Signer signs an HTTP request with a resolved identity.
type Signer interface {
	// IdentityKind is the kind of identity the signer accepts.
	IdentityKind() auth.IdentityKind

	SignRequest(ctx context.Context, r *Request, id auth.Identity, props auth.Properties) error
}

// AuthScheme binds a scheme ID to the identity it needs and the signer that
// applies it.
type AuthScheme interface {
	SchemeID() string
	IdentityKind() auth.IdentityKind
	IdentityResolver(auth.IdentityResolverOptions) auth.IdentityResolver
	Signer() Signer

	// SignerProperties are the scheme's default signer properties, which
	// option and client overrides are merged on top of.
	SignerProperties() auth.Properties
}

type authScheme struct {
	id     string
	kind   auth.IdentityKind
	signer Signer
	props  auth.Properties
}

var _ AuthScheme = (*authScheme)(nil)

// NewAuthScheme returns an auth scheme. Returns an error if the signer
// accepts a different identity kind than the scheme resolves.
func NewAuthScheme(schemeID string, kind auth.IdentityKind, signer Signer, defaults auth.Properties) (AuthScheme, error) {
	if signer == nil {
		return nil, fmt.Errorf("auth scheme %s: signer is required", schemeID)
	}
	if sk := signer.IdentityKind(); sk != kind {
		return nil, fmt.Errorf("auth scheme %s resolves %s identity, but signer expects %s", schemeID, kind, sk)
	}
	return &authScheme{id: schemeID, kind: kind, signer: signer, props: defaults}, nil
}

func (s *authScheme) SchemeID() string                  { return s.id }
func (s *authScheme) IdentityKind() auth.IdentityKind   { return s.kind }
func (s *authScheme) Signer() Signer                    { return s.signer }
func (s *authScheme) SignerProperties() auth.Properties { return s.props }

func (s *authScheme) IdentityResolver(o auth.IdentityResolverOptions) auth.IdentityResolver {
	if o == nil {
		return nil
	}
	return o.GetIdentityResolver(s.id)
}

// anonymousScheme resolves its own identity so noAuth works without any
// configured resolver.
type anonymousScheme struct{}

// NewAnonymousScheme returns the smithy.api#noAuth scheme.
func NewAnonymousScheme() AuthScheme { return &anonymousScheme{} }

func (*anonymousScheme) SchemeID() string                { return auth.SchemeIDAnonymous }
func (*anonymousScheme) IdentityKind() auth.IdentityKind { return auth.IdentityKindAnonymous }
func (*anonymousScheme) Signer() Signer                  { return &NopSigner{} }
func (*anonymousScheme) SignerProperties() auth.Properties {
	return auth.Properties{}
}

func (*anonymousScheme) IdentityResolver(auth.IdentityResolverOptions) auth.IdentityResolver {
	return &auth.AnonymousIdentityResolver{}
}

// NewBearerScheme returns the smithy.api#httpBearerAuth scheme.
func NewBearerScheme() AuthScheme {
	return &authScheme{id: auth.SchemeIDBearer, kind: auth.IdentityKindToken, signer: &BearerSigner{}}
}

// NewBasicScheme returns the smithy.api#httpBasicAuth scheme.
func NewBasicScheme() AuthScheme {
	return &authScheme{id: auth.SchemeIDBasic, kind: auth.IdentityKindLogin, signer: &BasicSigner{}}
}

// NopSigner leaves the request unchanged.
type NopSigner struct{}

var _ Signer = (*NopSigner)(nil)

// IdentityKind returns the anonymous kind.
func (*NopSigner) IdentityKind() auth.IdentityKind { return auth.IdentityKindAnonymous }

// SignRequest does nothing.
func (*NopSigner) SignRequest(context.Context, *Request, auth.Identity, auth.Properties) error {
	return nil
}

// BearerSigner sets the Authorization header from a token identity.
type BearerSigner struct{}

var _ Signer = (*BearerSigner)(nil)

// IdentityKind returns the token kind.
func (*BearerSigner) IdentityKind() auth.IdentityKind { return auth.IdentityKindToken }

// SignRequest sets "Authorization: Bearer <token>". Requires HTTPS.
func (*BearerSigner) SignRequest(_ context.Context, r *Request, id auth.Identity, _ auth.Properties) error {
	token, ok := id.(*auth.Token)
	if !ok {
		return fmt.Errorf("bearer signer: unexpected identity type %T", id)
	}
	if !r.IsHTTPS() {
		return fmt.Errorf("bearer signer: refusing to send token over non-HTTPS request")
	}

	r.Header.Set("Authorization", "Bearer "+token.Value)
	return nil
}

// BasicSigner sets the Authorization header from a login identity.
type BasicSigner struct{}

var _ Signer = (*BasicSigner)(nil)

// IdentityKind returns the login kind.
func (*BasicSigner) IdentityKind() auth.IdentityKind { return auth.IdentityKindLogin }

// SignRequest sets "Authorization: Basic base64(username:password)".
func (*BasicSigner) SignRequest(_ context.Context, r *Request, id auth.Identity, _ auth.Properties) error {
	login, ok := id.(*auth.Login)
	if !ok {
		return fmt.Errorf("basic signer: unexpected identity type %T", id)
	}

	v := base64.StdEncoding.EncodeToString([]byte(login.Username + ":" + login.Password))
	r.Header.Set("Authorization", "Basic "+v)
	return nil
}

// Package bearer provides bearer token identities and resolvers for the
// smithy.api#httpBearerAuth scheme.
package bearer

import (
	"context"
	"os"
	"strings"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/smithy-lang/smithy-go-client/auth"
)

// NewToken returns a token identity for value. When value is a JWT with an
// exp claim, the token expires at that time. The JWT signature is not
// verified, the service remains the authority on the token.
func NewToken(value string) *auth.Token {
	t := &auth.Token{Value: value}

	var claims gojwt.RegisteredClaims
	if _, _, err := gojwt.NewParser().ParseUnverified(value, &claims); err != nil {
		return t
	}
	if claims.ExpiresAt != nil {
		t.Expires = claims.ExpiresAt.Time
	}
	return t
}

// DefaultTokenEnvVar is the environment variable EnvTokenResolver reads when
// no other is configured.
const DefaultTokenEnvVar = "SMITHY_BEARER_TOKEN"

// EnvTokenResolver resolves a token from an environment variable.
type EnvTokenResolver struct {
	// Variable to read, DefaultTokenEnvVar if empty.
	Variable string

	lookupEnv func(string) (string, bool)
}

var _ auth.IdentityResolver = (*EnvTokenResolver)(nil)

// IdentityKind returns the token kind.
func (*EnvTokenResolver) IdentityKind() auth.IdentityKind { return auth.IdentityKindToken }

// ResolveIdentity returns the token in the environment. A missing or blank
// variable is reported as *auth.IdentityNotFoundError.
func (r *EnvTokenResolver) ResolveIdentity(context.Context, auth.Properties) (auth.Identity, error) {
	name := r.Variable
	if len(name) == 0 {
		name = DefaultTokenEnvVar
	}
	lookup := r.lookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	v, _ := lookup(name)
	v = strings.TrimSpace(v)
	if len(v) == 0 {
		return nil, &auth.IdentityNotFoundError{
			Resolver: "EnvTokenResolver",
			Kind:     auth.IdentityKindToken,
			Message:  name + " not set",
		}
	}
	return NewToken(v), nil
}

// Package apikey implements the smithy.api#httpApiKeyAuth scheme, which sends
// a token identity in a header or query parameter.
package apikey

import (
	"context"
	"fmt"

	"github.com/smithy-lang/smithy-go-client/auth"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

// Location is where the api key is placed on the request.
type Location string

// Enumerates Location as it appears in the httpApiKeyAuth trait.
const (
	InHeader Location = "header"
	InQuery  Location = "query"
)

// Signer properties understood by Signer.
var (
	In = auth.NewProperty[Location]("ApiKeyIn")

	// Name of the header or query parameter.
	Name = auth.NewProperty[string]("ApiKeyName")

	// Scheme prefixes the key in a header value, e.g. "ApiKey <key>".
	Scheme = auth.NewProperty[string]("ApiKeyScheme")
)

// Signer places the token identity's value on the request as an api key.
type Signer struct{}

var _ smithyhttp.Signer = (*Signer)(nil)

// IdentityKind returns the token kind.
func (*Signer) IdentityKind() auth.IdentityKind { return auth.IdentityKindToken }

// SignRequest adds the api key to the header or query parameter named by
// the signer properties.
func (*Signer) SignRequest(_ context.Context, r *smithyhttp.Request, id auth.Identity, props auth.Properties) error {
	token, ok := id.(*auth.Token)
	if !ok {
		return fmt.Errorf("api key signer: unexpected identity type %T", id)
	}

	name, _ := auth.GetProperty(props, Name)
	if len(name) == 0 {
		return fmt.Errorf("api key signer: name is required")
	}

	in, _ := auth.GetProperty(props, In)
	switch in {
	case InHeader:
		v := token.Value
		if scheme, _ := auth.GetProperty(props, Scheme); len(scheme) != 0 {
			v = scheme + " " + v
		}
		r.Header.Set(name, v)
	case InQuery:
		values := r.URL.Query()
		values.Set(name, token.Value)
		r.URL.RawQuery = values.Encode()
	default:
		return fmt.Errorf("api key signer: invalid location %q", in)
	}
	return nil
}

// NewScheme returns the httpApiKeyAuth scheme placing the key at in under
// name. scheme is only used for header keys and may be empty.
func NewScheme(in Location, name, scheme string) (smithyhttp.AuthScheme, error) {
	if in != InHeader && in != InQuery {
		return nil, fmt.Errorf("api key scheme: invalid location %q", in)
	}

	b := auth.NewPropertiesBuilder()
	auth.SetProperty(b, In, in)
	auth.SetProperty(b, Name, name)
	auth.SetProperty(b, Scheme, scheme)
	return smithyhttp.NewAuthScheme(auth.SchemeIDAPIKey, auth.IdentityKindToken, &Signer{}, b.Build())
}

// Package credentials provides identity resolvers for AWS credentials read
// from the environment and from the shared credentials file.
package credentials

import (
	"context"
	"os"

	"github.com/smithy-lang/smithy-go-client/auth"
)

// Environment variables read by EnvResolver.
const (
	EnvAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	EnvSessionToken    = "AWS_SESSION_TOKEN"
	EnvAccountID       = "AWS_ACCOUNT_ID"
)

// EnvResolver resolves AWS credentials from environment variables.
type EnvResolver struct {
	lookupEnv func(string) (string, bool)
}

var _ auth.IdentityResolver = (*EnvResolver)(nil)

// IdentityKind returns the AWS credentials kind.
func (*EnvResolver) IdentityKind() auth.IdentityKind { return auth.IdentityKindAWSCredentials }

// ResolveIdentity returns the credentials in the environment. Both the access
// key ID and secret must be set, otherwise *auth.IdentityNotFoundError is
// returned.
func (r *EnvResolver) ResolveIdentity(context.Context, auth.Properties) (auth.Identity, error) {
	lookup := r.lookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(k string) string {
		v, _ := lookup(k)
		return v
	}

	creds := &auth.AWSCredentials{
		AccessKeyID:     get(EnvAccessKeyID),
		SecretAccessKey: get(EnvSecretAccessKey),
		SessionToken:    get(EnvSessionToken),
		AccountID:       get(EnvAccountID),
	}
	switch {
	case len(creds.AccessKeyID) == 0:
		return nil, notFound("EnvResolver", EnvAccessKeyID+" not set")
	case len(creds.SecretAccessKey) == 0:
		return nil, notFound("EnvResolver", EnvSecretAccessKey+" not set")
	}
	return creds, nil
}

func notFound(resolver, msg string) error {
	return &auth.IdentityNotFoundError{
		Resolver: resolver,
		Kind:     auth.IdentityKindAWSCredentials,
		Message:  msg,
	}
}

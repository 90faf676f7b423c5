package auth

import (
	"time"
)

// IdentityKind enumerates the closed set of identity variants.
type IdentityKind int

// Enumerates IdentityKind.
const (
	IdentityKindAnonymous IdentityKind = iota
	IdentityKindAWSCredentials
	IdentityKindToken
	IdentityKindLogin
)

func (k IdentityKind) String() string {
	switch k {
	case IdentityKindAnonymous:
		return "anonymous"
	case IdentityKindAWSCredentials:
		return "aws credentials"
	case IdentityKindToken:
		return "token"
	case IdentityKindLogin:
		return "login"
	default:
		return "unknown"
	}
}

// Identity contains information that identifies who the user making the
// request is.
//
// The set of implementations is closed: *AnonymousIdentity, *AWSCredentials,
// *Token and *Login.
type Identity interface {
	Kind() IdentityKind

	// Expiration returns when the identity expires. The zero time indicates
	// the identity does not expire.
	Expiration() time.Time

	identity()
}

// IsExpired returns whether the identity is expired at t.
func IsExpired(id Identity, t time.Time) bool {
	exp := id.Expiration()
	return !exp.IsZero() && !t.Before(exp)
}

// AnonymousIdentity is a sentinel to indicate no identity.
type AnonymousIdentity struct{}

// Kind returns IdentityKindAnonymous.
func (*AnonymousIdentity) Kind() IdentityKind { return IdentityKindAnonymous }

// Expiration returns the zero value for time, as anonymous identity never
// expires.
func (*AnonymousIdentity) Expiration() time.Time { return time.Time{} }

func (*AnonymousIdentity) identity() {}

// AWSCredentials is an AWS access key pair, with an optional session token.
type AWSCredentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	AccountID       string

	// Expires is the zero time for credentials that do not expire.
	Expires time.Time
}

// Kind returns IdentityKindAWSCredentials.
func (*AWSCredentials) Kind() IdentityKind { return IdentityKindAWSCredentials }

// Expiration returns when the credentials expire.
func (c *AWSCredentials) Expiration() time.Time { return c.Expires }

func (*AWSCredentials) identity() {}

// Token is a bearer token.
type Token struct {
	Value   string
	Expires time.Time
}

// Kind returns IdentityKindToken.
func (*Token) Kind() IdentityKind { return IdentityKindToken }

// Expiration returns when the token expires.
func (t *Token) Expiration() time.Time { return t.Expires }

func (*Token) identity() {}

// Login is a username and password pair.
type Login struct {
	Username string
	Password string
}

// Kind returns IdentityKindLogin.
func (*Login) Kind() IdentityKind { return IdentityKindLogin }

// Expiration returns the zero time, logins do not expire.
func (*Login) Expiration() time.Time { return time.Time{} }

func (*Login) identity() {}

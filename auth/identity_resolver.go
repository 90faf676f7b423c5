package auth

import (
	"context"
	"fmt"
)

// IdentityResolver defines the interface through which an Identity is
// retrieved.
//
// ResolveIdentity returns exactly one identity, or an error. A resolver that
// has nothing to provide returns *IdentityNotFoundError. A resolver never
// returns a nil identity with a nil error.
type IdentityResolver interface {
	IdentityKind() IdentityKind
	ResolveIdentity(context.Context, Properties) (Identity, error)
}

// IdentityResolverOptions defines the interface through which an entity can be
// queried to retrieve an IdentityResolver for a given auth scheme.
type IdentityResolverOptions interface {
	GetIdentityResolver(schemeID string) IdentityResolver
}

// IdentityResolverFunc returns an IdentityResolver of the given kind that
// calls fn.
func IdentityResolverFunc(kind IdentityKind, fn func(context.Context, Properties) (Identity, error)) IdentityResolver {
	return identityResolverFunc{kind: kind, fn: fn}
}

type identityResolverFunc struct {
	kind IdentityKind
	fn   func(context.Context, Properties) (Identity, error)
}

func (r identityResolverFunc) IdentityKind() IdentityKind { return r.kind }

func (r identityResolverFunc) ResolveIdentity(ctx context.Context, props Properties) (Identity, error) {
	return r.fn(ctx, props)
}

// StaticIdentityResolver always resolves the same identity.
type StaticIdentityResolver struct {
	Identity Identity
}

var _ IdentityResolver = (*StaticIdentityResolver)(nil)

// NewStaticIdentityResolver returns a resolver for id.
func NewStaticIdentityResolver(id Identity) *StaticIdentityResolver {
	return &StaticIdentityResolver{Identity: id}
}

// IdentityKind returns the kind of the wrapped identity.
func (r *StaticIdentityResolver) IdentityKind() IdentityKind {
	if r.Identity == nil {
		return IdentityKindAnonymous
	}
	return r.Identity.Kind()
}

// ResolveIdentity returns the wrapped identity.
func (r *StaticIdentityResolver) ResolveIdentity(context.Context, Properties) (Identity, error) {
	if r.Identity == nil {
		return nil, &IdentityNotFoundError{
			Resolver: "StaticIdentityResolver",
			Kind:     r.IdentityKind(),
			Message:  "no identity configured",
		}
	}
	return r.Identity, nil
}

// AnonymousIdentityResolver returns AnonymousIdentity.
type AnonymousIdentityResolver struct{}

var _ IdentityResolver = (*AnonymousIdentityResolver)(nil)

// IdentityKind returns IdentityKindAnonymous.
func (*AnonymousIdentityResolver) IdentityKind() IdentityKind { return IdentityKindAnonymous }

// ResolveIdentity returns AnonymousIdentity for any input.
func (*AnonymousIdentityResolver) ResolveIdentity(context.Context, Properties) (Identity, error) {
	return &AnonymousIdentity{}, nil
}

// resolve calls r and enforces the resolver contract on its result.
func resolve(ctx context.Context, r IdentityResolver, props Properties) (Identity, error) {
	id, err := r.ResolveIdentity(ctx, props)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, fmt.Errorf("identity resolver %T returned no identity", r)
	}
	if id.Kind() != r.IdentityKind() {
		return nil, fmt.Errorf("identity resolver %T returned %s identity, expect %s",
			r, id.Kind(), r.IdentityKind())
	}
	return id, nil
}

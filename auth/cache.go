package auth

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// CachingIdentityResolver caches the identity of an underlying resolver until
// it is within ExpiryWindow of expiring. Identities without an expiration
// are cached until Invalidate is called.
//
// Concurrent calls that find the cache empty or expired share a single
// call to the underlying resolver.
type CachingIdentityResolver struct {
	resolver IdentityResolver
	options  CachingOptions

	cached atomic.Pointer[cachedIdentity]
	sf     singleflight.Group
}

// CachingOptions configures a CachingIdentityResolver.
type CachingOptions struct {
	// How long before expiration an identity is considered expired.
	ExpiryWindow time.Duration

	// Clock used to check expiration, time.Now if nil.
	Clock func() time.Time
}

type cachedIdentity struct {
	identity Identity
}

var _ IdentityResolver = (*CachingIdentityResolver)(nil)

// NewCachingIdentityResolver wraps resolver with a cache.
func NewCachingIdentityResolver(resolver IdentityResolver, optFns ...func(*CachingOptions)) *CachingIdentityResolver {
	var o CachingOptions
	for _, fn := range optFns {
		fn(&o)
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}

	return &CachingIdentityResolver{
		resolver: resolver,
		options:  o,
	}
}

// IdentityKind returns the kind of the wrapped resolver.
func (c *CachingIdentityResolver) IdentityKind() IdentityKind {
	return c.resolver.IdentityKind()
}

// ResolveIdentity returns the cached identity, or resolves a new one if the
// cache is empty or expired.
func (c *CachingIdentityResolver) ResolveIdentity(ctx context.Context, props Properties) (Identity, error) {
	if v := c.cached.Load(); v != nil && !c.expired(v.identity) {
		return v.identity, nil
	}

	// the shared call outlives any single caller's cancellation
	resCh := c.sf.DoChan("", func() (interface{}, error) {
		if v := c.cached.Load(); v != nil && !c.expired(v.identity) {
			return v.identity, nil
		}

		id, err := resolve(context.WithoutCancel(ctx), c.resolver, props)
		if err != nil {
			return nil, err
		}
		c.cached.Store(&cachedIdentity{identity: id})
		return id, nil
	})

	select {
	case res := <-resCh:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Identity), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops the cached identity.
func (c *CachingIdentityResolver) Invalidate() {
	c.cached.Store(nil)
}

func (c *CachingIdentityResolver) expired(id Identity) bool {
	exp := id.Expiration()
	if exp.IsZero() {
		return false
	}
	return !c.options.Clock().Add(c.options.ExpiryWindow).Before(exp)
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/smithy-lang/smithy-go-client/logging"
	"github.com/smithy-lang/smithy-go-client/middleware"
)

// IdentityResolverChain resolves an identity from an ordered list of
// resolvers of the same kind, returning the first identity found.
//
// A resolver failing with *IdentityNotFoundError moves resolution to the next
// resolver. Any other failure stops the chain and is returned as is.
type IdentityResolverChain struct {
	resolvers []IdentityResolver
	kind      IdentityKind

	reuseLastSuccessful bool

	// index+1 of the last resolver attempted, 0 when unset. Concurrent
	// resolutions race on it, last writer wins.
	lastUsed atomic.Int64
}

var _ IdentityResolver = (*IdentityResolverChain)(nil)

// NewIdentityResolverChain returns a chain over resolvers. When
// reuseLastSuccessful is set the chain first tries the resolver that last
// produced an identity.
//
// Returns an error if resolvers is empty or the resolvers do not all resolve
// the same kind of identity.
func NewIdentityResolverChain(reuseLastSuccessful bool, resolvers ...IdentityResolver) (*IdentityResolverChain, error) {
	if len(resolvers) == 0 {
		return nil, fmt.Errorf("identity resolver chain requires at least one resolver")
	}

	kind := resolvers[0].IdentityKind()
	for i, r := range resolvers {
		if r == nil {
			return nil, fmt.Errorf("identity resolver chain: resolver %d is nil", i)
		}
		if k := r.IdentityKind(); k != kind {
			return nil, fmt.Errorf("identity resolver chain: resolver %d (%T) resolves %s identity, expect %s",
				i, r, k, kind)
		}
	}

	return &IdentityResolverChain{
		resolvers:           append([]IdentityResolver(nil), resolvers...),
		kind:                kind,
		reuseLastSuccessful: reuseLastSuccessful,
	}, nil
}

// IdentityKind returns the kind of identity all resolvers in the chain
// resolve.
func (c *IdentityResolverChain) IdentityKind() IdentityKind {
	return c.kind
}

// ResolveIdentity resolves an identity from the chain.
func (c *IdentityResolverChain) ResolveIdentity(ctx context.Context, props Properties) (Identity, error) {
	logger := middleware.GetLogger(ctx)

	if c.reuseLastSuccessful {
		if last := c.lastUsed.Load(); last > 0 {
			r := c.resolvers[last-1]
			id, err := resolve(ctx, r, props)
			if err == nil {
				return id, nil
			}
			if !isNotFound(err) {
				return nil, err
			}

			logger.Logf(logging.Debug, "cached identity resolver %T found no identity, falling back to chain, %v", r, err)
			c.lastUsed.CompareAndSwap(last, 0)
		}
	}

	var reasons []string
	for i, r := range c.resolvers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if c.reuseLastSuccessful {
			c.lastUsed.Store(int64(i + 1))
		}

		id, err := resolve(ctx, r, props)
		if err == nil {
			return id, nil
		}
		if !isNotFound(err) {
			return nil, err
		}

		logger.Logf(logging.Debug, "identity resolver %T found no identity, %v", r, err)
		reasons = append(reasons, err.Error())
	}

	if c.reuseLastSuccessful {
		c.lastUsed.Store(0)
	}

	return nil, &IdentityNotFoundError{
		Resolver: "IdentityResolverChain",
		Kind:     c.kind,
		Message:  "[" + strings.Join(reasons, ", ") + "]",
	}
}

func isNotFound(err error) bool {
	var nf *IdentityNotFoundError
	return errors.As(err, &nf)
}

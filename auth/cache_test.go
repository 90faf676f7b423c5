package auth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCachingIdentityResolver(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var calls int32

	resolver := IdentityResolverFunc(IdentityKindToken, func(context.Context, Properties) (Identity, error) {
		n := atomic.AddInt32(&calls, 1)
		return &Token{
			Value:   string(rune('a' + n - 1)),
			Expires: now.Add(10 * time.Minute),
		}, nil
	})

	cache := NewCachingIdentityResolver(resolver, func(o *CachingOptions) {
		o.ExpiryWindow = time.Minute
		o.Clock = func() time.Time { return now }
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		id, err := cache.ResolveIdentity(ctx, Properties{})
		if err != nil {
			t.Fatalf("expect no error, got %v", err)
		}
		if e, a := "a", id.(*Token).Value; e != a {
			t.Errorf("expect %v, got %v", e, a)
		}
	}
	if e, a := int32(1), atomic.LoadInt32(&calls); e != a {
		t.Fatalf("expect %v calls, got %v", e, a)
	}

	// within the expiry window
	now = now.Add(9*time.Minute + time.Second)
	id, err := cache.ResolveIdentity(ctx, Properties{})
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if e, a := "b", id.(*Token).Value; e != a {
		t.Errorf("expect refreshed identity %v, got %v", e, a)
	}

	cache.Invalidate()
	id, _ = cache.ResolveIdentity(ctx, Properties{})
	if e, a := "c", id.(*Token).Value; e != a {
		t.Errorf("expect identity %v after invalidate, got %v", e, a)
	}
}

func TestCachingIdentityResolver_Concurrent(t *testing.T) {
	var calls int32
	release := make(chan struct{})

	resolver := IdentityResolverFunc(IdentityKindLogin, func(context.Context, Properties) (Identity, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &Login{Username: "u"}, nil
	})
	cache := NewCachingIdentityResolver(resolver)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.ResolveIdentity(context.Background(), Properties{}); err != nil {
				t.Errorf("expect no error, got %v", err)
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	if e, a := int32(1), atomic.LoadInt32(&calls); e != a {
		t.Errorf("expect %v call, got %v", e, a)
	}
}

func TestCachingIdentityResolver_Canceled(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	resolver := IdentityResolverFunc(IdentityKindToken, func(context.Context, Properties) (Identity, error) {
		<-block
		return &Token{}, nil
	})
	cache := NewCachingIdentityResolver(resolver)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := cache.ResolveIdentity(ctx, Properties{}); err != context.Canceled {
		t.Errorf("expect context canceled, got %v", err)
	}
}

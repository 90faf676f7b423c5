package middleware

import (
	"context"
	"reflect"
	"testing"
)

type mockIder string

func (m mockIder) ID() string { return string(m) }

func noError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
}

func expectID(t *testing.T, got ider, id string) {
	t.Helper()
	if got == nil {
		t.Fatalf("expect %v, got nil", id)
	}
	if e, a := id, got.ID(); e != a {
		t.Errorf("expect %v id, got %v", e, a)
	}
}

func expectIDList(t *testing.T, expect, actual []string) {
	t.Helper()
	if len(expect) == 0 && len(actual) == 0 {
		return
	}
	if !reflect.DeepEqual(expect, actual) {
		t.Errorf("expect %v ids, got %v", expect, actual)
	}
}

func mockInitializeMiddleware(id string) InitializeMiddleware {
	return InitializeMiddlewareFunc(id,
		func(ctx context.Context, in InitializeInput, next InitializeHandler) (
			out InitializeOutput, metadata Metadata, err error,
		) {
			return next.HandleInitialize(ctx, in)
		})
}

package middleware

import (
	"context"
	"fmt"
	"reflect"
	"testing"
)

func TestStackOrder(t *testing.T) {
	stack := NewStack("test stack", func() interface{} { return &[]string{} })

	record := func(id string) func(*[]string) {
		return func(r *[]string) { *r = append(*r, id) }
	}

	var initialized interface{}
	noError(t, stack.Initialize.Add(InitializeMiddlewareFunc("init", func(
		ctx context.Context, in InitializeInput, next InitializeHandler,
	) (InitializeOutput, Metadata, error) {
		initialized = in.Parameters
		return next.HandleInitialize(ctx, in)
	}), After))
	noError(t, stack.Serialize.Add(SerializeMiddlewareFunc("serialize", func(
		ctx context.Context, in SerializeInput, next SerializeHandler,
	) (SerializeOutput, Metadata, error) {
		record("serialize:" + in.Parameters.(string))(in.Request.(*[]string))
		return next.HandleSerialize(ctx, in)
	}), After))
	noError(t, stack.Build.Add(BuildMiddlewareFunc("build", func(
		ctx context.Context, in BuildInput, next BuildHandler,
	) (BuildOutput, Metadata, error) {
		record("build")(in.Request.(*[]string))
		return next.HandleBuild(ctx, in)
	}), After))
	noError(t, stack.Finalize.Add(FinalizeMiddlewareFunc("finalize", func(
		ctx context.Context, in FinalizeInput, next FinalizeHandler,
	) (FinalizeOutput, Metadata, error) {
		record("finalize")(in.Request.(*[]string))
		return next.HandleFinalize(ctx, in)
	}), After))
	noError(t, stack.Deserialize.Add(DeserializeMiddlewareFunc("deserialize", func(
		ctx context.Context, in DeserializeInput, next DeserializeHandler,
	) (DeserializeOutput, Metadata, error) {
		out, metadata, err := next.HandleDeserialize(ctx, in)
		if err != nil {
			return out, metadata, err
		}
		out.Result = fmt.Sprintf("%v", out.RawResponse)
		return out, metadata, nil
	}), After))

	handler := DecorateHandler(HandlerFunc(func(ctx context.Context, in interface{}) (interface{}, Metadata, error) {
		r := in.(*[]string)
		return append(*r, "handler"), Metadata{}, nil
	}), stack)

	result, _, err := handler.Handle(context.Background(), "input")
	noError(t, err)

	if e, a := "input", initialized; e != a {
		t.Errorf("expect %v, got %v", e, a)
	}
	if e, a := "[serialize:input build finalize handler]", result; e != a {
		t.Errorf("expect %v, got %v", e, a)
	}

	expectList := []string{
		"test stack",
		"Initialize stack step", "init",
		"Serialize stack step", "serialize",
		"Build stack step", "build",
		"Finalize stack step", "finalize",
		"Deserialize stack step", "deserialize",
	}
	if e, a := expectList, stack.List(); !reflect.DeepEqual(e, a) {
		t.Errorf("expect %v, got %v", e, a)
	}
}

func TestStackValues(t *testing.T) {
	type key struct{}

	ctx := context.Background()
	if v := GetStackValue(ctx, key{}); v != nil {
		t.Fatalf("expect no value, got %v", v)
	}

	ctx = WithStackValue(ctx, key{}, "a")
	ctx = WithStackValue(ctx, "other", "b")
	if e, a := "a", GetStackValue(ctx, key{}); e != a {
		t.Errorf("expect %v, got %v", e, a)
	}

	ctx = ClearStackValues(ctx)
	if v := GetStackValue(ctx, key{}); v != nil {
		t.Errorf("expect cleared value, got %v", v)
	}
}

func TestMetadata(t *testing.T) {
	var m Metadata
	if m.Has("k") {
		t.Fatalf("expect empty metadata")
	}

	SetOperationName(&m, "GetWidget")
	SetAttempts(&m, 2)

	c := m.Clone()
	c.Set("k", "v")

	if e, a := "GetWidget", GetOperationName(c); e != a {
		t.Errorf("expect %v, got %v", e, a)
	}
	if e, a := 2, GetAttempts(m); e != a {
		t.Errorf("expect %v, got %v", e, a)
	}
	if m.Has("k") {
		t.Errorf("expect clone to not modify original")
	}
}

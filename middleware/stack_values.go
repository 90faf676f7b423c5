package middleware

import "context"

// WithStackValue adds a key value pair to the context that is intended to be
// scoped to a stack. Use ClearStackValues to get a new context with all stack
// values cleared.
func WithStackValue(ctx context.Context, key, value interface{}) context.Context {
	md, _ := ctx.Value(stackValuesKey{}).(*stackValues)

	md = withStackValue(md, key, value)
	return context.WithValue(ctx, stackValuesKey{}, md)
}

// ClearStackValues returns a context without any stack values.
func ClearStackValues(ctx context.Context) context.Context {
	return context.WithValue(ctx, stackValuesKey{}, nil)
}

// GetStackValue looks up a value in the stack scoped values of ctx.
func GetStackValue(ctx context.Context, key interface{}) interface{} {
	md, _ := ctx.Value(stackValuesKey{}).(*stackValues)
	if md == nil {
		return nil
	}
	return md.Value(key)
}

type stackValuesKey struct{}

type stackValues struct {
	key    interface{}
	value  interface{}
	parent *stackValues
}

func withStackValue(parent *stackValues, key, value interface{}) *stackValues {
	if key == nil {
		panic("nil key")
	}
	return &stackValues{key: key, value: value, parent: parent}
}

func (m *stackValues) Value(key interface{}) interface{} {
	if key == m.key {
		return m.value
	}

	if m.parent == nil {
		return nil
	}

	return m.parent.Value(key)
}

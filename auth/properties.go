package auth

import "reflect"

// Property is a typed key into Properties. Keys are compared by identity, two
// properties created with the same name are distinct keys.
type Property[T any] struct {
	name string
}

// NewProperty returns a new property key. The name is only used for
// diagnostics.
func NewProperty[T any](name string) *Property[T] {
	return &Property[T]{name: name}
}

func (p *Property[T]) String() string {
	return p.name
}

// Properties is an immutable set of typed values used to pass identity and
// signing context. The zero value is the empty set.
type Properties struct {
	values map[any]any
}

// GetProperty returns the value of key in p. Absent keys return the zero
// value of T and false.
func GetProperty[T any](p Properties, key *Property[T]) (T, bool) {
	v, ok := p.values[key].(T)
	return v, ok
}

// HasProperty returns whether key is present in p.
func HasProperty[T any](p Properties, key *Property[T]) bool {
	_, ok := p.values[key]
	return ok
}

// Len returns the number of values in p.
func (p Properties) Len() int {
	return len(p.values)
}

// Merge returns a new set with the values of both p and other. Values in
// other win on key collision. Neither input is modified.
func (p Properties) Merge(other Properties) Properties {
	if len(other.values) == 0 {
		return p
	}
	if len(p.values) == 0 {
		return other
	}

	merged := make(map[any]any, len(p.values)+len(other.values))
	for k, v := range p.values {
		merged[k] = v
	}
	for k, v := range other.values {
		merged[k] = v
	}
	return Properties{values: merged}
}

// ToBuilder returns a builder seeded with the values of p.
func (p Properties) ToBuilder() *PropertiesBuilder {
	b := NewPropertiesBuilder()
	for k, v := range p.values {
		b.values[k] = v
	}
	return b
}

// PropertiesBuilder accumulates values for an immutable Properties.
type PropertiesBuilder struct {
	values map[any]any
}

// NewPropertiesBuilder returns an empty builder.
func NewPropertiesBuilder() *PropertiesBuilder {
	return &PropertiesBuilder{values: map[any]any{}}
}

// SetProperty sets key to v on the builder. Setting a nil value removes the
// key, Properties never hold nil values.
func SetProperty[T any](b *PropertiesBuilder, key *Property[T], v T) *PropertiesBuilder {
	if b.values == nil {
		b.values = map[any]any{}
	}
	if isNil(v) {
		delete(b.values, key)
		return b
	}
	b.values[key] = v
	return b
}

// Build returns the accumulated Properties. The builder is reset, so it can be
// reused without affecting the returned set.
func (b *PropertiesBuilder) Build() Properties {
	if len(b.values) == 0 {
		return Properties{}
	}
	p := Properties{values: make(map[any]any, len(b.values))}
	for k, v := range b.values {
		p.values[k] = v
	}
	clear(b.values)
	return p
}

// isNil reports whether v is nil, including typed nil pointers, maps,
// slices, funcs, channels and interfaces.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

package httpbinding

import (
	"fmt"
	"sort"

	"github.com/smithy-lang/smithy-go-client/encoding/json"
)

// RestJSON1 is the shape ID of the restJson1 protocol.
const RestJSON1 = "aws.protocols#restJson1"

// Constructor creates a protocol instance.
type Constructor func(optFns ...func(*Options)) *Protocol

// Registry maps protocol shape IDs to their constructors. Clients pick their
// protocol from a registry explicitly; nothing is discovered at runtime.
type Registry struct {
	ctors map[string]Constructor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{ctors: map[string]Constructor{}}
}

// DefaultRegistry returns a Registry holding the protocols implemented by
// this package.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.ctors[RestJSON1] = NewRestJSON1
	return r
}

// NewRestJSON1 returns the restJson1 protocol: JSON bodies honoring
// smithy.api#jsonName, with the error type in the X-Amzn-Errortype header or
// the __type and code fields of the payload.
func NewRestJSON1(optFns ...func(*Options)) *Protocol {
	return New(RestJSON1, &json.Codec{UseJSONName: true}, optFns...)
}

// Register adds a protocol constructor. Returns an error if the ID is already
// registered.
func (r *Registry) Register(id string, ctor Constructor) error {
	if ctor == nil {
		return fmt.Errorf("protocol %s: nil constructor", id)
	}
	if _, ok := r.ctors[id]; ok {
		return fmt.Errorf("protocol already registered, %s", id)
	}
	r.ctors[id] = ctor
	return nil
}

// New creates an instance of the protocol with the given ID.
func (r *Registry) New(id string, optFns ...func(*Options)) (*Protocol, error) {
	ctor, ok := r.ctors[id]
	if !ok {
		return nil, fmt.Errorf("unknown protocol %s", id)
	}
	return ctor(optFns...), nil
}

// IDs returns the registered protocol IDs in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.ctors))
	for id := range r.ctors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

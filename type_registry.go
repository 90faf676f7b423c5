package smithy

import "fmt"

// TypeRegistry creates an instance of a type based on its Smithy IDL shape ID.
//
// Generated clients attach a registry of modeled errors to every operation
// (see Operation.Errors) rather than sharing a process-wide table.
type TypeRegistry struct {
	entries map[string]*TypeRegistryEntry
	byName  map[string]*TypeRegistryEntry
}

// TypeRegistryEntry is a single registered type.
type TypeRegistryEntry struct {
	Schema *Schema
	New    func() any
}

// RegistryEntry creates a type registry entry.
func RegistryEntry[T any](schema *Schema) *TypeRegistryEntry {
	return &TypeRegistryEntry{
		Schema: schema,
		New: func() any {
			return new(T)
		},
	}
}

// NewTypeRegistry returns a registry holding the given entries, keyed by the
// absolute shape ID of each entry's schema. Returns an error if two entries
// share a shape ID.
func NewTypeRegistry(entries ...*TypeRegistryEntry) (*TypeRegistry, error) {
	r := &TypeRegistry{
		entries: make(map[string]*TypeRegistryEntry, len(entries)),
		byName:  make(map[string]*TypeRegistryEntry, len(entries)),
	}
	for _, e := range entries {
		id := e.Schema.ID()
		if _, ok := r.entries[id.String()]; ok {
			return nil, fmt.Errorf("type already registered, %s", id)
		}
		r.entries[id.String()] = e

		// relative names are only usable while unambiguous
		if _, ok := r.byName[id.Name]; ok {
			r.byName[id.Name] = nil
		} else {
			r.byName[id.Name] = e
		}
	}
	return r, nil
}

// Lookup returns the entry for the given shape ID. The ID may be absolute
// ("com.example#NotFound") or, when unambiguous in the registry, relative
// ("NotFound").
func (t *TypeRegistry) Lookup(id string) (*TypeRegistryEntry, bool) {
	if t == nil {
		return nil, false
	}
	if e, ok := t.entries[id]; ok {
		return e, true
	}
	if e := t.byName[id]; e != nil {
		return e, true
	}
	return nil, false
}

// Len returns the number of registered types.
func (t *TypeRegistry) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// DeserializableError provides an instance of a deserializable error structure
// for a given shape ID.
//
// The ID is given as a string here since this will be called in a context where
// a shape ID is a discriminator read in from some wire payload.
func (t *TypeRegistry) DeserializableError(id string) (DeserializableError, bool) {
	return typeRegistryLookup[DeserializableError](t, id)
}

func typeRegistryLookup[T any](t *TypeRegistry, id string) (T, bool) {
	entry, ok := t.Lookup(id)
	if !ok {
		var v T
		return v, false
	}

	v, ok := entry.New().(T)
	return v, ok
}

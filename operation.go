package smithy

// Operation describes a modeled service operation to the client runtime.
//
// Generated clients declare one Operation per API, carrying the schemas used
// to bind input and output as well as the operation's modeled errors.
type Operation struct {
	// The service the operation belongs to, used to decorate errors.
	ServiceID string

	// The operation name, e.g. "GetWidget".
	Name string

	// The operation schema. Operation-level traits such as smithy.api#http,
	// smithy.api#endpoint or smithy.api#requestCompression are read from
	// it.
	Schema *Schema

	InputSchema  *Schema
	OutputSchema *Schema

	// Modeled errors the operation can return.
	Errors *TypeRegistry

	// Modeled events of an output event stream, if the operation has one.
	OutputEvents *TypeRegistry

	// The effective auth schemes of the operation, in priority order.
	AuthSchemes []string
}

// InputEventStream returns the member of the operation input that is an
// event stream, if any.
func (o *Operation) InputEventStream() *Schema {
	return streamingMember(o.InputSchema)
}

// OutputEventStream returns the member of the operation output that is an
// event stream, if any.
func (o *Operation) OutputEventStream() *Schema {
	return streamingMember(o.OutputSchema)
}

func streamingMember(s *Schema) *Schema {
	if s == nil {
		return nil
	}
	for _, m := range s.Members() {
		if m.Type() == ShapeTypeUnion && m.HasTrait("smithy.api#streaming") {
			return m
		}
	}
	return nil
}

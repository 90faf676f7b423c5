package smithy

import (
	"time"
)

// Codec provides implementations of Serializer and ShapeDeserializer to be
// used by a Protocol.
type Codec interface {
	// MediaType is the content type of payloads produced by the codec, e.g.
	// "application/json".
	MediaType() string

	Serializer() ShapeSerializer
	Deserializer([]byte) ShapeDeserializer
}

// DocumentDecoder is implemented by codecs that can decode a payload into an
// untyped document of maps, slices, strings, numbers and bools. Protocols
// search error payloads decoded this way for error discriminators and
// messages.
type DocumentDecoder interface {
	DecodeDocument([]byte) (any, error)
}

// ShapeSerializer implements the marshaling of an in-code representation of a
// shape to an unspecified data format, which is determined by the
// implementation.
//
// Optional (pointer) members are written with the package-level helpers such
// as WriteStringPtr, which skip nil values.
type ShapeSerializer interface {
	Bytes() []byte

	WriteInt8(*Schema, int8)
	WriteInt16(*Schema, int16)
	WriteInt32(*Schema, int32)
	WriteInt64(*Schema, int64)

	WriteFloat32(*Schema, float32)
	WriteFloat64(*Schema, float64)

	WriteBool(*Schema, bool)
	WriteString(*Schema, string)
	WriteBlob(*Schema, []byte)
	WriteTime(*Schema, time.Time)

	// WriteStruct writes a structure, calling v.Serialize to write its
	// members.
	WriteStruct(*Schema, Serializable)

	WriteNil(*Schema)

	WriteList(*Schema)
	CloseList()

	WriteMap(*Schema)
	WriteKey(*Schema, string)
	CloseMap()
}

// ShapeDeserializer implements the unmarshaling from some unspecified data
// format to an encoded shape.
type ShapeDeserializer interface {
	ReadInt8(*Schema, *int8) error
	ReadInt16(*Schema, *int16) error
	ReadInt32(*Schema, *int32) error
	ReadInt64(*Schema, *int64) error

	ReadFloat32(*Schema, *float32) error
	ReadFloat64(*Schema, *float64) error

	ReadBool(*Schema, *bool) error
	ReadString(*Schema, *string) error
	ReadBlob(*Schema, *[]byte) error
	ReadTime(*Schema, *time.Time) error

	ReadList(*Schema) error
	// returns true if there's another item in the list, false at the end and
	// an error if a decode error is encountered. use other deserializer
	// methods to read the expected type from the deserializer
	ReadListItem(*Schema) (bool, error)

	ReadMap(*Schema) error
	// the bool will be true if there's another key in the list and the string
	// will have the value of that key, with any decode error in the error. use
	// other deserializer methods to read the expected type.
	ReadMapKey(*Schema) (string, bool, error)

	ReadStruct(*Schema) error
	// returns the member schema for the given struct, nil when there are no
	// more members, with any decode error in the error. use other deserializer
	// methods to read the expected type.
	ReadStructMember() (*Schema, error)
}

// Serializable is an entity that can describe itself to a ShapeSerializer to
// be encoded to some format.
//
// Serialize writes the members of the shape. The enclosing structure is opened
// and closed by ShapeSerializer.WriteStruct.
//
// Unlike the standard library marshaler interfaces, which idiomatically encode
// to []byte, the output format and data type here is not specified at all.
// This is because Smithy shapes need to encode to a variety of formats or data
// carriers. For example, HTTP-binding JSON protocols need to serialize some
// members to bytes (the HTTP request body) and others directly to fields on
// the HTTP request itself (e.g. headers).
type Serializable interface {
	Serialize(ShapeSerializer)
}

// Deserializable is an entity that can unmarshal itself from a
// ShapeDeserializer.
type Deserializable interface {
	Deserialize(ShapeDeserializer) error
}

// DeserializableError is implemented by modeled error types for a service.
type DeserializableError interface {
	Deserializable
	error
}

// ErrorCorrectable is implemented by output shapes that can fill required
// members that were absent from a response with their schema defaults.
type ErrorCorrectable interface {
	CorrectErrors()
}

// ReadStruct is a utility API for generated clients.
func ReadStruct(d ShapeDeserializer, schema *Schema, memberFn func(*Schema) error) error {
	if err := d.ReadStruct(schema); err != nil {
		return err
	}

	for {
		ms, err := d.ReadStructMember()
		if err != nil {
			return err
		}
		if ms == nil {
			return nil
		}

		if err := memberFn(ms); err != nil {
			return err
		}
	}
}

// ReadList is a utility API for generated clients.
func ReadList(d ShapeDeserializer, schema *Schema, memberFn func() error) error {
	if err := d.ReadList(schema); err != nil {
		return err
	}

	for {
		ok, err := d.ReadListItem(schema.Member("member"))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if err := memberFn(); err != nil {
			return err
		}
	}
}

// ReadMap is a utility API for generated clients.
func ReadMap(d ShapeDeserializer, schema *Schema, memberFn func(string) error) error {
	if err := d.ReadMap(schema); err != nil {
		return err
	}

	for {
		k, ok, err := d.ReadMapKey(schema.Member("key"))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if err := memberFn(k); err != nil {
			return err
		}
	}
}

// WriteStringPtr writes v if it is non-nil.
func WriteStringPtr(s ShapeSerializer, schema *Schema, v *string) {
	if v != nil {
		s.WriteString(schema, *v)
	}
}

// WriteInt32Ptr writes v if it is non-nil.
func WriteInt32Ptr(s ShapeSerializer, schema *Schema, v *int32) {
	if v != nil {
		s.WriteInt32(schema, *v)
	}
}

// WriteInt64Ptr writes v if it is non-nil.
func WriteInt64Ptr(s ShapeSerializer, schema *Schema, v *int64) {
	if v != nil {
		s.WriteInt64(schema, *v)
	}
}

// WriteFloat64Ptr writes v if it is non-nil.
func WriteFloat64Ptr(s ShapeSerializer, schema *Schema, v *float64) {
	if v != nil {
		s.WriteFloat64(schema, *v)
	}
}

// WriteBoolPtr writes v if it is non-nil.
func WriteBoolPtr(s ShapeSerializer, schema *Schema, v *bool) {
	if v != nil {
		s.WriteBool(schema, *v)
	}
}

// WriteTimePtr writes v if it is non-nil.
func WriteTimePtr(s ShapeSerializer, schema *Schema, v *time.Time) {
	if v != nil {
		s.WriteTime(schema, *v)
	}
}

// ReadStringPtr reads a string into a newly allocated value.
func ReadStringPtr(d ShapeDeserializer, schema *Schema, v **string) error {
	var s string
	if err := d.ReadString(schema, &s); err != nil {
		return err
	}
	*v = &s
	return nil
}

// ReadInt32Ptr reads an int32 into a newly allocated value.
func ReadInt32Ptr(d ShapeDeserializer, schema *Schema, v **int32) error {
	var n int32
	if err := d.ReadInt32(schema, &n); err != nil {
		return err
	}
	*v = &n
	return nil
}

// ReadInt64Ptr reads an int64 into a newly allocated value.
func ReadInt64Ptr(d ShapeDeserializer, schema *Schema, v **int64) error {
	var n int64
	if err := d.ReadInt64(schema, &n); err != nil {
		return err
	}
	*v = &n
	return nil
}

// ReadBoolPtr reads a bool into a newly allocated value.
func ReadBoolPtr(d ShapeDeserializer, schema *Schema, v **bool) error {
	var b bool
	if err := d.ReadBool(schema, &b); err != nil {
		return err
	}
	*v = &b
	return nil
}

// ReadTimePtr reads a timestamp into a newly allocated value.
func ReadTimePtr(d ShapeDeserializer, schema *Schema, v **time.Time) error {
	var t time.Time
	if err := d.ReadTime(schema, &t); err != nil {
		return err
	}
	*v = &t
	return nil
}

// Package json implements the JSON codec used by HTTP-binding JSON
// protocols.
package json

import (
	"bytes"
	"encoding/json"

	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/traits"
)

// Codec is a JSON codec.
type Codec struct {
	// Whether to respect smithy.api#jsonName on member shapes.
	UseJSONName bool
}

var (
	_ smithy.Codec           = (*Codec)(nil)
	_ smithy.DocumentDecoder = (*Codec)(nil)
)

// MediaType returns "application/json".
func (c *Codec) MediaType() string { return "application/json" }

// Serializer returns a JSON shape serializer.
func (c *Codec) Serializer() smithy.ShapeSerializer {
	return &ShapeSerializer{useJSONName: c.UseJSONName}
}

// Deserializer returns a JSON shape deserializer.
func (c *Codec) Deserializer(p []byte) smithy.ShapeDeserializer {
	d := NewShapeDeserializer(p)
	d.useJSONName = c.UseJSONName
	return d
}

// DecodeDocument decodes p into maps, slices and scalars. Numbers are
// decoded as json.Number.
func (c *Codec) DecodeDocument(p []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// memberKey returns the JSON object key of a member schema.
func memberKey(s *smithy.Schema, useJSONName bool) string {
	if useJSONName {
		if t, ok := smithy.SchemaTrait[*traits.JSONName](s); ok {
			return t.Name
		}
	}
	return s.MemberName()
}

type stack struct {
	values []any
}

type empty struct{}

func (s *stack) Top() any {
	if len(s.values) == 0 {
		return empty{}
	}
	return s.values[len(s.values)-1]
}

func (s *stack) Push(v any) {
	s.values = append(s.values, v)
}

func (s *stack) Pop() {
	if len(s.values) > 0 {
		s.values = s.values[:len(s.values)-1]
	}
}

func (s *stack) Len() int {
	return len(s.values)
}

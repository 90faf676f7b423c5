package client

import (
	"context"
	"fmt"

	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/httpbinding"
	"github.com/smithy-lang/smithy-go-client/middleware"
	"github.com/smithy-lang/smithy-go-client/middleware/id"
	"github.com/smithy-lang/smithy-go-client/rand"
	"github.com/smithy-lang/smithy-go-client/traits"
)

// idempotencyTokenMember returns the top-level input member carrying the
// idempotencyToken trait, if any.
func idempotencyTokenMember(s *smithy.Schema) *smithy.Schema {
	if s == nil {
		return nil
	}
	for _, m := range s.Members() {
		if _, ok := smithy.SchemaTrait[*traits.IdempotencyToken](m); ok {
			return m
		}
	}
	return nil
}

// idempotencyTokenAutoFill generates one token per call, so every attempt
// sends the same value.
type idempotencyTokenAutoFill struct {
	member   *smithy.Schema
	provider rand.IdempotencyTokenProvider
}

func (*idempotencyTokenAutoFill) ID() string { return id.OperationIdempotencyTokenAutoFill }

func (m *idempotencyTokenAutoFill) HandleInitialize(
	ctx context.Context, in middleware.InitializeInput, next middleware.InitializeHandler,
) (
	out middleware.InitializeOutput, metadata middleware.Metadata, err error,
) {
	input, ok := in.Parameters.(smithy.Serializable)
	if !ok {
		return out, metadata, fmt.Errorf("expect serializable input, got %T", in.Parameters)
	}

	token, err := m.provider.GetIdempotencyToken()
	if err != nil {
		return out, metadata, fmt.Errorf("generate idempotency token, %w", err)
	}

	wrapped := &idempotentInput{input: input, member: m.member, token: token}
	if es, ok := input.(httpbinding.EventStreamInput); ok {
		in.Parameters = &idempotentEventStreamInput{idempotentInput: wrapped, events: es}
	} else {
		in.Parameters = wrapped
	}
	return next.HandleInitialize(ctx, in)
}

// idempotentInput serializes the wrapped input with the token member filled
// when it was left nil or empty. The wrapped value is never modified.
type idempotentInput struct {
	input  smithy.Serializable
	member *smithy.Schema
	token  string
}

func (v *idempotentInput) Serialize(s smithy.ShapeSerializer) {
	o := &tokenOverlay{ShapeSerializer: s, member: v.member, token: v.token}
	v.input.Serialize(o)
	if !o.written {
		s.WriteString(v.member, v.token)
	}
}

type idempotentEventStreamInput struct {
	*idempotentInput
	events httpbinding.EventStreamInput
}

func (v *idempotentEventStreamInput) InputEvents() <-chan smithy.Serializable {
	return v.events.InputEvents()
}

// tokenOverlay intercepts writes of the token member at the top level of
// the input.
type tokenOverlay struct {
	smithy.ShapeSerializer

	member  *smithy.Schema
	token   string
	written bool
	depth   int
}

func (o *tokenOverlay) isToken(schema *smithy.Schema) bool {
	return o.depth == 0 && schema == o.member
}

func (o *tokenOverlay) WriteString(schema *smithy.Schema, v string) {
	if o.isToken(schema) {
		o.written = true
		if len(v) == 0 {
			v = o.token
		}
	}
	o.ShapeSerializer.WriteString(schema, v)
}

func (o *tokenOverlay) WriteNil(schema *smithy.Schema) {
	if o.isToken(schema) {
		o.written = true
		o.ShapeSerializer.WriteString(schema, o.token)
		return
	}
	o.ShapeSerializer.WriteNil(schema)
}

func (o *tokenOverlay) WriteList(schema *smithy.Schema) {
	o.depth++
	o.ShapeSerializer.WriteList(schema)
}

func (o *tokenOverlay) CloseList() {
	o.depth--
	o.ShapeSerializer.CloseList()
}

func (o *tokenOverlay) WriteMap(schema *smithy.Schema) {
	o.depth++
	o.ShapeSerializer.WriteMap(schema)
}

func (o *tokenOverlay) CloseMap() {
	o.depth--
	o.ShapeSerializer.CloseMap()
}

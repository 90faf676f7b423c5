package httpbinding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws/protocol/eventstream"
	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/traits"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

const (
	headerMessageType   = ":message-type"
	headerEventType     = ":event-type"
	headerContentType   = ":content-type"
	headerExceptionType = ":exception-type"
	headerErrorCode     = ":error-code"
	headerErrorMessage  = ":error-message"

	messageTypeEvent     = "event"
	messageTypeException = "exception"
	messageTypeError     = "error"

	eventStreamContentType = "application/vnd.amazon.eventstream"
)

// EventStreamInput is implemented by operation inputs carrying an event
// stream. Each value received is a union with one event set; the stream ends
// when the channel is closed.
type EventStreamInput interface {
	InputEvents() <-chan smithy.Serializable
}

func (p *Protocol) attachEventStream(
	ctx context.Context, req *smithyhttp.Request, _ *smithy.Schema, input smithy.Serializable,
) (*smithyhttp.Request, error) {
	in, ok := input.(EventStreamInput)
	if !ok {
		return nil, fmt.Errorf("input %T cannot supply an event stream", input)
	}

	pr, pw := io.Pipe()
	req.Header.Set("Content-Type", eventStreamContentType)
	req, err := req.SetStream(pr)
	if err != nil {
		pw.Close()
		return nil, err
	}
	req.ContentLength = -1

	go p.writeEvents(ctx, pw, in.InputEvents())
	return req, nil
}

func (p *Protocol) writeEvents(ctx context.Context, w *io.PipeWriter, events <-chan smithy.Serializable) {
	enc := eventstream.NewEncoder()
	for {
		select {
		case <-ctx.Done():
			w.CloseWithError(ctx.Err())
			return
		case ev, ok := <-events:
			if !ok {
				w.Close()
				return
			}
			msg, err := p.encodeEvent(ev)
			if err == nil {
				err = enc.Encode(w, msg)
			}
			if err != nil {
				w.CloseWithError(err)
				return
			}
		}
	}
}

// encodeEvent frames a single event union as an event stream message.
func (p *Protocol) encodeEvent(ev smithy.Serializable) (eventstream.Message, error) {
	es := &eventSerializer{codec: p.codec}
	ev.Serialize(es)
	if es.err != nil {
		return eventstream.Message{}, es.err
	}
	if len(es.name) == 0 {
		return eventstream.Message{}, fmt.Errorf("event %T has no member set", ev)
	}

	var msg eventstream.Message
	msg.Headers.Set(headerMessageType, eventstream.StringValue(messageTypeEvent))
	msg.Headers.Set(headerEventType, eventstream.StringValue(es.name))
	if len(es.contentType) != 0 {
		msg.Headers.Set(headerContentType, eventstream.StringValue(es.contentType))
	}
	msg.Headers = append(msg.Headers, es.headers...)
	msg.Payload = es.payload
	return msg, nil
}

// eventSerializer captures the event set on a union: its member name, the
// members bound to message headers, and the payload.
type eventSerializer struct {
	codec smithy.Codec
	depth int

	name        string
	headers     eventstream.Headers
	payload     []byte
	contentType string
	err         error
}

var _ smithy.ShapeSerializer = (*eventSerializer)(nil)

func (s *eventSerializer) header(schema *smithy.Schema, v eventstream.Value) {
	if s.depth == 1 && schema.HasTrait("smithy.api#eventHeader") {
		s.headers.Set(schema.MemberName(), v)
	}
}

func (s *eventSerializer) isPayload(schema *smithy.Schema) bool {
	return s.depth == 1 && schema.HasTrait("smithy.api#eventPayload")
}

func (s *eventSerializer) Bytes() []byte { return nil }

func (s *eventSerializer) WriteInt8(schema *smithy.Schema, v int8) {
	s.header(schema, eventstream.Int8Value(v))
}

func (s *eventSerializer) WriteInt16(schema *smithy.Schema, v int16) {
	s.header(schema, eventstream.Int16Value(v))
}

func (s *eventSerializer) WriteInt32(schema *smithy.Schema, v int32) {
	s.header(schema, eventstream.Int32Value(v))
}

func (s *eventSerializer) WriteInt64(schema *smithy.Schema, v int64) {
	s.header(schema, eventstream.Int64Value(v))
}

func (s *eventSerializer) WriteFloat32(schema *smithy.Schema, v float32) {
	s.header(schema, eventstream.StringValue(FormatFloat(float64(v), 32)))
}

func (s *eventSerializer) WriteFloat64(schema *smithy.Schema, v float64) {
	s.header(schema, eventstream.StringValue(FormatFloat(v, 64)))
}

func (s *eventSerializer) WriteBool(schema *smithy.Schema, v bool) {
	s.header(schema, eventstream.BoolValue(v))
}

func (s *eventSerializer) WriteString(schema *smithy.Schema, v string) {
	if s.isPayload(schema) {
		s.payload, s.contentType = []byte(v), "text/plain"
		return
	}
	s.header(schema, eventstream.StringValue(v))
}

func (s *eventSerializer) WriteBlob(schema *smithy.Schema, v []byte) {
	if s.isPayload(schema) {
		s.payload, s.contentType = v, "application/octet-stream"
		return
	}
	s.header(schema, eventstream.BytesValue(v))
}

func (s *eventSerializer) WriteTime(schema *smithy.Schema, v time.Time) {
	s.header(schema, eventstream.TimestampValue(v))
}

func (s *eventSerializer) WriteStruct(schema *smithy.Schema, v smithy.Serializable) {
	switch {
	case s.depth == 0:
		if len(s.name) != 0 {
			s.err = fmt.Errorf("event union has more than one member set")
			return
		}
		s.name = schema.MemberName()

		s.depth++
		v.Serialize(s)
		s.depth--

		if s.payload == nil && hasEventBodyMembers(schema) {
			ser := s.codec.Serializer()
			ser.WriteStruct(schema, bodyMembers{v: v, keep: isEventBodyMember})
			s.payload, s.contentType = ser.Bytes(), s.codec.MediaType()
		}
	case s.isPayload(schema):
		ser := s.codec.Serializer()
		ser.WriteStruct(schema, v)
		s.payload, s.contentType = ser.Bytes(), s.codec.MediaType()
	}
}

func (s *eventSerializer) WriteNil(*smithy.Schema) {}

func (s *eventSerializer) WriteList(*smithy.Schema) { s.depth++ }
func (s *eventSerializer) CloseList()               { s.depth-- }

func (s *eventSerializer) WriteMap(*smithy.Schema)         { s.depth++ }
func (s *eventSerializer) WriteKey(*smithy.Schema, string) {}
func (s *eventSerializer) CloseMap()                       { s.depth-- }

func isEventBodyMember(m *smithy.Schema) bool {
	return !m.HasTrait("smithy.api#eventHeader") && !m.HasTrait("smithy.api#eventPayload")
}

func hasEventBodyMembers(s *smithy.Schema) bool {
	for _, m := range s.Members() {
		if isEventBodyMember(m) {
			return true
		}
	}
	return false
}

// UnknownEvent is returned by EventStreamReader for an event type the
// operation does not model.
type UnknownEvent struct {
	Type    string
	Payload []byte
}

// EventStreamReader reads the events of an output event stream.
type EventStreamReader struct {
	op    *smithy.Operation
	codec smithy.Codec
	body  io.ReadCloser
	dec   *eventstream.Decoder
}

func newEventStreamReader(op *smithy.Operation, codec smithy.Codec, body io.ReadCloser) *EventStreamReader {
	return &EventStreamReader{
		op:    op,
		codec: codec,
		body:  body,
		dec:   eventstream.NewDecoder(),
	}
}

// Recv returns the next event, a new value of the event's registered type or
// *UnknownEvent. Modeled stream exceptions and error messages are returned as
// errors. Returns io.EOF at the end of the stream.
func (r *EventStreamReader) Recv() (any, error) {
	msg, err := r.dec.Decode(r.body, nil)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, &smithy.DeserializationError{Err: fmt.Errorf("decode event stream message, %w", err)}
	}

	switch typ := headerString(msg, headerMessageType); typ {
	case messageTypeEvent:
		return r.event(msg)
	case messageTypeException:
		return nil, r.exception(msg)
	case messageTypeError:
		return nil, &smithy.GenericAPIError{
			Code:    headerString(msg, headerErrorCode),
			Message: headerString(msg, headerErrorMessage),
		}
	default:
		return nil, &smithy.DeserializationError{Err: fmt.Errorf("unknown event stream message type %q", typ)}
	}
}

func (r *EventStreamReader) event(msg eventstream.Message) (any, error) {
	name := headerString(msg, headerEventType)
	entry, ok := r.op.OutputEvents.Lookup(name)
	if !ok {
		return &UnknownEvent{Type: name, Payload: msg.Payload}, nil
	}

	v := entry.New()
	ev, ok := v.(smithy.Deserializable)
	if !ok {
		return nil, &smithy.DeserializationError{Err: fmt.Errorf("event type %s is not deserializable", name)}
	}
	if err := ev.Deserialize(newBindingDeserializer(r.codec, msg.Payload, &eventSource{msg: msg})); err != nil {
		return nil, &smithy.DeserializationError{Err: err, Snapshot: snapshot(msg.Payload)}
	}
	return v, nil
}

func (r *EventStreamReader) exception(msg eventstream.Message) error {
	name := headerString(msg, headerExceptionType)

	modeled, ok := r.op.OutputEvents.DeserializableError(name)
	if !ok {
		modeled, ok = r.op.Errors.DeserializableError(name)
	}
	if !ok {
		return &smithy.GenericAPIError{Code: name, Message: string(msg.Payload)}
	}

	if err := modeled.Deserialize(newBindingDeserializer(r.codec, msg.Payload, &eventSource{msg: msg})); err != nil {
		return &smithy.DeserializationError{Err: err, Snapshot: snapshot(msg.Payload)}
	}
	return modeled
}

// Close closes the underlying response body.
func (r *EventStreamReader) Close() error {
	return r.body.Close()
}

func headerString(msg eventstream.Message, name string) string {
	v := msg.Headers.Get(name)
	if v == nil {
		return ""
	}
	s, _ := v.Get().(string)
	return s
}

// eventSource reads bound event members from event stream message headers.
type eventSource struct {
	msg eventstream.Message
}

func (e *eventSource) isBound(m *smithy.Schema) bool {
	return !isEventBodyMember(m)
}

func (e *eventSource) present(s *smithy.Schema) []*smithy.Schema {
	var out []*smithy.Schema
	for _, m := range s.Members() {
		switch {
		case m.HasTrait("smithy.api#eventHeader"):
			if e.msg.Headers.Get(m.MemberName()) != nil {
				out = append(out, m)
			}
		case m.HasTrait("smithy.api#eventPayload"):
			if len(e.msg.Payload) != 0 {
				out = append(out, m)
			}
		}
	}
	return out
}

func (e *eventSource) value(m *smithy.Schema) (any, error) {
	if _, ok := smithy.SchemaTrait[*traits.EventPayload](m); ok {
		return e.msg.Payload, nil
	}

	v := e.msg.Headers.Get(m.MemberName())
	if v == nil {
		return nil, fmt.Errorf("event header %s not found", m.MemberName())
	}
	return v.Get(), nil
}

func (e *eventSource) list(m *smithy.Schema) ([]any, error) {
	return nil, fmt.Errorf("event member %s: lists cannot be bound to event headers", m.MemberName())
}

func (e *eventSource) entries(m *smithy.Schema) ([]string, []any, error) {
	return nil, nil, fmt.Errorf("event member %s: maps cannot be bound to event headers", m.MemberName())
}

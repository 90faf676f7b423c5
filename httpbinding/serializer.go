package httpbinding

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/traits"
)

type frameKind int

const (
	frameSkip frameKind = iota
	frameQueryList
	frameHeaderList
	framePrefixHeaders
	frameQueryParams
	frameQueryParamsList
)

type frame struct {
	kind frameKind
	name string // query or header name, header prefix
	key  string // current map key
}

// bindingSerializer writes the top-level input members bound to the URI,
// query string, headers or payload through an Encoder. Members carried in the
// codec encoded body are ignored.
type bindingSerializer struct {
	enc   *Encoder
	codec smithy.Codec

	stack []*frame

	// httpQuery names take precedence over httpQueryParams keys.
	queryNames  map[string]struct{}
	queryParams []queryParam

	payload     []byte
	hasPayload  bool
	payloadType string

	err error
}

type queryParam struct {
	key, value string
}

var _ smithy.ShapeSerializer = (*bindingSerializer)(nil)

func newBindingSerializer(enc *Encoder, codec smithy.Codec) *bindingSerializer {
	return &bindingSerializer{
		enc:        enc,
		codec:      codec,
		queryNames: map[string]struct{}{},
	}
}

func (s *bindingSerializer) setErr(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *bindingSerializer) top() *frame {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// finish applies the query params that no httpQuery member claimed.
func (s *bindingSerializer) finish() error {
	for _, p := range s.queryParams {
		if _, ok := s.queryNames[p.key]; ok {
			continue
		}
		s.enc.AddQuery(p.key).String(p.value)
	}
	return s.err
}

// writeValue routes the string form of a scalar to its binding. header is the
// header form of the value, other is the URI and query form.
func (s *bindingSerializer) writeValue(schema *smithy.Schema, header, other string) {
	if f := s.top(); f != nil {
		switch f.kind {
		case frameQueryList:
			s.enc.AddQuery(f.name).String(other)
		case frameHeaderList:
			s.enc.AddHeader(f.name).String(header)
		case framePrefixHeaders:
			s.enc.Headers(f.name).SetHeader(f.key).String(header)
		case frameQueryParams, frameQueryParamsList:
			s.queryParams = append(s.queryParams, queryParam{key: f.key, value: other})
		}
		return
	}

	switch bindingOf(schema) {
	case locationLabel:
		if len(other) == 0 {
			s.setErr(fmt.Errorf("input member %s must not be empty", schema.MemberName()))
			return
		}
		if err := s.enc.SetURI(schema.MemberName()).String(other); err != nil {
			s.setErr(err)
		}
	case locationQuery:
		t, _ := smithy.SchemaTrait[*traits.HTTPQuery](schema)
		s.queryNames[t.Name] = struct{}{}
		s.enc.SetQuery(t.Name).String(other)
	case locationHeader:
		t, _ := smithy.SchemaTrait[*traits.HTTPHeader](schema)
		s.enc.SetHeader(t.Name).String(header)
	}
}

func (s *bindingSerializer) writeInt(schema *smithy.Schema, v int64) {
	str := strconv.FormatInt(v, 10)
	s.writeValue(schema, str, str)
}

func (s *bindingSerializer) writeFloat(schema *smithy.Schema, v float64, bits int) {
	str := FormatFloat(v, bits)
	s.writeValue(schema, str, str)
}

func (s *bindingSerializer) Bytes() []byte { return nil }

func (s *bindingSerializer) WriteInt8(schema *smithy.Schema, v int8)   { s.writeInt(schema, int64(v)) }
func (s *bindingSerializer) WriteInt16(schema *smithy.Schema, v int16) { s.writeInt(schema, int64(v)) }
func (s *bindingSerializer) WriteInt32(schema *smithy.Schema, v int32) { s.writeInt(schema, int64(v)) }
func (s *bindingSerializer) WriteInt64(schema *smithy.Schema, v int64) { s.writeInt(schema, v) }

func (s *bindingSerializer) WriteFloat32(schema *smithy.Schema, v float32) {
	s.writeFloat(schema, float64(v), 32)
}

func (s *bindingSerializer) WriteFloat64(schema *smithy.Schema, v float64) {
	s.writeFloat(schema, v, 64)
}

func (s *bindingSerializer) WriteBool(schema *smithy.Schema, v bool) {
	str := strconv.FormatBool(v)
	s.writeValue(schema, str, str)
}

func (s *bindingSerializer) WriteString(schema *smithy.Schema, v string) {
	if s.top() == nil && bindingOf(schema) == locationPayload {
		s.setPayload([]byte(v), "text/plain")
		return
	}

	header := v
	if schema.HasTrait("smithy.api#mediaType") {
		header = base64.StdEncoding.EncodeToString([]byte(v))
	}
	if f := s.top(); f != nil && f.kind == frameHeaderList {
		header = quoteHeaderListValue(v)
	}
	s.writeValue(schema, header, v)
}

func (s *bindingSerializer) WriteBlob(schema *smithy.Schema, v []byte) {
	if s.top() == nil && bindingOf(schema) == locationPayload {
		contentType := "application/octet-stream"
		if t, ok := smithy.SchemaTrait[*traits.MediaType](schema); ok {
			contentType = t.Type
		}
		s.setPayload(v, contentType)
		return
	}

	str := base64.StdEncoding.EncodeToString(v)
	s.writeValue(schema, str, str)
}

func (s *bindingSerializer) WriteTime(schema *smithy.Schema, v time.Time) {
	s.writeValue(schema,
		formatTime(schema, v, traits.TimestampFormatHTTPDate),
		formatTime(schema, v, traits.TimestampFormatDateTime))
}

func (s *bindingSerializer) setPayload(p []byte, contentType string) {
	s.payload, s.hasPayload, s.payloadType = p, true, contentType
}

func (s *bindingSerializer) WriteStruct(schema *smithy.Schema, v smithy.Serializable) {
	if s.top() != nil || bindingOf(schema) != locationPayload {
		return
	}

	ser := s.codec.Serializer()
	ser.WriteStruct(schema, v)
	s.setPayload(ser.Bytes(), s.codec.MediaType())
}

func (s *bindingSerializer) WriteNil(*smithy.Schema) {}

func (s *bindingSerializer) WriteList(schema *smithy.Schema) {
	f := &frame{kind: frameSkip}
	switch top := s.top(); {
	case top == nil:
		switch bindingOf(schema) {
		case locationQuery:
			t, _ := smithy.SchemaTrait[*traits.HTTPQuery](schema)
			s.queryNames[t.Name] = struct{}{}
			f = &frame{kind: frameQueryList, name: t.Name}
		case locationHeader:
			t, _ := smithy.SchemaTrait[*traits.HTTPHeader](schema)
			f = &frame{kind: frameHeaderList, name: t.Name}
		}
	case top.kind == frameQueryParams:
		f = &frame{kind: frameQueryParamsList, key: top.key}
	}
	s.stack = append(s.stack, f)
}

func (s *bindingSerializer) CloseList() {
	if len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (s *bindingSerializer) WriteMap(schema *smithy.Schema) {
	f := &frame{kind: frameSkip}
	if s.top() == nil {
		switch bindingOf(schema) {
		case locationPrefixHeaders:
			t, _ := smithy.SchemaTrait[*traits.HTTPPrefixHeaders](schema)
			f = &frame{kind: framePrefixHeaders, name: t.Prefix}
		case locationQueryParams:
			f = &frame{kind: frameQueryParams}
		}
	}
	s.stack = append(s.stack, f)
}

func (s *bindingSerializer) WriteKey(_ *smithy.Schema, key string) {
	if f := s.top(); f != nil {
		f.key = key
	}
}

func (s *bindingSerializer) CloseMap() {
	if len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// bodyMembers serializes only the members of v for which keep returns true.
// Nested shapes are passed to the codec untouched.
type bodyMembers struct {
	v    smithy.Serializable
	keep func(*smithy.Schema) bool
}

func (b bodyMembers) Serialize(s smithy.ShapeSerializer) {
	b.v.Serialize(&filterSerializer{inner: s, keep: b.keep})
}

// filterSerializer drops top-level member writes, and everything nested under
// dropped lists and maps.
type filterSerializer struct {
	inner smithy.ShapeSerializer
	keep  func(*smithy.Schema) bool

	open []bool // per open aggregate, whether it was dropped
}

func (f *filterSerializer) drop(schema *smithy.Schema) bool {
	if len(f.open) == 0 {
		return !f.keep(schema)
	}
	return f.open[len(f.open)-1]
}

func (f *filterSerializer) Bytes() []byte { return f.inner.Bytes() }

func (f *filterSerializer) WriteInt8(s *smithy.Schema, v int8) {
	if !f.drop(s) {
		f.inner.WriteInt8(s, v)
	}
}

func (f *filterSerializer) WriteInt16(s *smithy.Schema, v int16) {
	if !f.drop(s) {
		f.inner.WriteInt16(s, v)
	}
}

func (f *filterSerializer) WriteInt32(s *smithy.Schema, v int32) {
	if !f.drop(s) {
		f.inner.WriteInt32(s, v)
	}
}

func (f *filterSerializer) WriteInt64(s *smithy.Schema, v int64) {
	if !f.drop(s) {
		f.inner.WriteInt64(s, v)
	}
}

func (f *filterSerializer) WriteFloat32(s *smithy.Schema, v float32) {
	if !f.drop(s) {
		f.inner.WriteFloat32(s, v)
	}
}

func (f *filterSerializer) WriteFloat64(s *smithy.Schema, v float64) {
	if !f.drop(s) {
		f.inner.WriteFloat64(s, v)
	}
}

func (f *filterSerializer) WriteBool(s *smithy.Schema, v bool) {
	if !f.drop(s) {
		f.inner.WriteBool(s, v)
	}
}

func (f *filterSerializer) WriteString(s *smithy.Schema, v string) {
	if !f.drop(s) {
		f.inner.WriteString(s, v)
	}
}

func (f *filterSerializer) WriteBlob(s *smithy.Schema, v []byte) {
	if !f.drop(s) {
		f.inner.WriteBlob(s, v)
	}
}

func (f *filterSerializer) WriteTime(s *smithy.Schema, v time.Time) {
	if !f.drop(s) {
		f.inner.WriteTime(s, v)
	}
}

func (f *filterSerializer) WriteStruct(s *smithy.Schema, v smithy.Serializable) {
	if !f.drop(s) {
		f.inner.WriteStruct(s, v)
	}
}

func (f *filterSerializer) WriteNil(s *smithy.Schema) {
	if !f.drop(s) {
		f.inner.WriteNil(s)
	}
}

func (f *filterSerializer) WriteList(s *smithy.Schema) {
	dropped := f.drop(s)
	f.open = append(f.open, dropped)
	if !dropped {
		f.inner.WriteList(s)
	}
}

func (f *filterSerializer) CloseList() {
	if f.closeAggregate() {
		f.inner.CloseList()
	}
}

func (f *filterSerializer) WriteMap(s *smithy.Schema) {
	dropped := f.drop(s)
	f.open = append(f.open, dropped)
	if !dropped {
		f.inner.WriteMap(s)
	}
}

func (f *filterSerializer) WriteKey(s *smithy.Schema, key string) {
	if !f.drop(s) {
		f.inner.WriteKey(s, key)
	}
}

func (f *filterSerializer) CloseMap() {
	if f.closeAggregate() {
		f.inner.CloseMap()
	}
}

// closeAggregate pops the innermost aggregate and returns whether it was
// written through.
func (f *filterSerializer) closeAggregate() bool {
	if len(f.open) == 0 {
		return false
	}
	dropped := f.open[len(f.open)-1]
	f.open = f.open[:len(f.open)-1]
	return !dropped
}

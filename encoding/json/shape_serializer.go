package json

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
	"time"

	smithy "github.com/smithy-lang/smithy-go-client"
	smithytime "github.com/smithy-lang/smithy-go-client/time"
	"github.com/smithy-lang/smithy-go-client/traits"
)

// ShapeSerializer implements marshaling of Smithy shapes to JSON.
//
// Values are collected into a tree that is encoded when Bytes is called.
type ShapeSerializer struct {
	root    any
	hasRoot bool
	head    stack

	useJSONName bool
	err         error
}

var _ smithy.ShapeSerializer = (*ShapeSerializer)(nil)

type object struct {
	values map[string]any
}

func (o *object) MarshalJSON() ([]byte, error) { return marshal(o.values) }

type mapObject struct {
	values map[string]any
	key    string
}

func (o *mapObject) MarshalJSON() ([]byte, error) { return marshal(o.values) }

type array struct {
	values []any
}

func (a *array) MarshalJSON() ([]byte, error) {
	if a.values == nil {
		return []byte("[]"), nil
	}
	return marshal(a.values)
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Bytes returns the encoded document. Returns nil if nothing was written.
func (ss *ShapeSerializer) Bytes() []byte {
	if !ss.hasRoot {
		return nil
	}
	p, err := marshal(ss.root)
	if err != nil {
		ss.err = err
		return nil
	}
	return p
}

// Err returns the first error encountered while encoding, if any.
func (ss *ShapeSerializer) Err() error { return ss.err }

func (ss *ShapeSerializer) put(s *smithy.Schema, v any) {
	switch enc := ss.head.Top().(type) {
	case *object:
		enc.values[memberKey(s, ss.useJSONName)] = v
	case *mapObject:
		enc.values[enc.key] = v
	case *array:
		enc.values = append(enc.values, v)
	default:
		ss.root, ss.hasRoot = v, true
	}
}

func (ss *ShapeSerializer) WriteInt8(s *smithy.Schema, v int8) { ss.WriteInt64(s, int64(v)) }

func (ss *ShapeSerializer) WriteInt16(s *smithy.Schema, v int16) { ss.WriteInt64(s, int64(v)) }

func (ss *ShapeSerializer) WriteInt32(s *smithy.Schema, v int32) { ss.WriteInt64(s, int64(v)) }

func (ss *ShapeSerializer) WriteInt64(s *smithy.Schema, v int64) {
	ss.put(s, json.Number(strconv.FormatInt(v, 10)))
}

func (ss *ShapeSerializer) WriteFloat32(s *smithy.Schema, v float32) {
	ss.writeFloat(s, float64(v), 32)
}

func (ss *ShapeSerializer) WriteFloat64(s *smithy.Schema, v float64) {
	ss.writeFloat(s, v, 64)
}

func (ss *ShapeSerializer) writeFloat(s *smithy.Schema, v float64, bits int) {
	switch {
	case math.IsNaN(v):
		ss.put(s, "NaN")
	case math.IsInf(v, 1):
		ss.put(s, "Infinity")
	case math.IsInf(v, -1):
		ss.put(s, "-Infinity")
	default:
		ss.put(s, json.Number(strconv.FormatFloat(v, 'f', -1, bits)))
	}
}

func (ss *ShapeSerializer) WriteBool(s *smithy.Schema, v bool) { ss.put(s, v) }

func (ss *ShapeSerializer) WriteString(s *smithy.Schema, v string) { ss.put(s, v) }

func (ss *ShapeSerializer) WriteBlob(s *smithy.Schema, v []byte) {
	ss.put(s, base64.StdEncoding.EncodeToString(v))
}

// WriteTime writes v as epoch seconds unless the schema carries a
// timestampFormat trait.
func (ss *ShapeSerializer) WriteTime(s *smithy.Schema, v time.Time) {
	format := traits.TimestampFormatEpochSeconds
	if t, ok := smithy.SchemaTrait[*traits.TimestampFormat](s); ok {
		format = t.Format
	}

	switch format {
	case traits.TimestampFormatDateTime:
		ss.put(s, smithytime.FormatDateTime(v.UTC()))
	case traits.TimestampFormatHTTPDate:
		ss.put(s, smithytime.FormatHTTPDate(v.UTC()))
	default:
		ss.put(s, json.Number(strconv.FormatFloat(smithytime.FormatEpochSeconds(v), 'f', -1, 64)))
	}
}

func (ss *ShapeSerializer) WriteStruct(s *smithy.Schema, v smithy.Serializable) {
	obj := &object{values: map[string]any{}}
	ss.put(s, obj)
	ss.head.Push(obj)
	v.Serialize(ss)
	ss.head.Pop()
}

func (ss *ShapeSerializer) WriteNil(s *smithy.Schema) { ss.put(s, nil) }

func (ss *ShapeSerializer) WriteList(s *smithy.Schema) {
	arr := &array{}
	ss.put(s, arr)
	ss.head.Push(arr)
}

func (ss *ShapeSerializer) CloseList() {
	if _, ok := ss.head.Top().(*array); ok {
		ss.head.Pop()
	}
}

func (ss *ShapeSerializer) WriteMap(s *smithy.Schema) {
	m := &mapObject{values: map[string]any{}}
	ss.put(s, m)
	ss.head.Push(m)
}

func (ss *ShapeSerializer) WriteKey(s *smithy.Schema, key string) {
	if enc, ok := ss.head.Top().(*mapObject); ok {
		enc.key = key
	}
}

func (ss *ShapeSerializer) CloseMap() {
	if _, ok := ss.head.Top().(*mapObject); ok {
		ss.head.Pop()
	}
}

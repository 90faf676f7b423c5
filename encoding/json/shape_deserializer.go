package json

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	smithy "github.com/smithy-lang/smithy-go-client"
	smithytime "github.com/smithy-lang/smithy-go-client/time"
	"github.com/smithy-lang/smithy-go-client/traits"
)

// ShapeDeserializer implements unmarshaling of JSON into Smithy shapes.
//
// The document is decoded up front. Read calls consume the value the
// enclosing struct, list or map positioned the deserializer on; a JSON null
// leaves the target unchanged.
type ShapeDeserializer struct {
	cur  any
	head stack
	err  error

	useJSONName bool
}

var _ smithy.ShapeDeserializer = (*ShapeDeserializer)(nil)

type structFrame struct {
	schema *smithy.Schema
	values map[string]any
	keys   []string
	i      int
}

type listFrame struct {
	values []any
	i      int
}

type mapFrame struct {
	values map[string]any
	keys   []string
	i      int
}

// NewShapeDeserializer returns a deserializer over the JSON document p. An
// empty document deserializes as an empty object.
func NewShapeDeserializer(p []byte) *ShapeDeserializer {
	d := &ShapeDeserializer{}
	if len(bytes.TrimSpace(p)) == 0 {
		d.cur = map[string]any{}
		return d
	}

	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()
	if err := dec.Decode(&d.cur); err != nil && err != io.EOF {
		d.err = fmt.Errorf("decode json document, %w", err)
	}
	return d
}

// Value returns the decoded document the deserializer is positioned on.
func (d *ShapeDeserializer) Value() any { return d.cur }

func (d *ShapeDeserializer) take() (any, error) {
	if d.err != nil {
		return nil, d.err
	}
	v := d.cur
	d.cur = nil
	return v, nil
}

func (d *ShapeDeserializer) ReadInt8(s *smithy.Schema, v *int8) error {
	return readInt(d, v, math.MinInt8, math.MaxInt8)
}

func (d *ShapeDeserializer) ReadInt16(s *smithy.Schema, v *int16) error {
	return readInt(d, v, math.MinInt16, math.MaxInt16)
}

func (d *ShapeDeserializer) ReadInt32(s *smithy.Schema, v *int32) error {
	return readInt(d, v, math.MinInt32, math.MaxInt32)
}

func (d *ShapeDeserializer) ReadInt64(s *smithy.Schema, v *int64) error {
	return readInt(d, v, math.MinInt64, math.MaxInt64)
}

func readInt[T int8 | int16 | int32 | int64](d *ShapeDeserializer, v *T, min, max int64) error {
	tok, err := d.take()
	if err != nil || tok == nil {
		return err
	}

	num, ok := tok.(json.Number)
	if !ok {
		return fmt.Errorf("expected number, got %T", tok)
	}

	n, err := num.Int64()
	if err != nil {
		return err
	}

	if n < min || n > max {
		return fmt.Errorf("int %d exceeds range [%d, %d]", n, min, max)
	}

	*v = T(n)
	return nil
}

func (d *ShapeDeserializer) ReadFloat32(s *smithy.Schema, v *float32) error {
	n, ok, err := d.readFloat()
	if ok {
		*v = float32(n)
	}
	return err
}

func (d *ShapeDeserializer) ReadFloat64(s *smithy.Schema, v *float64) error {
	n, ok, err := d.readFloat()
	if ok {
		*v = n
	}
	return err
}

func (d *ShapeDeserializer) readFloat() (float64, bool, error) {
	tok, err := d.take()
	if err != nil || tok == nil {
		return 0, false, err
	}

	switch v := tok.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil, err
	case string:
		switch {
		case strings.EqualFold(v, "NaN"):
			return math.NaN(), true, nil
		case strings.EqualFold(v, "Infinity"):
			return math.Inf(1), true, nil
		case strings.EqualFold(v, "-Infinity"):
			return math.Inf(-1), true, nil
		default:
			return 0, false, fmt.Errorf("unexpected string value for float: %s", v)
		}
	default:
		return 0, false, fmt.Errorf("expected number, got %T", tok)
	}
}

func (d *ShapeDeserializer) ReadBool(s *smithy.Schema, v *bool) error {
	tok, err := d.take()
	if err != nil || tok == nil {
		return err
	}

	b, ok := tok.(bool)
	if !ok {
		return fmt.Errorf("expected bool, got %T", tok)
	}

	*v = b
	return nil
}

func (d *ShapeDeserializer) ReadString(s *smithy.Schema, v *string) error {
	tok, err := d.take()
	if err != nil || tok == nil {
		return err
	}

	str, ok := tok.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", tok)
	}

	*v = str
	return nil
}

func (d *ShapeDeserializer) ReadBlob(s *smithy.Schema, v *[]byte) error {
	tok, err := d.take()
	if err != nil || tok == nil {
		return err
	}

	str, ok := tok.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", tok)
	}

	b, err := base64.StdEncoding.DecodeString(str)
	if err != nil {
		return fmt.Errorf("decode base64 blob, %w", err)
	}
	*v = b
	return nil
}

// ReadTime reads epoch seconds unless the schema carries a timestampFormat
// trait.
func (d *ShapeDeserializer) ReadTime(s *smithy.Schema, v *time.Time) error {
	tok, err := d.take()
	if err != nil || tok == nil {
		return err
	}

	format := traits.TimestampFormatEpochSeconds
	if t, ok := smithy.SchemaTrait[*traits.TimestampFormat](s); ok {
		format = t.Format
	}

	switch tv := tok.(type) {
	case json.Number:
		if format != traits.TimestampFormatEpochSeconds {
			return fmt.Errorf("expected %s timestamp string, got number", format)
		}
		f, err := tv.Float64()
		if err != nil {
			return err
		}
		*v = smithytime.ParseEpochSeconds(f).UTC()
	case string:
		var t time.Time
		switch format {
		case traits.TimestampFormatHTTPDate:
			t, err = smithytime.ParseHTTPDate(tv)
		default:
			t, err = smithytime.ParseDateTime(tv)
		}
		if err != nil {
			return fmt.Errorf("parse timestamp, %w", err)
		}
		*v = t.UTC()
	default:
		return fmt.Errorf("expected timestamp, got %T", tok)
	}
	return nil
}

func (d *ShapeDeserializer) ReadList(s *smithy.Schema) error {
	tok, err := d.take()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case []any:
		d.head.Push(&listFrame{values: v})
	case nil:
		d.head.Push(&listFrame{})
	default:
		return fmt.Errorf("expected '[', got %T", tok)
	}
	return nil
}

func (d *ShapeDeserializer) ReadListItem(s *smithy.Schema) (bool, error) {
	f, ok := d.head.Top().(*listFrame)
	if !ok {
		return false, fmt.Errorf("ReadListItem called without ReadList")
	}
	if f.i >= len(f.values) {
		d.head.Pop()
		return false, nil
	}

	d.cur = f.values[f.i]
	f.i++
	return true, nil
}

func (d *ShapeDeserializer) ReadMap(s *smithy.Schema) error {
	tok, err := d.take()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case map[string]any:
		d.head.Push(&mapFrame{values: v, keys: sortedKeys(v)})
	case nil:
		d.head.Push(&mapFrame{})
	default:
		return fmt.Errorf("expected '{', got %T", tok)
	}
	return nil
}

func (d *ShapeDeserializer) ReadMapKey(s *smithy.Schema) (string, bool, error) {
	f, ok := d.head.Top().(*mapFrame)
	if !ok {
		return "", false, fmt.Errorf("ReadMapKey called without ReadMap")
	}

	for f.i < len(f.keys) {
		k := f.keys[f.i]
		f.i++
		if v := f.values[k]; v != nil {
			d.cur = v
			return k, true, nil
		}
	}

	d.head.Pop()
	return "", false, nil
}

func (d *ShapeDeserializer) ReadStruct(s *smithy.Schema) error {
	tok, err := d.take()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case map[string]any:
		d.head.Push(&structFrame{schema: s, values: v, keys: sortedKeys(v)})
	case nil:
		d.head.Push(&structFrame{schema: s})
	default:
		return fmt.Errorf("expected '{', got %T", tok)
	}
	return nil
}

// ReadStructMember returns the schema of the next member present in the
// document. Unknown keys and null values are skipped.
func (d *ShapeDeserializer) ReadStructMember() (*smithy.Schema, error) {
	f, ok := d.head.Top().(*structFrame)
	if !ok {
		return nil, fmt.Errorf("ReadStructMember called without ReadStruct")
	}

	for f.i < len(f.keys) {
		k := f.keys[f.i]
		f.i++

		v := f.values[k]
		if v == nil {
			continue
		}
		member := d.member(f.schema, k)
		if member == nil {
			continue
		}

		d.cur = v
		return member, nil
	}

	d.head.Pop()
	return nil, nil
}

func (d *ShapeDeserializer) member(s *smithy.Schema, key string) *smithy.Schema {
	if !d.useJSONName {
		return s.Member(key)
	}
	for _, m := range s.Members() {
		if memberKey(m, true) == key {
			return m
		}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

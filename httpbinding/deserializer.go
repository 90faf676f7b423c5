package httpbinding

import (
	"fmt"
	"math"
	"net/http"
	"slices"
	"strings"
	"time"

	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/traits"
)

// bindingSource supplies the member values a message carries outside of the
// codec encoded payload.
type bindingSource interface {
	// isBound returns whether the member is read from the source rather
	// than the encoded payload.
	isBound(m *smithy.Schema) bool

	// present returns the bound members of s the message holds a value for.
	present(s *smithy.Schema) []*smithy.Schema

	// value returns the Go value of a bound scalar member.
	value(m *smithy.Schema) (any, error)

	// list returns the elements of a bound list member.
	list(m *smithy.Schema) ([]any, error)

	// entries returns the keys and values of a bound map member.
	entries(m *smithy.Schema) ([]string, []any, error)
}

// bindingDeserializer reads a structure whose members are split between a
// bindingSource and a codec encoded payload. Bound members are returned
// first, then the payload members from the codec.
type bindingDeserializer struct {
	codec   smithy.Codec
	payload []byte
	src     bindingSource

	started  bool
	schema   *smithy.Schema
	bound    []*smithy.Schema
	next     int
	bodyRead bool

	// value positioned on by the last member, list item or map key read
	cur    any
	hasCur bool

	listVals []any
	listIdx  int
	mapKeys  []string
	mapVals  []any
	mapIdx   int

	// codec deserializer nested shapes are read from, and the number of its
	// aggregates still open
	delegate smithy.ShapeDeserializer
	depth    int
}

var _ smithy.ShapeDeserializer = (*bindingDeserializer)(nil)

func newBindingDeserializer(codec smithy.Codec, payload []byte, src bindingSource) *bindingDeserializer {
	return &bindingDeserializer{codec: codec, payload: payload, src: src}
}

func (d *bindingDeserializer) take() (any, bool) {
	v, ok := d.cur, d.hasCur
	d.cur, d.hasCur = nil, false
	return v, ok
}

func (d *bindingDeserializer) ReadStruct(s *smithy.Schema) error {
	if d.delegate != nil {
		d.depth++
		return d.delegate.ReadStruct(s)
	}

	if !d.started {
		d.started = true
		d.schema = s
		d.bound = d.src.present(s)
		return nil
	}

	// a structure payload member
	d.delegate = d.codec.Deserializer(d.payload)
	d.depth = 1
	d.take()
	return d.delegate.ReadStruct(s)
}

func (d *bindingDeserializer) ReadStructMember() (*smithy.Schema, error) {
	if d.delegate != nil {
		return d.delegateStructMember()
	}

	if d.next < len(d.bound) {
		m := d.bound[d.next]
		d.next++
		if err := d.position(m); err != nil {
			return nil, err
		}
		return m, nil
	}

	if !d.bodyRead && len(d.payload) != 0 && d.hasBodyMembers() {
		d.bodyRead = true
		d.delegate = d.codec.Deserializer(d.payload)
		d.depth = 1
		if err := d.delegate.ReadStruct(d.schema); err != nil {
			return nil, err
		}
		return d.delegateStructMember()
	}

	return nil, nil
}

func (d *bindingDeserializer) hasBodyMembers() bool {
	for _, m := range d.schema.Members() {
		if !d.src.isBound(m) {
			return true
		}
	}
	return false
}

func (d *bindingDeserializer) delegateStructMember() (*smithy.Schema, error) {
	m, err := d.delegate.ReadStructMember()
	if err != nil {
		return nil, err
	}
	if m == nil {
		d.closeDelegate()
	}
	return m, nil
}

func (d *bindingDeserializer) closeDelegate() {
	d.depth--
	if d.depth == 0 {
		d.delegate = nil
	}
}

func (d *bindingDeserializer) position(m *smithy.Schema) error {
	switch m.Type() {
	case smithy.ShapeTypeList, smithy.ShapeTypeSet:
		vals, err := d.src.list(m)
		if err != nil {
			return err
		}
		d.listVals, d.listIdx = vals, 0
	case smithy.ShapeTypeMap:
		keys, vals, err := d.src.entries(m)
		if err != nil {
			return err
		}
		d.mapKeys, d.mapVals, d.mapIdx = keys, vals, 0
	case smithy.ShapeTypeStructure, smithy.ShapeTypeUnion:
		// read through ReadStruct
	default:
		v, err := d.src.value(m)
		if err != nil {
			return fmt.Errorf("read %s, %w", m.MemberName(), err)
		}
		d.cur, d.hasCur = v, true
	}
	return nil
}

func (d *bindingDeserializer) ReadList(s *smithy.Schema) error {
	if d.delegate != nil {
		d.depth++
		return d.delegate.ReadList(s)
	}
	return nil
}

func (d *bindingDeserializer) ReadListItem(s *smithy.Schema) (bool, error) {
	if d.delegate != nil {
		ok, err := d.delegate.ReadListItem(s)
		if err == nil && !ok {
			d.closeDelegate()
		}
		return ok, err
	}

	if d.listIdx >= len(d.listVals) {
		d.listVals = nil
		return false, nil
	}
	d.cur, d.hasCur = d.listVals[d.listIdx], true
	d.listIdx++
	return true, nil
}

func (d *bindingDeserializer) ReadMap(s *smithy.Schema) error {
	if d.delegate != nil {
		d.depth++
		return d.delegate.ReadMap(s)
	}
	return nil
}

func (d *bindingDeserializer) ReadMapKey(s *smithy.Schema) (string, bool, error) {
	if d.delegate != nil {
		k, ok, err := d.delegate.ReadMapKey(s)
		if err == nil && !ok {
			d.closeDelegate()
		}
		return k, ok, err
	}

	if d.mapIdx >= len(d.mapKeys) {
		d.mapKeys, d.mapVals = nil, nil
		return "", false, nil
	}
	k := d.mapKeys[d.mapIdx]
	d.cur, d.hasCur = d.mapVals[d.mapIdx], true
	d.mapIdx++
	return k, true, nil
}

func (d *bindingDeserializer) ReadInt8(s *smithy.Schema, v *int8) error {
	if d.delegate != nil {
		return d.delegate.ReadInt8(s, v)
	}
	return readBoundInt(d, v, math.MinInt8, math.MaxInt8)
}

func (d *bindingDeserializer) ReadInt16(s *smithy.Schema, v *int16) error {
	if d.delegate != nil {
		return d.delegate.ReadInt16(s, v)
	}
	return readBoundInt(d, v, math.MinInt16, math.MaxInt16)
}

func (d *bindingDeserializer) ReadInt32(s *smithy.Schema, v *int32) error {
	if d.delegate != nil {
		return d.delegate.ReadInt32(s, v)
	}
	return readBoundInt(d, v, math.MinInt32, math.MaxInt32)
}

func (d *bindingDeserializer) ReadInt64(s *smithy.Schema, v *int64) error {
	if d.delegate != nil {
		return d.delegate.ReadInt64(s, v)
	}
	return readBoundInt(d, v, math.MinInt64, math.MaxInt64)
}

func readBoundInt[T int8 | int16 | int32 | int64](d *bindingDeserializer, v *T, min, max int64) error {
	raw, ok := d.take()
	if !ok {
		return nil
	}

	var n int64
	switch tv := raw.(type) {
	case int8:
		n = int64(tv)
	case int16:
		n = int64(tv)
	case int32:
		n = int64(tv)
	case int64:
		n = tv
	case int:
		n = int64(tv)
	default:
		return fmt.Errorf("expected integer, got %T", raw)
	}
	if n < min || n > max {
		return fmt.Errorf("int %d exceeds range [%d, %d]", n, min, max)
	}
	*v = T(n)
	return nil
}

func (d *bindingDeserializer) ReadFloat32(s *smithy.Schema, v *float32) error {
	if d.delegate != nil {
		return d.delegate.ReadFloat32(s, v)
	}
	var f float64
	if err := d.readFloat(&f); err != nil {
		return err
	}
	*v = float32(f)
	return nil
}

func (d *bindingDeserializer) ReadFloat64(s *smithy.Schema, v *float64) error {
	if d.delegate != nil {
		return d.delegate.ReadFloat64(s, v)
	}
	return d.readFloat(v)
}

func (d *bindingDeserializer) readFloat(v *float64) error {
	raw, ok := d.take()
	if !ok {
		return nil
	}
	f, ok := raw.(float64)
	if !ok {
		return fmt.Errorf("expected float, got %T", raw)
	}
	*v = f
	return nil
}

func (d *bindingDeserializer) ReadBool(s *smithy.Schema, v *bool) error {
	if d.delegate != nil {
		return d.delegate.ReadBool(s, v)
	}
	return readBound(d, v)
}

func (d *bindingDeserializer) ReadString(s *smithy.Schema, v *string) error {
	if d.delegate != nil {
		return d.delegate.ReadString(s, v)
	}
	raw, ok := d.take()
	if !ok {
		return nil
	}
	switch tv := raw.(type) {
	case string:
		*v = tv
	case []byte:
		*v = string(tv)
	default:
		return fmt.Errorf("expected string, got %T", raw)
	}
	return nil
}

func (d *bindingDeserializer) ReadBlob(s *smithy.Schema, v *[]byte) error {
	if d.delegate != nil {
		return d.delegate.ReadBlob(s, v)
	}
	return readBound(d, v)
}

func (d *bindingDeserializer) ReadTime(s *smithy.Schema, v *time.Time) error {
	if d.delegate != nil {
		return d.delegate.ReadTime(s, v)
	}
	return readBound(d, v)
}

func readBound[T any](d *bindingDeserializer, v *T) error {
	raw, ok := d.take()
	if !ok {
		return nil
	}
	tv, ok := raw.(T)
	if !ok {
		var zero T
		return fmt.Errorf("expected %T, got %T", zero, raw)
	}
	*v = tv
	return nil
}

// httpSource reads bound members from HTTP response headers and status code.
type httpSource struct {
	resp    *http.Response
	payload []byte
}

func (h *httpSource) isBound(m *smithy.Schema) bool {
	switch bindingOf(m) {
	case locationHeader, locationPrefixHeaders, locationResponseCode, locationPayload, locationEventStream:
		return true
	}
	return false
}

func (h *httpSource) present(s *smithy.Schema) []*smithy.Schema {
	var out []*smithy.Schema
	for _, m := range s.Members() {
		switch bindingOf(m) {
		case locationHeader:
			t, _ := smithy.SchemaTrait[*traits.HTTPHeader](m)
			if len(h.resp.Header.Values(t.Name)) != 0 {
				out = append(out, m)
			}
		case locationPrefixHeaders:
			if keys, _, _ := h.entries(m); len(keys) != 0 {
				out = append(out, m)
			}
		case locationResponseCode:
			out = append(out, m)
		case locationPayload:
			if len(h.payload) != 0 {
				out = append(out, m)
			}
		}
	}
	return out
}

func (h *httpSource) value(m *smithy.Schema) (any, error) {
	switch bindingOf(m) {
	case locationResponseCode:
		return int64(h.resp.StatusCode), nil
	case locationPayload:
		return h.payload, nil
	case locationHeader:
		t, _ := smithy.SchemaTrait[*traits.HTTPHeader](m)
		return parseHeaderValue(m, h.resp.Header.Get(t.Name))
	}
	return nil, fmt.Errorf("member %s is not bound to the response", m.MemberName())
}

func (h *httpSource) list(m *smithy.Schema) ([]any, error) {
	t, ok := smithy.SchemaTrait[*traits.HTTPHeader](m)
	if !ok {
		return nil, fmt.Errorf("list member %s is not bound to a header", m.MemberName())
	}

	elem := m.Member("member")
	httpDates := elem.Type() == smithy.ShapeTypeTimestamp &&
		timestampFormat(elem, traits.TimestampFormatHTTPDate) == traits.TimestampFormatHTTPDate

	parts, err := splitHeaderList(h.resp.Header.Values(t.Name), httpDates)
	if err != nil {
		return nil, err
	}

	vals := make([]any, 0, len(parts))
	for _, p := range parts {
		v, err := parseHeaderValue(elem, p)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func (h *httpSource) entries(m *smithy.Schema) ([]string, []any, error) {
	t, ok := smithy.SchemaTrait[*traits.HTTPPrefixHeaders](m)
	if !ok {
		return nil, nil, fmt.Errorf("map member %s is not bound to headers", m.MemberName())
	}

	prefix := strings.ToLower(t.Prefix)
	var keys []string
	values := map[string]any{}
	for name, vs := range h.resp.Header {
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, prefix) || len(vs) == 0 {
			continue
		}
		key := lower[len(prefix):]
		keys = append(keys, key)
		values[key] = strings.Join(vs, ", ")
	}
	slices.Sort(keys)

	vals := make([]any, len(keys))
	for i, k := range keys {
		vals[i] = values[k]
	}
	return keys, vals, nil
}

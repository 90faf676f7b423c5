package transport

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/internal/uri"
	smithytime "github.com/smithy-lang/smithy-go-client/time"
	"github.com/smithy-lang/smithy-go-client/traits"
)

// ResolveHostPrefix returns the operation's host prefix with every {label}
// replaced by the input member bound to that host label. Returns the empty
// string if the operation has no smithy.api#endpoint trait.
//
// Labels are formatted the way HTTP header values are, and each must be a
// valid RFC 3986 host label.
func ResolveHostPrefix(op *smithy.Operation, input interface{}) (string, error) {
	t, ok := smithy.SchemaTrait[*traits.Endpoint](op.Schema)
	if !ok || len(t.HostPrefix) == 0 {
		return "", nil
	}

	template := t.HostPrefix
	if !strings.Contains(template, "{") {
		return template, nil
	}

	labels := map[string]string{}
	if v, ok := input.(smithy.Serializable); ok {
		capture := &hostLabelSerializer{labels: labels}
		v.Serialize(capture)
	} else if input != nil {
		return "", fmt.Errorf("host prefix %q requires a serializable input, got %T", template, input)
	}

	var b strings.Builder
	for len(template) > 0 {
		start := strings.IndexByte(template, '{')
		if start < 0 {
			b.WriteString(template)
			break
		}
		end := strings.IndexByte(template[start:], '}')
		if end < 0 {
			return "", fmt.Errorf("host prefix %q has an unterminated label", t.HostPrefix)
		}
		end += start

		b.WriteString(template[:start])
		name := template[start+1 : end]
		v, ok := labels[name]
		if !ok || len(v) == 0 {
			return "", fmt.Errorf("host label %s is required for %s", name, op.Name)
		}
		if !uri.ValidHostLabel(v) {
			return "", fmt.Errorf("host label %s has invalid value %q", name, v)
		}
		b.WriteString(v)
		template = template[end+1:]
	}

	return b.String(), nil
}

// hostLabelSerializer captures the string form of the top-level input
// members tagged with smithy.api#hostLabel. Everything else is discarded.
type hostLabelSerializer struct {
	labels map[string]string
	depth  int
}

var _ smithy.ShapeSerializer = (*hostLabelSerializer)(nil)

func (s *hostLabelSerializer) capture(schema *smithy.Schema, v string) {
	if s.depth != 0 || schema == nil {
		return
	}
	if _, ok := smithy.SchemaTrait[*traits.HostLabel](schema); !ok {
		return
	}
	s.labels[schema.MemberName()] = v
}

func (s *hostLabelSerializer) Bytes() []byte { return nil }

func (s *hostLabelSerializer) WriteInt8(schema *smithy.Schema, v int8) {
	s.capture(schema, strconv.FormatInt(int64(v), 10))
}

func (s *hostLabelSerializer) WriteInt16(schema *smithy.Schema, v int16) {
	s.capture(schema, strconv.FormatInt(int64(v), 10))
}

func (s *hostLabelSerializer) WriteInt32(schema *smithy.Schema, v int32) {
	s.capture(schema, strconv.FormatInt(int64(v), 10))
}

func (s *hostLabelSerializer) WriteInt64(schema *smithy.Schema, v int64) {
	s.capture(schema, strconv.FormatInt(v, 10))
}

func (s *hostLabelSerializer) WriteFloat32(schema *smithy.Schema, v float32) {
	s.capture(schema, formatFloat(float64(v), 32))
}

func (s *hostLabelSerializer) WriteFloat64(schema *smithy.Schema, v float64) {
	s.capture(schema, formatFloat(v, 64))
}

func (s *hostLabelSerializer) WriteBool(schema *smithy.Schema, v bool) {
	s.capture(schema, strconv.FormatBool(v))
}

func (s *hostLabelSerializer) WriteString(schema *smithy.Schema, v string) {
	s.capture(schema, v)
}

func (s *hostLabelSerializer) WriteBlob(schema *smithy.Schema, v []byte) {
	s.capture(schema, base64.StdEncoding.EncodeToString(v))
}

func (s *hostLabelSerializer) WriteTime(schema *smithy.Schema, v time.Time) {
	s.capture(schema, smithytime.FormatHTTPDate(v))
}

func (s *hostLabelSerializer) WriteStruct(_ *smithy.Schema, v smithy.Serializable) {
	s.depth++
	v.Serialize(s)
	s.depth--
}

func (s *hostLabelSerializer) WriteNil(*smithy.Schema) {}

func (s *hostLabelSerializer) WriteList(*smithy.Schema) { s.depth++ }
func (s *hostLabelSerializer) CloseList()               { s.depth-- }

func (s *hostLabelSerializer) WriteMap(*smithy.Schema)         { s.depth++ }
func (s *hostLabelSerializer) WriteKey(*smithy.Schema, string) {}
func (s *hostLabelSerializer) CloseMap()                       { s.depth-- }

func formatFloat(v float64, bits int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'g', -1, bits)
}

package httpbinding

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	smithy "github.com/smithy-lang/smithy-go-client"
	smithytime "github.com/smithy-lang/smithy-go-client/time"
	"github.com/smithy-lang/smithy-go-client/traits"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

type location int

const (
	locationBody location = iota
	locationLabel
	locationQuery
	locationQueryParams
	locationHeader
	locationPrefixHeaders
	locationPayload
	locationResponseCode
	locationEventStream
)

// bindingOf returns where an HTTP message carries the member.
func bindingOf(m *smithy.Schema) location {
	switch {
	case m.HasTrait("smithy.api#httpLabel"):
		return locationLabel
	case m.HasTrait("smithy.api#httpQuery"):
		return locationQuery
	case m.HasTrait("smithy.api#httpQueryParams"):
		return locationQueryParams
	case m.HasTrait("smithy.api#httpHeader"):
		return locationHeader
	case m.HasTrait("smithy.api#httpPrefixHeaders"):
		return locationPrefixHeaders
	case m.HasTrait("smithy.api#httpResponseCode"):
		return locationResponseCode
	case m.Type() == smithy.ShapeTypeUnion && m.HasTrait("smithy.api#streaming"):
		return locationEventStream
	case m.HasTrait("smithy.api#httpPayload"):
		return locationPayload
	}
	return locationBody
}

// hasBodyMembers returns whether any member of s is carried in the codec
// encoded body.
func hasBodyMembers(s *smithy.Schema) bool {
	for _, m := range s.Members() {
		if bindingOf(m) == locationBody {
			return true
		}
	}
	return false
}

func payloadMember(s *smithy.Schema) *smithy.Schema {
	for _, m := range s.Members() {
		if bindingOf(m) == locationPayload {
			return m
		}
	}
	return nil
}

func timestampFormat(s *smithy.Schema, fallback string) string {
	if t, ok := smithy.SchemaTrait[*traits.TimestampFormat](s); ok {
		return t.Format
	}
	return fallback
}

func formatTime(s *smithy.Schema, v time.Time, fallback string) string {
	switch timestampFormat(s, fallback) {
	case traits.TimestampFormatEpochSeconds:
		return FormatFloat(smithytime.FormatEpochSeconds(v), 64)
	case traits.TimestampFormatHTTPDate:
		return smithytime.FormatHTTPDate(v.UTC())
	default:
		return smithytime.FormatDateTime(v.UTC())
	}
}

func parseTime(s *smithy.Schema, v string, fallback string) (time.Time, error) {
	switch timestampFormat(s, fallback) {
	case traits.TimestampFormatEpochSeconds:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse epoch-seconds timestamp %q, %w", v, err)
		}
		return smithytime.ParseEpochSeconds(f).UTC(), nil
	case traits.TimestampFormatHTTPDate:
		return smithyhttp.ParseTime(v)
	default:
		t, err := smithytime.ParseDateTime(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse date-time timestamp %q, %w", v, err)
		}
		return t, nil
	}
}

// quoteHeaderListValue quotes a header list element that contains a comma
// or double quote.
func quoteHeaderListValue(v string) string {
	if !strings.ContainsAny(v, `,"`) {
		return v
	}
	return strconv.Quote(v)
}

// splitHeaderList splits the comma separated values of a header list. HTTP
// dates contain a comma of their own, so for timestamp lists every second
// comma separates values.
func splitHeaderList(values []string, httpDates bool) ([]string, error) {
	var out []string
	for _, v := range values {
		if httpDates {
			parts := strings.Split(v, ",")
			for i := 0; i < len(parts); i += 2 {
				if i+1 >= len(parts) {
					return nil, fmt.Errorf("invalid http-date list value %q", v)
				}
				out = append(out, strings.TrimSpace(parts[i]+","+parts[i+1]))
			}
			continue
		}

		for len(v) > 0 {
			v = strings.TrimLeft(v, " \t")
			if strings.HasPrefix(v, `"`) {
				end := 1
				for ; end < len(v); end++ {
					if v[end] == '\\' {
						end++
					} else if v[end] == '"' {
						break
					}
				}
				if end >= len(v) {
					return nil, fmt.Errorf("unterminated quoted header value %q", v)
				}
				s, err := strconv.Unquote(v[:end+1])
				if err != nil {
					return nil, fmt.Errorf("invalid quoted header value %q, %w", v, err)
				}
				out = append(out, s)
				v = strings.TrimLeft(v[end+1:], " \t")
				v = strings.TrimPrefix(v, ",")
				continue
			}

			elem, rest, _ := strings.Cut(v, ",")
			out = append(out, strings.TrimSpace(elem))
			v = rest
		}
	}
	return out, nil
}

// parseHeaderValue converts a header string into the Go value for the
// shape type of s.
func parseHeaderValue(s *smithy.Schema, v string) (any, error) {
	switch s.Type() {
	case smithy.ShapeTypeString, smithy.ShapeTypeEnum:
		if s.HasTrait("smithy.api#mediaType") {
			b, err := base64.StdEncoding.DecodeString(v)
			if err != nil {
				return nil, fmt.Errorf("decode base64 media type header, %w", err)
			}
			return string(b), nil
		}
		return v, nil
	case smithy.ShapeTypeBoolean:
		return strconv.ParseBool(v)
	case smithy.ShapeTypeByte, smithy.ShapeTypeShort, smithy.ShapeTypeInteger,
		smithy.ShapeTypeLong, smithy.ShapeTypeIntEnum:
		return strconv.ParseInt(v, 10, 64)
	case smithy.ShapeTypeFloat, smithy.ShapeTypeDouble:
		return strconv.ParseFloat(v, 64)
	case smithy.ShapeTypeBlob:
		return base64.StdEncoding.DecodeString(v)
	case smithy.ShapeTypeTimestamp:
		return parseTime(s, v, traits.TimestampFormatHTTPDate)
	}
	return nil, fmt.Errorf("unsupported header member type %v", s.Type())
}

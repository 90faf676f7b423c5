// Package time formats and parses the timestamp encodings Smithy protocols
// bind: date-time, http-date and epoch-seconds.
package time

import (
	"math/big"
	"time"
)

const (
	// dateTimeFormat is the RFC 3339 profile written for date-time members,
	// always in UTC with trailing zeros of the fraction dropped.
	dateTimeFormat = "2006-01-02T15:04:05.999999999Z"

	// httpDateFormat is the IMF-fixdate form of RFC 7231 section 7.1.1.1.
	httpDateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// FormatDateTime formats value as a UTC date-time.
func FormatDateTime(value time.Time) string {
	return value.UTC().Format(dateTimeFormat)
}

// ParseDateTime parses an RFC 3339 date-time. Offsets other than Z are
// accepted and the result is normalized to UTC.
func ParseDateTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatHTTPDate formats value as an http-date.
func FormatHTTPDate(value time.Time) string {
	return value.UTC().Format(httpDateFormat)
}

// ParseHTTPDate parses an IMF-fixdate http-date.
func ParseHTTPDate(value string) (time.Time, error) {
	return time.Parse(httpDateFormat, value)
}

// FormatEpochSeconds returns value as Unix seconds with millisecond precision.
func FormatEpochSeconds(value time.Time) float64 {
	ms := value.UnixNano() / int64(time.Millisecond)
	return float64(ms) / 1e3
}

// ParseEpochSeconds returns the UTC time for Unix seconds, truncated to
// millisecond precision.
func ParseEpochSeconds(value float64) time.Time {
	f := big.NewFloat(value)
	f = f.Mul(f, big.NewFloat(1e3))
	ms, _ := f.Int64()
	return time.Unix(0, ms*int64(time.Millisecond)).UTC()
}

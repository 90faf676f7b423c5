package http

import (
	"fmt"
	"time"
)

// HTTP date layouts accepted by ParseTime, in order of preference.
var httpTimeLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05 MST", // RFC 1123, with or without leading zero
	time.RFC850,
	time.ANSIC,
}

// ParseTime parses a time string like the HTTP Date header. This uses a more
// relaxed rule set for date parsing compared to the standard library.
func ParseTime(text string) (t time.Time, err error) {
	for _, layout := range httpTimeLayouts {
		t, err = time.Parse(layout, text)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse http time %q: %w", text, err)
}

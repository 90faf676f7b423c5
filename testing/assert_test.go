package testing

import (
	"net/http"
	"testing"
)

func TestJSONEqual(t *testing.T) {
	cases := map[string]struct {
		Expect, Actual string
		Equal          bool
	}{
		"key order": {
			Expect: `{"a":1,"b":[1,2]}`,
			Actual: `{"b":[1,2],"a":1}`,
			Equal:  true,
		},
		"value differs": {
			Expect: `{"a":1}`,
			Actual: `{"a":2}`,
		},
		"invalid": {
			Expect: `{"a":1}`,
			Actual: `{`,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := JSONEqual([]byte(c.Expect), []byte(c.Actual))
			if e, a := c.Equal, err == nil; e != a {
				t.Errorf("expect equal %v, got %v", e, err)
			}
		})
	}
}

func TestURLQueryEqual(t *testing.T) {
	if err := URLQueryEqual("a=1&b=2&b=3", "b=2&b=3&a=1"); err != nil {
		t.Errorf("expect equal, got %v", err)
	}
	if err := URLQueryEqual("a=1", "a=2"); err == nil {
		t.Errorf("expect mismatch")
	}
}

type recordT struct {
	errs []string
}

func (r *recordT) Error(args ...interface{})                 { r.errs = append(r.errs, "error") }
func (r *recordT) Errorf(format string, args ...interface{}) { r.errs = append(r.errs, format) }
func (r *recordT) Helper()                                   {}

func TestAssertHeaderEqual(t *testing.T) {
	actual := http.Header{"X-A": {"1"}, "X-Extra": {"x"}}

	rt := &recordT{}
	if !AssertHeaderEqual(rt, http.Header{"X-A": {"1"}}, actual) {
		t.Errorf("expect headers to match, %v", rt.errs)
	}

	rt = &recordT{}
	if AssertHeaderEqual(rt, http.Header{"X-A": {"2"}}, actual) {
		t.Errorf("expect headers to mismatch")
	}
	if len(rt.errs) != 1 {
		t.Errorf("expect 1 error, got %v", rt.errs)
	}
}

// Package testing provides assertion helpers shared by the module's tests.
package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-cmp/cmp"
)

// T provides the testing interface for capturing failures with testing assert
// utilities.
type T interface {
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Helper()
}

// JSONEqual compares to JSON documents and identifies if the documents contain
// the same values. Returns an error if the two documents are not equal.
func JSONEqual(expectBytes, actualBytes []byte) error {
	var expect interface{}
	if err := json.Unmarshal(expectBytes, &expect); err != nil {
		return fmt.Errorf("failed to unmarshal expected bytes, %v", err)
	}

	var actual interface{}
	if err := json.Unmarshal(actualBytes, &actual); err != nil {
		return fmt.Errorf("failed to unmarshal actual bytes, %v", err)
	}

	if diff := cmp.Diff(expect, actual); len(diff) != 0 {
		return fmt.Errorf("JSON mismatch (-expect +actual):\n%s", diff)
	}

	return nil
}

// AssertJSONEqual compares to JSON documents and identifies if the documents
// contain the same values. Emits a testing error, and returns false if the
// documents are not equal.
func AssertJSONEqual(t T, expect, actual []byte) bool {
	t.Helper()

	if err := JSONEqual(expect, actual); err != nil {
		t.Errorf("expect JSON equal, %v", err)
		return false
	}

	return true
}

// URLQueryEqual compares two raw query strings independent of parameter
// order. Returns an error if they hold different values.
func URLQueryEqual(expect, actual string) error {
	e, err := url.ParseQuery(expect)
	if err != nil {
		return fmt.Errorf("failed to parse expected query, %v", err)
	}
	a, err := url.ParseQuery(actual)
	if err != nil {
		return fmt.Errorf("failed to parse actual query, %v", err)
	}

	if diff := cmp.Diff(e, a); len(diff) != 0 {
		return fmt.Errorf("query mismatch (-expect +actual):\n%s", diff)
	}
	return nil
}

// AssertURLQueryEqual emits a testing error, and returns false if the two
// query strings are not equal.
func AssertURLQueryEqual(t T, expect, actual string) bool {
	t.Helper()

	if err := URLQueryEqual(expect, actual); err != nil {
		t.Errorf("expect query equal, %v", err)
		return false
	}
	return true
}

// AssertHeaderEqual emits a testing error for every expected header whose
// values differ in actual, and returns false if any did.
func AssertHeaderEqual(t T, expect, actual http.Header) bool {
	t.Helper()

	ok := true
	for k, v := range expect {
		if diff := cmp.Diff(v, actual.Values(k)); len(diff) != 0 {
			t.Errorf("header %s mismatch (-expect +actual):\n%s", k, diff)
			ok = false
		}
	}
	return ok
}

package httpbinding

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// An Encoder collects the path labels, query parameters and headers an
// operation input binds to, then applies them to the outgoing request.
// Payload members are written separately by the protocol codec.
type Encoder struct {
	path, rawPath, pathBuffer []byte

	query  url.Values
	header http.Header
}

// NewEncoder creates an encoder for the path template of an operation. Query
// and header values bound by members are added to the ones passed in, which
// typically come from the operation's URI and the resolved endpoint.
func NewEncoder(path, query string, headers http.Header) (*Encoder, error) {
	parseQuery, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("parse query %q, %w", query, err)
	}

	e := &Encoder{
		path:    []byte(path),
		rawPath: []byte(path),
		query:   parseQuery,
		header:  headers.Clone(),
	}
	if e.header == nil {
		e.header = http.Header{}
	}

	return e, nil
}

// Encode applies the bound components to req. Path labels left unbound by
// the input are reported as an error.
func (e *Encoder) Encode(req *http.Request) (*http.Request, error) {
	if bytes.IndexByte(e.path, '{') >= 0 {
		return nil, fmt.Errorf("unbound path label in %q", e.path)
	}

	req.URL.Path, req.URL.RawPath = string(e.path), string(e.rawPath)
	req.URL.RawQuery = e.query.Encode()
	req.Header = e.header

	return req, nil
}

// AddHeader returns a HeaderValue appending to the named header.
func (e *Encoder) AddHeader(key string) HeaderValue {
	return newHeaderValue(e.header, key, true)
}

// SetHeader returns a HeaderValue replacing the named header.
func (e *Encoder) SetHeader(key string) HeaderValue {
	return newHeaderValue(e.header, key, false)
}

// Headers returns the prefixed header map a map member binds to.
func (e *Encoder) Headers(prefix string) Headers {
	return Headers{
		header: e.header,
		prefix: strings.TrimSpace(prefix),
	}
}

// SetURI returns a URIValue substituting the named path label.
func (e *Encoder) SetURI(key string) URIValue {
	return newURIValue(&e.path, &e.rawPath, &e.pathBuffer, key)
}

// SetQuery returns a QueryValue replacing the named query parameter.
func (e *Encoder) SetQuery(key string) QueryValue {
	return newQueryValue(e.query, key, false)
}

// AddQuery returns a QueryValue appending to the named query parameter.
func (e *Encoder) AddQuery(key string) QueryValue {
	return newQueryValue(e.query, key, true)
}

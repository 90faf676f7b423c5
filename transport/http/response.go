package http

import "net/http"

// Response is the raw transport response deserialize middleware reads.
type Response struct {
	*http.Response
}

// IsSuccess reports whether the status code is 2xx. Other responses are
// deserialized as operation errors.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

package http

import (
	"fmt"
	"time"
)

// RetryInfo is the retry classification the protocol attached to a failed
// response.
type RetryInfo struct {
	Retryable  bool
	Throttling bool

	// RetryAfter is the delay the service asked for, zero if none was given.
	RetryAfter time.Duration
}

// ResponseError provides the HTTP centric error type wrapping the underlying
// error with the HTTP response value and the deserialized RequestID.
type ResponseError struct {
	Response *Response
	Err      error

	RetryInfo RetryInfo
}

// HTTPStatusCode returns the HTTP response status code received from the service
func (e *ResponseError) HTTPStatusCode() int {
	if e.Response == nil || e.Response.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// HTTPResponse returns the HTTP response received from the service.
func (e *ResponseError) HTTPResponse() *Response { return e.Response }

// RetryableError returns whether the service response marked the error
// retryable.
func (e *ResponseError) RetryableError() bool { return e.RetryInfo.Retryable }

// Throttling returns whether the response was classified as throttling.
func (e *ResponseError) Throttling() bool { return e.RetryInfo.Throttling }

// RetryDelay returns the service requested retry delay, if any.
func (e *ResponseError) RetryDelay() (time.Duration, bool) {
	return e.RetryInfo.RetryAfter, e.RetryInfo.RetryAfter > 0
}

// Unwrap returns the nested error if any, or nil.
func (e *ResponseError) Unwrap() error { return e.Err }

func (e *ResponseError) Error() string {
	return fmt.Sprintf(
		"http response error StatusCode: %d, %v",
		e.HTTPStatusCode(), e.Err)
}

package httpbinding

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"
	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/logging"
	"github.com/smithy-lang/smithy-go-client/middleware"
	"github.com/smithy-lang/smithy-go-client/traits"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

// errors with these statuses are retried regardless of the modeled shape
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

var nowTime = time.Now

func (p *Protocol) deserializeError(ctx context.Context, op *smithy.Operation, resp *smithyhttp.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &smithyhttp.ResponseError{
			Response:  resp,
			Err:       &smithy.DeserializationError{Err: fmt.Errorf("read error response body, %w", err)},
			RetryInfo: p.retryInfo(resp, nil),
		}
	}

	doc := p.decodeErrorDocument(ctx, body)

	code := p.errorCode(resp, doc)
	message := searchString(doc, p.options.ErrorMessageFields)

	entry, ok := op.Errors.Lookup(code)
	if !ok {
		if len(code) == 0 {
			code = "UnknownError"
		}
		if len(message) == 0 {
			message = code
		}
		middleware.GetLogger(ctx).Logf(logging.Debug, "unmodeled error %s for %s, status %d", code, op.Name, resp.StatusCode)
		return &smithyhttp.ResponseError{
			Response: resp,
			Err: &smithy.GenericAPIError{
				Code:       code,
				Message:    message,
				Fault:      faultOf(resp.StatusCode),
				StatusCode: resp.StatusCode,
			},
			RetryInfo: p.retryInfo(resp, nil),
		}
	}

	modeled, ok := entry.New().(smithy.DeserializableError)
	if !ok {
		return &smithyhttp.ResponseError{
			Response:  resp,
			Err:       &smithy.DeserializationError{Err: fmt.Errorf("error type %s is not deserializable", code)},
			RetryInfo: p.retryInfo(resp, entry.Schema),
		}
	}

	d := newBindingDeserializer(p.codec, body, &httpSource{resp: resp.Response, payload: body})
	if err := modeled.Deserialize(d); err != nil {
		return &smithyhttp.ResponseError{
			Response:  resp,
			Err:       &smithy.DeserializationError{Err: err, Snapshot: snapshot(body)},
			RetryInfo: p.retryInfo(resp, entry.Schema),
		}
	}

	return &smithyhttp.ResponseError{
		Response:  resp,
		Err:       modeled,
		RetryInfo: p.retryInfo(resp, entry.Schema),
	}
}

// decodeErrorDocument decodes the error body with the protocol codec. Returns
// nil when the body is empty, is not a document, or the codec cannot decode
// documents; only the header discriminator applies then.
func (p *Protocol) decodeErrorDocument(ctx context.Context, body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	dd, ok := p.codec.(smithy.DocumentDecoder)
	if !ok {
		middleware.GetLogger(ctx).Logf(logging.Debug, "%s codec cannot decode error documents", p.codec.MediaType())
		return nil
	}
	doc, err := dd.DecodeDocument(body)
	if err != nil {
		// not every error body is a document
		return nil
	}
	return doc
}

// errorCode returns the sanitized error discriminator from the header, then
// the payload.
func (p *Protocol) errorCode(resp *smithyhttp.Response, doc any) string {
	var code string
	if len(p.options.ErrorTypeHeader) != 0 {
		code = resp.Header.Get(p.options.ErrorTypeHeader)
	}
	if len(code) == 0 {
		code = searchString(doc, p.options.ErrorDiscriminators)
	}
	return SanitizeErrorCode(code)
}

// searchString returns the first non-empty string any of the expressions
// select from doc.
func searchString(doc any, exprs []string) string {
	if doc == nil {
		return ""
	}
	for _, expr := range exprs {
		v, err := jmespath.Search(expr, doc)
		if err != nil {
			continue
		}
		if s, ok := v.(string); ok && len(s) != 0 {
			return s
		}
	}
	return ""
}

// SanitizeErrorCode reduces an error discriminator such as
// "com.example#NotFound:http://internal/" to its shape name, "NotFound".
func SanitizeErrorCode(code string) string {
	code, _, _ = strings.Cut(code, ":")
	if i := strings.LastIndexByte(code, '#'); i >= 0 {
		code = code[i+1:]
	}
	return strings.TrimSpace(code)
}

func faultOf(status int) smithy.ErrorFault {
	switch {
	case status >= 500:
		return smithy.FaultServer
	case status >= 400:
		return smithy.FaultClient
	}
	return smithy.FaultUnknown
}

// retryInfo classifies a failed response. The status, a modeled retryable
// trait and a Retry-After header each mark the error retryable; Retry-After
// also sets the delay.
func (p *Protocol) retryInfo(resp *smithyhttp.Response, errSchema *smithy.Schema) smithyhttp.RetryInfo {
	var info smithyhttp.RetryInfo
	if retryableStatus[resp.StatusCode] {
		info.Retryable = true
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		info.Throttling = true
	}
	if t, ok := smithy.SchemaTrait[*traits.Retryable](errSchema); ok {
		info.Retryable = true
		info.Throttling = info.Throttling || t.Throttling
	}
	if d, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
		info.Retryable = true
		info.RetryAfter = d
	}
	return info
}

// retryAfter parses a Retry-After value given as delta-seconds or an
// HTTP-date.
func retryAfter(v string) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if len(v) == 0 {
		return 0, false
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		if n < 0 {
			return 0, false
		}
		return time.Duration(n) * time.Second, true
	}
	t, err := smithyhttp.ParseTime(v)
	if err != nil {
		return 0, false
	}
	d := t.Sub(nowTime())
	if d < 0 {
		d = 0
	}
	return d, true
}

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/auth"
	"github.com/smithy-lang/smithy-go-client/httpbinding"
	"github.com/smithy-lang/smithy-go-client/middleware"
	"github.com/smithy-lang/smithy-go-client/retry"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

type staticTokenProvider string

func (p staticTokenProvider) GetIdempotencyToken() (string, error) { return string(p), nil }

func newResponse(status int, body string, headers ...string) *http.Response {
	h := http.Header{}
	for i := 0; i+1 < len(headers); i += 2 {
		h.Set(headers[i], headers[i+1])
	}
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// recorder replays responses in order and records the requests sent.
type recorder struct {
	responses []*http.Response
	errs      []error
	requests  []*http.Request
	bodies    []string
}

func (r *recorder) Do(req *http.Request) (*http.Response, error) {
	i := len(r.requests)
	r.requests = append(r.requests, req)

	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	r.bodies = append(r.bodies, string(body))

	if i < len(r.errs) && r.errs[i] != nil {
		return nil, r.errs[i]
	}
	if i >= len(r.responses) {
		return nil, fmt.Errorf("unexpected request %d", i+1)
	}
	return r.responses[i], nil
}

func (r *recorder) headers(name string) []string {
	var vs []string
	for _, req := range r.requests {
		vs = append(vs, req.Header.Get(name))
	}
	return vs
}

func newTestClient(t *testing.T, do smithyhttp.ClientDo, optFns ...func(*Options)) *Client {
	t.Helper()

	c, err := New(Options{
		ServiceID:    "Widgets",
		Protocol:     httpbinding.NewRestJSON1(),
		BaseEndpoint: "https://widgets.example.com",
		HTTPClient:   do,
		IdentityResolvers: map[string]auth.IdentityResolver{
			auth.SchemeIDBearer: auth.NewStaticIdentityResolver(&auth.Token{Value: "tok"}),
		},
		Retryer: retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = 3
			o.InitialBackoff = 0
			o.ThrottleBackoff = 0
			o.MaxBackoff = 0
		}),
		IdempotencyTokenProvider: staticTokenProvider("generated-token"),
	}, optFns...)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	return c
}

func TestInvokeRetriesThrottledRequest(t *testing.T) {
	rec := &recorder{responses: []*http.Response{
		newResponse(429, `{"__type":"Throttled","message":"slow down"}`),
		newResponse(200, `{"name":"gear"}`),
	}}
	c := newTestClient(t, rec)

	var out createWidgetResponse
	metadata, err := c.Invoke(context.Background(), createWidget,
		&createWidgetRequest{ID: ptr("w1"), Name: ptr("gear")}, &out)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	if diff := cmp.Diff([]string{"attempt=1; max=3", "attempt=2; max=3"}, rec.headers("Amz-Sdk-Request")); len(diff) != 0 {
		t.Errorf("attempt header mismatch\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Bearer tok", "Bearer tok"}, rec.headers("Authorization")); len(diff) != 0 {
		t.Errorf("authorization mismatch\n%s", diff)
	}
	if diff := cmp.Diff([]string{"generated-token", "generated-token"}, rec.headers("X-Client-Token")); len(diff) != 0 {
		t.Errorf("idempotency token mismatch\n%s", diff)
	}
	for i, b := range rec.bodies {
		if e, a := `{"name":"gear"}`, b; e != a {
			t.Errorf("attempt %d: expect body %s, got %s", i+1, e, a)
		}
	}
	if e, a := "/widgets/w1", rec.requests[0].URL.Path; e != a {
		t.Errorf("expect path %v, got %v", e, a)
	}
	if e, a := "smithy-go-client#"+Version, rec.requests[0].Header.Get("User-Agent"); !strings.Contains(a, e) {
		t.Errorf("expect %q in user agent %q", e, a)
	}

	if out.Name == nil || *out.Name != "gear" {
		t.Errorf("expect output name gear, got %v", out.Name)
	}
	if e, a := 2, middleware.GetAttempts(metadata); e != a {
		t.Errorf("expect %v attempts, got %v", e, a)
	}
	if e, a := "CreateWidget", middleware.GetOperationName(metadata); e != a {
		t.Errorf("expect operation %v, got %v", e, a)
	}
}

func TestInvokeErrors(t *testing.T) {
	cases := map[string]struct {
		Responses   []*http.Response
		Errs        []error
		ExpectCalls int
		Expect      func(*testing.T, error)
	}{
		"attempts exhausted": {
			Responses: []*http.Response{
				newResponse(503, `{}`), newResponse(503, `{}`), newResponse(503, `{}`),
			},
			ExpectCalls: 3,
			Expect: func(t *testing.T, err error) {
				var maxErr *retry.MaxAttemptsError
				if !errors.As(err, &maxErr) {
					t.Fatalf("expect max attempts error, got %v", err)
				}
				var respErr *smithyhttp.ResponseError
				if !errors.As(err, &respErr) || respErr.HTTPStatusCode() != 503 {
					t.Errorf("expect 503 response error, got %v", err)
				}
			},
		},
		"unretryable": {
			Responses:   []*http.Response{newResponse(400, `{"code":"BadRequest","message":"nope"}`)},
			ExpectCalls: 1,
			Expect: func(t *testing.T, err error) {
				var apiErr smithy.APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expect api error, got %v", err)
				}
				if e, a := "BadRequest", apiErr.ErrorCode(); e != a {
					t.Errorf("expect code %v, got %v", e, a)
				}
				if e, a := "nope", apiErr.ErrorMessage(); e != a {
					t.Errorf("expect message %v, got %v", e, a)
				}
			},
		},
		"connection failure": {
			Errs: []error{
				fmt.Errorf("connection reset"), fmt.Errorf("connection reset"), fmt.Errorf("connection reset"),
			},
			ExpectCalls: 3,
			Expect: func(t *testing.T, err error) {
				var sendErr *smithyhttp.RequestSendError
				if !errors.As(err, &sendErr) {
					t.Fatalf("expect send error, got %v", err)
				}
			},
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			rec := &recorder{responses: c.Responses, errs: c.Errs}
			client := newTestClient(t, rec)

			_, err := client.Invoke(context.Background(), createWidget,
				&createWidgetRequest{ID: ptr("w1")}, &createWidgetResponse{})
			if err == nil {
				t.Fatalf("expect error, got none")
			}

			var opErr *smithy.OperationError
			if !errors.As(err, &opErr) {
				t.Fatalf("expect operation error, got %T", err)
			}
			if e, a := "CreateWidget", opErr.Operation(); e != a {
				t.Errorf("expect operation %v, got %v", e, a)
			}
			if e, a := c.ExpectCalls, len(rec.requests); e != a {
				t.Errorf("expect %v calls, got %v", e, a)
			}
			c.Expect(t, err)
		})
	}
}

func TestInvokeRetryMaxAttemptsPerCall(t *testing.T) {
	rec := &recorder{responses: []*http.Response{newResponse(503, `{}`)}}
	c := newTestClient(t, rec, func(o *Options) { o.Retryer = nil })

	_, err := c.Invoke(context.Background(), createWidget, &createWidgetRequest{ID: ptr("w1")},
		&createWidgetResponse{}, func(o *Options) { o.RetryMaxAttempts = 1 })

	var maxErr *retry.MaxAttemptsError
	if !errors.As(err, &maxErr) {
		t.Fatalf("expect max attempts error, got %v", err)
	}
	if diff := cmp.Diff([]string{"attempt=1; max=1"}, rec.headers("Amz-Sdk-Request")); len(diff) != 0 {
		t.Errorf("attempt header mismatch\n%s", diff)
	}
}

func TestInvokeIdempotencyToken(t *testing.T) {
	cases := map[string]struct {
		Token  *string
		Expect string
	}{
		"nil is generated": {
			Expect: "generated-token",
		},
		"empty is generated": {
			Token:  ptr(""),
			Expect: "generated-token",
		},
		"caller token kept": {
			Token:  ptr("mine"),
			Expect: "mine",
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			rec := &recorder{responses: []*http.Response{newResponse(200, `{}`)}}
			client := newTestClient(t, rec)

			in := &createWidgetRequest{ID: ptr("w1"), Token: c.Token}
			if _, err := client.Invoke(context.Background(), createWidget, in, &createWidgetResponse{}); err != nil {
				t.Fatalf("expect no error, got %v", err)
			}

			if e, a := c.Expect, rec.requests[0].Header.Get("X-Client-Token"); e != a {
				t.Errorf("expect token %q, got %q", e, a)
			}
			if diff := cmp.Diff(c.Token, in.Token); len(diff) != 0 {
				t.Errorf("input modified\n%s", diff)
			}
		})
	}
}

func TestInvokeRequiresEndpoint(t *testing.T) {
	rec := &recorder{}
	c := newTestClient(t, rec, func(o *Options) { o.BaseEndpoint = "" })

	_, err := c.Invoke(context.Background(), createWidget, &createWidgetRequest{ID: ptr("w1")}, &createWidgetResponse{})
	if err == nil || !strings.Contains(err.Error(), "no endpoint resolver") {
		t.Fatalf("expect endpoint resolver error, got %v", err)
	}
	if len(rec.requests) != 0 {
		t.Errorf("expect no requests, got %d", len(rec.requests))
	}
}

func TestNewRequiresProtocol(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expect error, got none")
	}
}

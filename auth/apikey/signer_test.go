package apikey

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/smithy-lang/smithy-go-client/auth"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

func newRequest(rawURL string, headers map[string]string) *smithyhttp.Request {
	r := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	r.URL, _ = url.Parse(rawURL)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func keyProps(in Location, name, scheme string) auth.Properties {
	b := auth.NewPropertiesBuilder()
	auth.SetProperty(b, In, in)
	auth.SetProperty(b, Name, name)
	auth.SetProperty(b, Scheme, scheme)
	return b.Build()
}

func TestSignRequest(t *testing.T) {
	cases := map[string]struct {
		Identity      auth.Identity
		Props         auth.Properties
		ExpectRequest *smithyhttp.Request
		ExpectErr     string
	}{
		"wrong identity": {
			Identity:  &auth.Login{Username: "u"},
			Props:     keyProps(InHeader, "X-Api-Key", ""),
			ExpectErr: "unexpected identity type",
		},
		"invalid location": {
			Identity:  &auth.Token{Value: "abc123"},
			Props:     keyProps("cookie", "key", ""),
			ExpectErr: "invalid location",
		},
		"missing name": {
			Identity:  &auth.Token{Value: "abc123"},
			Props:     keyProps(InHeader, "", ""),
			ExpectErr: "name is required",
		},
		"header": {
			Identity: &auth.Token{Value: "abc123"},
			Props:    keyProps(InHeader, "X-Api-Key", ""),
			ExpectRequest: newRequest("https://example.com", map[string]string{
				"X-Api-Key": "abc123",
			}),
		},
		"header with scheme": {
			Identity: &auth.Token{Value: "abc123"},
			Props:    keyProps(InHeader, "Authorization", "Apikey"),
			ExpectRequest: newRequest("https://example.com", map[string]string{
				"Authorization": "Apikey abc123",
			}),
		},
		"query": {
			Identity:      &auth.Token{Value: "abc123"},
			Props:         keyProps(InQuery, "api_key", "Ignored"),
			ExpectRequest: newRequest("https://example.com?api_key=abc123", nil),
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			r := newRequest("https://example.com", nil)

			err := (&Signer{}).SignRequest(context.Background(), r, c.Identity, c.Props)
			if len(c.ExpectErr) != 0 {
				if err == nil {
					t.Fatalf("expect error, got none")
				}
				if e, a := c.ExpectErr, err.Error(); !strings.Contains(a, e) {
					t.Fatalf("expect %v in error %v", e, a)
				}
				return
			} else if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}

			options := []cmp.Option{
				cmpopts.IgnoreUnexported(smithyhttp.Request{}),
				cmpopts.IgnoreUnexported(http.Request{}),
			}
			if diff := cmp.Diff(c.ExpectRequest, r, options...); diff != "" {
				t.Errorf("expect match\n%s", diff)
			}
		})
	}
}

func TestNewScheme(t *testing.T) {
	if _, err := NewScheme("cookie", "key", ""); err == nil {
		t.Fatalf("expect error for invalid location")
	}

	scheme, err := NewScheme(InHeader, "X-Api-Key", "")
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if e, a := auth.SchemeIDAPIKey, scheme.SchemeID(); e != a {
		t.Errorf("expect %v, got %v", e, a)
	}
	if e, a := auth.IdentityKindToken, scheme.IdentityKind(); e != a {
		t.Errorf("expect %v, got %v", e, a)
	}
}

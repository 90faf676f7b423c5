package http

import (
	"context"
	"strings"
	"testing"

	"github.com/smithy-lang/smithy-go-client/auth"
)

func TestNewAuthScheme(t *testing.T) {
	cases := map[string]struct {
		Kind      auth.IdentityKind
		Signer    Signer
		ExpectErr string
	}{
		"matching kind": {
			Kind:   auth.IdentityKindToken,
			Signer: &BearerSigner{},
		},
		"kind mismatch": {
			Kind:      auth.IdentityKindAWSCredentials,
			Signer:    &BearerSigner{},
			ExpectErr: "signer expects",
		},
		"nil signer": {
			Kind:      auth.IdentityKindToken,
			ExpectErr: "signer is required",
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			scheme, err := NewAuthScheme("com.example#custom", c.Kind, c.Signer, auth.Properties{})
			if len(c.ExpectErr) != 0 {
				if err == nil {
					t.Fatalf("expect error, got none")
				}
				if e, a := c.ExpectErr, err.Error(); !strings.Contains(a, e) {
					t.Errorf("expect error to contain %q, got %v", e, a)
				}
				return
			}
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}
			if e, a := "com.example#custom", scheme.SchemeID(); e != a {
				t.Errorf("expect %v, got %v", e, a)
			}
		})
	}
}

func TestAnonymousSchemeIdentity(t *testing.T) {
	scheme := NewAnonymousScheme()

	resolver := scheme.IdentityResolver(nil)
	actual, err := resolver.ResolveIdentity(context.Background(), auth.Properties{})
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if _, ok := actual.(*auth.AnonymousIdentity); !ok {
		t.Errorf("expect anonymous identity, got %T", actual)
	}

	req := NewStackRequest().(*Request)
	if err := scheme.Signer().SignRequest(context.Background(), req, actual, auth.Properties{}); err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if len(req.Header) != 0 {
		t.Errorf("expect request unchanged, got %v", req.Header)
	}
}

func TestSigners(t *testing.T) {
	cases := map[string]struct {
		Signer       Signer
		Identity     auth.Identity
		Scheme       string
		ExpectHeader string
		ExpectErr    bool
	}{
		"bearer": {
			Signer:       &BearerSigner{},
			Identity:     &auth.Token{Value: "abc"},
			Scheme:       "https",
			ExpectHeader: "Bearer abc",
		},
		"bearer over http": {
			Signer:    &BearerSigner{},
			Identity:  &auth.Token{Value: "abc"},
			Scheme:    "http",
			ExpectErr: true,
		},
		"bearer wrong identity": {
			Signer:    &BearerSigner{},
			Identity:  &auth.Login{Username: "u"},
			Scheme:    "https",
			ExpectErr: true,
		},
		"basic": {
			Signer:       &BasicSigner{},
			Identity:     &auth.Login{Username: "Aladdin", Password: "open sesame"},
			Scheme:       "https",
			ExpectHeader: "Basic QWxhZGRpbjpvcGVuIHNlc2FtZQ==",
		},
		"basic wrong identity": {
			Signer:    &BasicSigner{},
			Identity:  &auth.Token{Value: "abc"},
			Scheme:    "https",
			ExpectErr: true,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			req := NewStackRequest().(*Request)
			req.URL.Scheme = c.Scheme
			req.URL.Host = "example.com"

			err := c.Signer.SignRequest(context.Background(), req, c.Identity, auth.Properties{})
			if c.ExpectErr {
				if err == nil {
					t.Fatalf("expect error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}
			if e, a := c.ExpectHeader, req.Header.Get("Authorization"); e != a {
				t.Errorf("expect %q, got %q", e, a)
			}
		})
	}
}

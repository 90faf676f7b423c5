package sigv4

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/smithy-lang/smithy-go-client/auth"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

func newRequest(t *testing.T, body io.Reader) *smithyhttp.Request {
	t.Helper()

	r := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	r.Method = "POST"
	r.URL, _ = url.Parse("https://service.us-west-2.example.com/widgets")
	r.Host = r.URL.Host
	if body == nil {
		return r
	}

	r, err := r.SetStream(body)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	return r
}

func signingProps(optFns ...func(*auth.PropertiesBuilder)) auth.Properties {
	b := auth.NewPropertiesBuilder()
	auth.SetProperty(b, SigningName, "widgets")
	auth.SetProperty(b, SigningRegion, "us-west-2")
	auth.SetProperty(b, auth.SigningClock, func() time.Time {
		return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	})
	for _, fn := range optFns {
		fn(b)
	}
	return b.Build()
}

// nonseekable hides the Seek method of the wrapped reader.
type nonseekable struct {
	io.Reader
}

func TestSignRequest(t *testing.T) {
	cases := map[string]struct {
		Body          io.Reader
		Identity      auth.Identity
		Props         auth.Properties
		ExpectToken   string
		ExpectSHA256  string
		ExpectErr     string
		ExpectPayload string
	}{
		"seekable body": {
			Body:          strings.NewReader("hello"),
			Identity:      &auth.AWSCredentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET"},
			Props:         signingProps(),
			ExpectPayload: "hello",
		},
		"non-seekable body is replaced": {
			Body:          nonseekable{strings.NewReader("hello")},
			Identity:      &auth.AWSCredentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET"},
			Props:         signingProps(),
			ExpectPayload: "hello",
		},
		"session token": {
			Identity:    &auth.AWSCredentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET", SessionToken: "SESSION"},
			Props:       signingProps(),
			ExpectToken: "SESSION",
		},
		"unsigned payload": {
			Body:     strings.NewReader("hello"),
			Identity: &auth.AWSCredentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET"},
			Props: signingProps(func(b *auth.PropertiesBuilder) {
				auth.SetProperty(b, UnsignedPayload, true)
			}),
			ExpectSHA256:  "UNSIGNED-PAYLOAD",
			ExpectPayload: "hello",
		},
		"payload hash header": {
			Identity: &auth.AWSCredentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET"},
			Props: signingProps(func(b *auth.PropertiesBuilder) {
				auth.SetProperty(b, PayloadHashHeader, true)
			}),
			ExpectSHA256: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		"wrong identity": {
			Identity:  &auth.Token{Value: "tok"},
			Props:     signingProps(),
			ExpectErr: "unexpected identity type",
		},
		"missing region": {
			Identity: &auth.AWSCredentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET"},
			Props: signingProps(func(b *auth.PropertiesBuilder) {
				auth.SetProperty(b, SigningRegion, "")
			}),
			ExpectErr: "signing region is required",
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			r := newRequest(t, c.Body)

			err := New().SignRequest(context.Background(), r, c.Identity, c.Props)
			if len(c.ExpectErr) != 0 {
				if err == nil {
					t.Fatalf("expect error, got none")
				}
				if e, a := c.ExpectErr, err.Error(); !strings.Contains(a, e) {
					t.Fatalf("expect %q in error %q", e, a)
				}
				return
			}
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}

			const credPrefix = "AWS4-HMAC-SHA256 Credential=AKID/20240102/us-west-2/widgets/aws4_request"
			if a := r.Header.Get("Authorization"); !strings.HasPrefix(a, credPrefix) {
				t.Errorf("expect authorization prefix %q, got %q", credPrefix, a)
			}
			if e, a := "20240102T030405Z", r.Header.Get("X-Amz-Date"); e != a {
				t.Errorf("expect date %v, got %v", e, a)
			}
			if e, a := c.ExpectToken, r.Header.Get("X-Amz-Security-Token"); e != a {
				t.Errorf("expect token %q, got %q", e, a)
			}
			if e, a := c.ExpectSHA256, r.Header.Get("X-Amz-Content-Sha256"); e != a {
				t.Errorf("expect content sha256 %q, got %q", e, a)
			}

			if len(c.ExpectPayload) != 0 {
				b, err := io.ReadAll(r.GetStream())
				if err != nil {
					t.Fatalf("expect no error, got %v", err)
				}
				if e, a := c.ExpectPayload, string(b); e != a {
					t.Errorf("expect payload %q, got %q", e, a)
				}
			}
		})
	}
}

func TestSignRequestDeterministic(t *testing.T) {
	id := &auth.AWSCredentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET"}

	var sigs []string
	for i := 0; i < 2; i++ {
		r := newRequest(t, nonseekable{strings.NewReader("hello")})
		if err := New().SignRequest(context.Background(), r, id, signingProps()); err != nil {
			t.Fatalf("expect no error, got %v", err)
		}
		sigs = append(sigs, r.Header.Get("Authorization"))
	}
	if sigs[0] != sigs[1] {
		t.Errorf("expect equal signatures, got\n%s\n%s", sigs[0], sigs[1])
	}
}

func TestNewScheme(t *testing.T) {
	scheme, err := NewScheme("widgets", "us-west-2")
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if e, a := auth.SchemeIDSigV4, scheme.SchemeID(); e != a {
		t.Errorf("expect %v, got %v", e, a)
	}
	if v, _ := auth.GetProperty(scheme.SignerProperties(), SigningRegion); v != "us-west-2" {
		t.Errorf("expect default region, got %q", v)
	}
}

package transport

import (
	"context"
	"strings"
	"testing"

	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/prelude"
	"github.com/smithy-lang/smithy-go-client/traits"
)

var labelInputSchema = smithy.NewSchema("com.example#LabelInput", smithy.ShapeTypeStructure,
	smithy.WithMember("a", prelude.String, &traits.HostLabel{}),
	smithy.WithMember("b", prelude.String, &traits.HostLabel{}),
	smithy.WithMember("n", prelude.Integer, &traits.HostLabel{}),
	smithy.WithMember("other", prelude.String),
)

type labelInput struct {
	A, B, Other *string
	N           *int32
}

func (v *labelInput) Serialize(s smithy.ShapeSerializer) {
	smithy.WriteStringPtr(s, labelInputSchema.Member("a"), v.A)
	smithy.WriteStringPtr(s, labelInputSchema.Member("b"), v.B)
	smithy.WriteInt32Ptr(s, labelInputSchema.Member("n"), v.N)
	smithy.WriteStringPtr(s, labelInputSchema.Member("other"), v.Other)
}

func ptr[T any](v T) *T { return &v }

func prefixOperation(prefix string) *smithy.Operation {
	var opts []func(*smithy.SchemaOptions)
	if len(prefix) != 0 {
		opts = append(opts, smithy.WithTraits(&traits.Endpoint{HostPrefix: prefix}))
	}
	return &smithy.Operation{
		Name:   "GetLabel",
		Schema: smithy.NewSchema("com.example#GetLabel", smithy.ShapeTypeOperation, opts...),
	}
}

func TestStaticEndpointResolver(t *testing.T) {
	cases := map[string]struct {
		Prefix       string
		IgnorePrefix bool
		Input        interface{}
		ExpectHost   string
		ExpectErr    string
	}{
		"no trait": {
			Input:      &labelInput{A: ptr("x")},
			ExpectHost: "example.com",
		},
		"labels substituted": {
			Prefix:     "{a}-{b}.",
			Input:      &labelInput{A: ptr("x"), B: ptr("y")},
			ExpectHost: "x-y.example.com",
		},
		"static prefix ignores input": {
			Prefix:     "data.",
			Input:      &labelInput{A: ptr("x"), B: ptr("y")},
			ExpectHost: "data.example.com",
		},
		"numeric label": {
			Prefix:     "shard{n}.",
			Input:      &labelInput{N: ptr(int32(12))},
			ExpectHost: "shard12.example.com",
		},
		"ignore prefix": {
			Prefix:       "{a}.",
			IgnorePrefix: true,
			ExpectHost:   "example.com",
		},
		"missing label": {
			Prefix:    "{a}-{b}.",
			Input:     &labelInput{A: ptr("x")},
			ExpectErr: "host label b is required",
		},
		"invalid label": {
			Prefix:    "{a}.",
			Input:     &labelInput{A: ptr("not.valid")},
			ExpectErr: "invalid value",
		},
		"non-label member is not bound": {
			Prefix:    "{other}.",
			Input:     &labelInput{Other: ptr("x")},
			ExpectErr: "host label other is required",
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := NewStaticEndpointResolver("https://example.com/base")
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}
			r.IgnorePrefix = c.IgnorePrefix

			endpoint, err := r.ResolveEndpoint(context.Background(), EndpointResolverParams{
				Operation: prefixOperation(c.Prefix),
				Input:     c.Input,
			})
			if len(c.ExpectErr) != 0 {
				if err == nil {
					t.Fatalf("expect error, got none")
				}
				if e, a := c.ExpectErr, err.Error(); !strings.Contains(a, e) {
					t.Errorf("expect %v in error %v", e, a)
				}
				return
			}
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}

			if e, a := c.ExpectHost, endpoint.URI.Host; e != a {
				t.Errorf("expect host %v, got %v", e, a)
			}
			if e, a := "/base", endpoint.URI.Path; e != a {
				t.Errorf("expect path %v, got %v", e, a)
			}
			if e, a := "example.com", r.Endpoint.URI.Host; e != a {
				t.Errorf("expect resolver endpoint unchanged, got %v", a)
			}
		})
	}
}

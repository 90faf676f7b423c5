package client

import (
	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/auth"
	"github.com/smithy-lang/smithy-go-client/prelude"
	"github.com/smithy-lang/smithy-go-client/traits"
)

func ptr[T any](v T) *T { return &v }

var (
	createWidgetInput = smithy.NewSchema("com.example#CreateWidgetInput", smithy.ShapeTypeStructure,
		smithy.WithMember("id", prelude.String, &traits.HTTPLabel{}, &traits.Required{}),
		smithy.WithMember("token", prelude.String, &traits.HTTPHeader{Name: "X-Client-Token"}, &traits.IdempotencyToken{}),
		smithy.WithMember("name", prelude.String))

	createWidgetOutput = smithy.NewSchema("com.example#CreateWidgetOutput", smithy.ShapeTypeStructure,
		smithy.WithMember("name", prelude.String))

	createWidget = &smithy.Operation{
		ServiceID: "Widgets",
		Name:      "CreateWidget",
		Schema: smithy.NewSchema("com.example#CreateWidget", smithy.ShapeTypeOperation,
			smithy.WithTraits(&traits.HTTP{Method: "POST", URI: "/widgets/{id}", Code: 200})),
		InputSchema:  createWidgetInput,
		OutputSchema: createWidgetOutput,
		AuthSchemes:  []string{auth.SchemeIDBearer, auth.SchemeIDAnonymous},
	}

	compressedWidget = &smithy.Operation{
		ServiceID: "Widgets",
		Name:      "CompressedWidget",
		Schema: smithy.NewSchema("com.example#CompressedWidget", smithy.ShapeTypeOperation,
			smithy.WithTraits(
				&traits.HTTP{Method: "POST", URI: "/widgets/{id}", Code: 200},
				&traits.RequestCompression{Encodings: []string{"gzip"}},
			)),
		InputSchema:  createWidgetInput,
		OutputSchema: createWidgetOutput,
		AuthSchemes:  []string{auth.SchemeIDAnonymous},
	}
)

type createWidgetRequest struct {
	ID    *string
	Token *string
	Name  *string
}

func (v *createWidgetRequest) Serialize(s smithy.ShapeSerializer) {
	smithy.WriteStringPtr(s, createWidgetInput.Member("id"), v.ID)
	smithy.WriteStringPtr(s, createWidgetInput.Member("token"), v.Token)
	smithy.WriteStringPtr(s, createWidgetInput.Member("name"), v.Name)
}

type createWidgetResponse struct {
	Name *string
}

func (v *createWidgetResponse) Deserialize(d smithy.ShapeDeserializer) error {
	return smithy.ReadStruct(d, createWidgetOutput, func(m *smithy.Schema) error {
		switch m.MemberName() {
		case "name":
			return smithy.ReadStringPtr(d, m, &v.Name)
		}
		return nil
	})
}

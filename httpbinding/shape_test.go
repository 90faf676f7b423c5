package httpbinding

import (
	"time"

	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/prelude"
	"github.com/smithy-lang/smithy-go-client/traits"
)

func ptr[T any](v T) *T { return &v }

func mustRegistry(entries ...*smithy.TypeRegistryEntry) *smithy.TypeRegistry {
	r, err := smithy.NewTypeRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

var (
	stringList = smithy.NewSchema("com.example#StringList", smithy.ShapeTypeList,
		smithy.WithMember("member", prelude.String))
	stringMap = smithy.NewSchema("com.example#StringMap", smithy.ShapeTypeMap,
		smithy.WithMember("key", prelude.String),
		smithy.WithMember("value", prelude.String))

	putWidgetInput = smithy.NewSchema("com.example#PutWidgetInput", smithy.ShapeTypeStructure,
		smithy.WithMember("id", prelude.String, &traits.HTTPLabel{}, &traits.Required{}),
		smithy.WithMember("version", prelude.Integer, &traits.HTTPQuery{Name: "v"}),
		smithy.WithMember("tags", stringList, &traits.HTTPQuery{Name: "tag"}),
		smithy.WithMember("filters", stringMap, &traits.HTTPQueryParams{}),
		smithy.WithMember("token", prelude.String, &traits.HTTPHeader{Name: "X-Token"}),
		smithy.WithMember("names", stringList, &traits.HTTPHeader{Name: "X-Names"}),
		smithy.WithMember("meta", stringMap, &traits.HTTPPrefixHeaders{Prefix: "X-Meta-"}),
		smithy.WithMember("name", prelude.String),
		smithy.WithMember("count", prelude.Integer))

	putWidgetOutput = smithy.NewSchema("com.example#PutWidgetOutput", smithy.ShapeTypeStructure,
		smithy.WithMember("etag", prelude.String, &traits.HTTPHeader{Name: "ETag"}),
		smithy.WithMember("status", prelude.Integer, &traits.HTTPResponseCode{}),
		smithy.WithMember("modified", prelude.Timestamp, &traits.HTTPHeader{Name: "Last-Modified"}),
		smithy.WithMember("names", stringList, &traits.HTTPHeader{Name: "X-Names"}),
		smithy.WithMember("meta", stringMap, &traits.HTTPPrefixHeaders{Prefix: "X-Meta-"}),
		smithy.WithMember("name", prelude.String),
		smithy.WithMember("count", prelude.Integer))

	notFoundSchema = smithy.NewSchema("com.example#NotFound", smithy.ShapeTypeStructure,
		smithy.WithMember("message", prelude.String),
		smithy.WithMember("resource", prelude.String, &traits.HTTPHeader{Name: "X-Resource"}),
		smithy.WithTraits(&traits.Error{Value: "client"}, &traits.HTTPError{Code: 404}))

	throttledSchema = smithy.NewSchema("com.example#Throttled", smithy.ShapeTypeStructure,
		smithy.WithMember("message", prelude.String),
		smithy.WithTraits(&traits.Error{Value: "client"}, &traits.Retryable{Throttling: true}))

	putWidget = &smithy.Operation{
		ServiceID: "Widgets",
		Name:      "PutWidget",
		Schema: smithy.NewSchema("com.example#PutWidget", smithy.ShapeTypeOperation,
			smithy.WithTraits(&traits.HTTP{Method: "PUT", URI: "/widgets/{id}?mode=full", Code: 200})),
		InputSchema:  putWidgetInput,
		OutputSchema: putWidgetOutput,
		Errors: mustRegistry(
			smithy.RegistryEntry[notFound](notFoundSchema),
			smithy.RegistryEntry[throttled](throttledSchema)),
	}

	partSchema = smithy.NewSchema("com.example#Part", smithy.ShapeTypeStructure,
		smithy.WithMember("id", prelude.String))

	uploadInput = smithy.NewSchema("com.example#UploadInput", smithy.ShapeTypeStructure,
		smithy.WithMember("key", prelude.String, &traits.HTTPLabel{}),
		smithy.WithMember("contentType", prelude.String, &traits.HTTPHeader{Name: "Content-Type"}),
		smithy.WithMember("body", prelude.Blob, &traits.HTTPPayload{}))

	uploadOutput = smithy.NewSchema("com.example#UploadOutput", smithy.ShapeTypeStructure,
		smithy.WithMember("part", partSchema, &traits.HTTPPayload{}))

	upload = &smithy.Operation{
		ServiceID: "Widgets",
		Name:      "Upload",
		Schema: smithy.NewSchema("com.example#Upload", smithy.ShapeTypeOperation,
			smithy.WithTraits(&traits.HTTP{Method: "POST", URI: "/uploads/{key}", Code: 200})),
		InputSchema:  uploadInput,
		OutputSchema: uploadOutput,
	}
)

func writeStringList(s smithy.ShapeSerializer, m *smithy.Schema, vs []string) {
	if vs == nil {
		return
	}
	s.WriteList(m)
	for _, v := range vs {
		s.WriteString(m.Member("member"), v)
	}
	s.CloseList()
}

func writeStringMap(s smithy.ShapeSerializer, m *smithy.Schema, vs map[string]string) {
	if vs == nil {
		return
	}
	s.WriteMap(m)
	for k, v := range vs {
		s.WriteKey(m.Member("key"), k)
		s.WriteString(m.Member("value"), v)
	}
	s.CloseMap()
}

func readStringList(d smithy.ShapeDeserializer, m *smithy.Schema) ([]string, error) {
	vs := []string{}
	err := smithy.ReadList(d, m, func() error {
		var v string
		if err := d.ReadString(m.Member("member"), &v); err != nil {
			return err
		}
		vs = append(vs, v)
		return nil
	})
	return vs, err
}

func readStringMap(d smithy.ShapeDeserializer, m *smithy.Schema) (map[string]string, error) {
	vs := map[string]string{}
	err := smithy.ReadMap(d, m, func(k string) error {
		var v string
		if err := d.ReadString(m.Member("value"), &v); err != nil {
			return err
		}
		vs[k] = v
		return nil
	})
	return vs, err
}

type putWidgetRequest struct {
	ID      *string
	Version *int32
	Tags    []string
	Filters map[string]string
	Token   *string
	Names   []string
	Meta    map[string]string
	Name    *string
	Count   *int32
}

func (v *putWidgetRequest) Serialize(s smithy.ShapeSerializer) {
	smithy.WriteStringPtr(s, putWidgetInput.Member("id"), v.ID)
	smithy.WriteInt32Ptr(s, putWidgetInput.Member("version"), v.Version)
	writeStringList(s, putWidgetInput.Member("tags"), v.Tags)
	writeStringMap(s, putWidgetInput.Member("filters"), v.Filters)
	smithy.WriteStringPtr(s, putWidgetInput.Member("token"), v.Token)
	writeStringList(s, putWidgetInput.Member("names"), v.Names)
	writeStringMap(s, putWidgetInput.Member("meta"), v.Meta)
	smithy.WriteStringPtr(s, putWidgetInput.Member("name"), v.Name)
	smithy.WriteInt32Ptr(s, putWidgetInput.Member("count"), v.Count)
}

type putWidgetResponse struct {
	ETag     *string
	Status   *int32
	Modified *time.Time
	Names    []string
	Meta     map[string]string
	Name     *string
	Count    *int32
}

func (v *putWidgetResponse) Deserialize(d smithy.ShapeDeserializer) error {
	return smithy.ReadStruct(d, putWidgetOutput, func(m *smithy.Schema) error {
		var err error
		switch m.MemberName() {
		case "etag":
			return smithy.ReadStringPtr(d, m, &v.ETag)
		case "status":
			return smithy.ReadInt32Ptr(d, m, &v.Status)
		case "modified":
			return smithy.ReadTimePtr(d, m, &v.Modified)
		case "names":
			v.Names, err = readStringList(d, m)
		case "meta":
			v.Meta, err = readStringMap(d, m)
		case "name":
			return smithy.ReadStringPtr(d, m, &v.Name)
		case "count":
			return smithy.ReadInt32Ptr(d, m, &v.Count)
		}
		return err
	})
}

type notFound struct {
	Message  *string
	Resource *string
}

func (e *notFound) Error() string {
	if e.Message == nil {
		return "NotFound"
	}
	return "NotFound: " + *e.Message
}

func (e *notFound) Deserialize(d smithy.ShapeDeserializer) error {
	return smithy.ReadStruct(d, notFoundSchema, func(m *smithy.Schema) error {
		switch m.MemberName() {
		case "message":
			return smithy.ReadStringPtr(d, m, &e.Message)
		case "resource":
			return smithy.ReadStringPtr(d, m, &e.Resource)
		}
		return nil
	})
}

type throttled struct {
	Message *string
}

func (e *throttled) Error() string { return "Throttled" }

func (e *throttled) Deserialize(d smithy.ShapeDeserializer) error {
	return smithy.ReadStruct(d, throttledSchema, func(m *smithy.Schema) error {
		if m.MemberName() == "message" {
			return smithy.ReadStringPtr(d, m, &e.Message)
		}
		return nil
	})
}

type uploadRequest struct {
	Key         *string
	ContentType *string
	Body        []byte
}

func (v *uploadRequest) Serialize(s smithy.ShapeSerializer) {
	smithy.WriteStringPtr(s, uploadInput.Member("key"), v.Key)
	smithy.WriteStringPtr(s, uploadInput.Member("contentType"), v.ContentType)
	if v.Body != nil {
		s.WriteBlob(uploadInput.Member("body"), v.Body)
	}
}

type part struct {
	ID *string
}

func (p *part) Deserialize(d smithy.ShapeDeserializer) error {
	return smithy.ReadStruct(d, partSchema, func(m *smithy.Schema) error {
		if m.MemberName() == "id" {
			return smithy.ReadStringPtr(d, m, &p.ID)
		}
		return nil
	})
}

type uploadResponse struct {
	Part *part
}

func (v *uploadResponse) Deserialize(d smithy.ShapeDeserializer) error {
	return smithy.ReadStruct(d, uploadOutput, func(m *smithy.Schema) error {
		if m.MemberName() == "part" {
			v.Part = &part{}
			return v.Part.Deserialize(d)
		}
		return nil
	})
}

package json

import (
	"time"

	smithy "github.com/smithy-lang/smithy-go-client"
	"github.com/smithy-lang/smithy-go-client/prelude"
	"github.com/smithy-lang/smithy-go-client/traits"
)

var (
	tagList = smithy.NewSchema("com.example#TagList", smithy.ShapeTypeList,
		smithy.WithMember("member", prelude.String))
	attrMap = smithy.NewSchema("com.example#AttrMap", smithy.ShapeTypeMap,
		smithy.WithMember("key", prelude.String),
		smithy.WithMember("value", prelude.Integer))
	partSchema = smithy.NewSchema("com.example#Part", smithy.ShapeTypeStructure,
		smithy.WithMember("id", prelude.String))
	widgetSchema = smithy.NewSchema("com.example#Widget", smithy.ShapeTypeStructure,
		smithy.WithMember("name", prelude.String, &traits.JSONName{Name: "Name"}),
		smithy.WithMember("count", prelude.Integer),
		smithy.WithMember("ratio", prelude.Double),
		smithy.WithMember("enabled", prelude.Boolean),
		smithy.WithMember("data", prelude.Blob),
		smithy.WithMember("created", prelude.Timestamp),
		smithy.WithMember("updated", prelude.Timestamp,
			&traits.TimestampFormat{Format: traits.TimestampFormatDateTime}),
		smithy.WithMember("tags", tagList),
		smithy.WithMember("attrs", attrMap),
		smithy.WithMember("part", partSchema))
)

type part struct {
	ID *string
}

func (p *part) Serialize(s smithy.ShapeSerializer) {
	smithy.WriteStringPtr(s, partSchema.Member("id"), p.ID)
}

func (p *part) Deserialize(d smithy.ShapeDeserializer) error {
	return smithy.ReadStruct(d, partSchema, func(m *smithy.Schema) error {
		switch m.MemberName() {
		case "id":
			return smithy.ReadStringPtr(d, m, &p.ID)
		}
		return nil
	})
}

type widget struct {
	Name    *string
	Count   *int32
	Ratio   *float64
	Enabled *bool
	Data    []byte
	Created *time.Time
	Updated *time.Time
	Tags    []string
	Attrs   map[string]int32
	Part    *part
}

func (w *widget) Serialize(s smithy.ShapeSerializer) {
	smithy.WriteStringPtr(s, widgetSchema.Member("name"), w.Name)
	smithy.WriteInt32Ptr(s, widgetSchema.Member("count"), w.Count)
	smithy.WriteFloat64Ptr(s, widgetSchema.Member("ratio"), w.Ratio)
	smithy.WriteBoolPtr(s, widgetSchema.Member("enabled"), w.Enabled)
	if w.Data != nil {
		s.WriteBlob(widgetSchema.Member("data"), w.Data)
	}
	smithy.WriteTimePtr(s, widgetSchema.Member("created"), w.Created)
	smithy.WriteTimePtr(s, widgetSchema.Member("updated"), w.Updated)
	if w.Tags != nil {
		s.WriteList(widgetSchema.Member("tags"))
		for _, v := range w.Tags {
			s.WriteString(tagList.Member("member"), v)
		}
		s.CloseList()
	}
	if w.Attrs != nil {
		s.WriteMap(widgetSchema.Member("attrs"))
		for k, v := range w.Attrs {
			s.WriteKey(attrMap.Member("key"), k)
			s.WriteInt32(attrMap.Member("value"), v)
		}
		s.CloseMap()
	}
	if w.Part != nil {
		s.WriteStruct(widgetSchema.Member("part"), w.Part)
	}
}

func (w *widget) Deserialize(d smithy.ShapeDeserializer) error {
	return smithy.ReadStruct(d, widgetSchema, func(m *smithy.Schema) error {
		switch m.MemberName() {
		case "name":
			return smithy.ReadStringPtr(d, m, &w.Name)
		case "count":
			return smithy.ReadInt32Ptr(d, m, &w.Count)
		case "ratio":
			var f float64
			if err := d.ReadFloat64(m, &f); err != nil {
				return err
			}
			w.Ratio = &f
		case "enabled":
			return smithy.ReadBoolPtr(d, m, &w.Enabled)
		case "data":
			return d.ReadBlob(m, &w.Data)
		case "created":
			return smithy.ReadTimePtr(d, m, &w.Created)
		case "updated":
			return smithy.ReadTimePtr(d, m, &w.Updated)
		case "tags":
			w.Tags = []string{}
			return smithy.ReadList(d, m, func() error {
				var v string
				if err := d.ReadString(m.Member("member"), &v); err != nil {
					return err
				}
				w.Tags = append(w.Tags, v)
				return nil
			})
		case "attrs":
			w.Attrs = map[string]int32{}
			return smithy.ReadMap(d, m, func(k string) error {
				var v int32
				if err := d.ReadInt32(m.Member("value"), &v); err != nil {
					return err
				}
				w.Attrs[k] = v
				return nil
			})
		case "part":
			w.Part = &part{}
			return w.Part.Deserialize(d)
		}
		return nil
	})
}

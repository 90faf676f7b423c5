// Package prelude holds the schemas of the Smithy prelude shapes, targeted by
// the members of generated shapes.
package prelude

import smithy "github.com/smithy-lang/smithy-go-client"

// Prelude shape schemas.
var (
	Blob      = smithy.NewSchema("smithy.api#Blob", smithy.ShapeTypeBlob)
	Boolean   = smithy.NewSchema("smithy.api#Boolean", smithy.ShapeTypeBoolean)
	String    = smithy.NewSchema("smithy.api#String", smithy.ShapeTypeString)
	Timestamp = smithy.NewSchema("smithy.api#Timestamp", smithy.ShapeTypeTimestamp)
	Byte      = smithy.NewSchema("smithy.api#Byte", smithy.ShapeTypeByte)
	Short     = smithy.NewSchema("smithy.api#Short", smithy.ShapeTypeShort)
	Integer   = smithy.NewSchema("smithy.api#Integer", smithy.ShapeTypeInteger)
	Long      = smithy.NewSchema("smithy.api#Long", smithy.ShapeTypeLong)
	Float     = smithy.NewSchema("smithy.api#Float", smithy.ShapeTypeFloat)
	Double    = smithy.NewSchema("smithy.api#Double", smithy.ShapeTypeDouble)
	Document  = smithy.NewSchema("smithy.api#Document", smithy.ShapeTypeDocument)
	Unit      = smithy.NewSchema("smithy.api#Unit", smithy.ShapeTypeStructure)
)

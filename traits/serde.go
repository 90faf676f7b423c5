package traits

// JSONName represents smithy.api#jsonName.
type JSONName struct {
	Name string
}

// TraitID identifies the trait.
func (*JSONName) TraitID() string { return "smithy.api#jsonName" }

// MediaType represents smithy.api#mediaType.
type MediaType struct {
	Type string
}

// TraitID identifies the trait.
func (*MediaType) TraitID() string { return "smithy.api#mediaType" }

// TimestampFormat represents smithy.api#timestampFormat.
type TimestampFormat struct {
	Format string
}

// TraitID identifies the trait.
func (*TimestampFormat) TraitID() string { return "smithy.api#timestampFormat" }

// Timestamp formats.
const (
	TimestampFormatDateTime     = "date-time"
	TimestampFormatHTTPDate     = "http-date"
	TimestampFormatEpochSeconds = "epoch-seconds"
)

// Required represents smithy.api#required.
type Required struct{}

// TraitID identifies the trait.
func (*Required) TraitID() string { return "smithy.api#required" }

// Default represents smithy.api#default.
//
// Value holds the Go representation of the default, e.g. a string for string
// shapes, an int64 for integer shapes.
type Default struct {
	Value any
}

// TraitID identifies the trait.
func (*Default) TraitID() string { return "smithy.api#default" }

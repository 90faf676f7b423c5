package smithy

// Trait is a model trait attached to a schema. TraitID returns the absolute
// shape ID of the trait, such as "smithy.api#httpHeader", which schemas use
// to index their traits. See SchemaTrait for typed lookup.
type Trait interface {
	TraitID() string
}

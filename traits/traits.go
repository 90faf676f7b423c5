// Package traits defines representations of Smithy IDL traits that appear in
// code-generated schemas.
package traits

// Sensitive represents smithy.api#sensitive.
type Sensitive struct{}

// TraitID identifies the trait.
func (*Sensitive) TraitID() string { return "smithy.api#sensitive" }

// EventHeader represents smithy.api#eventHeader.
type EventHeader struct{}

// TraitID identifies the trait.
func (*EventHeader) TraitID() string { return "smithy.api#eventHeader" }

// EventPayload represents smithy.api#eventPayload.
type EventPayload struct{}

// TraitID identifies the trait.
func (*EventPayload) TraitID() string { return "smithy.api#eventPayload" }

// Streaming represents smithy.api#streaming.
type Streaming struct{}

// TraitID identifies the trait.
func (*Streaming) TraitID() string { return "smithy.api#streaming" }

// RequiresLength represents smithy.api#requiresLength.
type RequiresLength struct{}

// TraitID identifies the trait.
func (*RequiresLength) TraitID() string { return "smithy.api#requiresLength" }

// HostLabel represents smithy.api#hostLabel.
type HostLabel struct{}

// TraitID identifies the trait.
func (*HostLabel) TraitID() string { return "smithy.api#hostLabel" }

// IdempotencyToken represents smithy.api#idempotencyToken.
type IdempotencyToken struct{}

// TraitID identifies the trait.
func (*IdempotencyToken) TraitID() string { return "smithy.api#idempotencyToken" }

// Error represents smithy.api#error. Value is "client" or "server".
type Error struct {
	Value string
}

// TraitID identifies the trait.
func (*Error) TraitID() string { return "smithy.api#error" }

// Retryable represents smithy.api#retryable.
type Retryable struct {
	Throttling bool
}

// TraitID identifies the trait.
func (*Retryable) TraitID() string { return "smithy.api#retryable" }

// Auth represents smithy.api#auth, the effective auth schemes of an operation
// in priority order.
type Auth struct {
	Schemes []string
}

// TraitID identifies the trait.
func (*Auth) TraitID() string { return "smithy.api#auth" }

package auth

import (
	"fmt"
	"strings"
)

// IdentityNotFoundError is returned by an IdentityResolver that has no
// identity to provide. It is the only resolver failure that lets a chain, or
// the auth scheme selection, move on to the next candidate.
type IdentityNotFoundError struct {
	// Resolver names the resolver that failed, for diagnostics.
	Resolver string
	Kind     IdentityKind
	Message  string

	Err error
}

func (e *IdentityNotFoundError) Error() string {
	msg := fmt.Sprintf("%s identity not found", e.Kind)
	if len(e.Resolver) != 0 {
		msg += " by " + e.Resolver
	}
	if len(e.Message) != 0 {
		msg += ", " + e.Message
	}
	if e.Err != nil {
		msg += fmt.Sprintf(", %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error, if there was one.
func (e *IdentityNotFoundError) Unwrap() error { return e.Err }

// SchemeResolutionError is returned when none of the auth options resolved
// for an operation could be used.
type SchemeResolutionError struct {
	// Reasons, in option order, why each option was skipped.
	Reasons []string
}

func (e *SchemeResolutionError) Error() string {
	if len(e.Reasons) == 0 {
		return "no auth scheme options resolved"
	}
	return "failed to select an auth scheme: " + strings.Join(e.Reasons, "; ")
}

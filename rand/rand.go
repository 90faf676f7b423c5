// Package rand provides random sources used by the client runtime, such as
// UUID idempotency tokens.
package rand

import (
	crand "crypto/rand"
	"io"
)

// Reader provides a random reader that can be replaced during testing.
var Reader io.Reader = crand.Reader

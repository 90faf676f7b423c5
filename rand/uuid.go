package rand

import (
	"io"

	"github.com/google/uuid"
)

// IdempotencyTokenProvider provides the values of members marked with the
// smithy.api#idempotencyToken trait that the caller left empty.
type IdempotencyTokenProvider interface {
	GetIdempotencyToken() (string, error)
}

// UUID provides computing random UUID version 4 values from a random source
// reader.
type UUID struct {
	randSrc io.Reader
}

var _ IdempotencyTokenProvider = (*UUID)(nil)

// NewUUID returns an initialized UUID value that can be used to retrieve
// random UUID version 4 values.
func NewUUID(r io.Reader) *UUID {
	return &UUID{randSrc: r}
}

// GetUUID returns a random UUID version 4 string representation sourced from
// the random reader the UUID was created with. Returns an error if unable to
// compute the UUID.
func (r *UUID) GetUUID() (string, error) {
	u, err := r.GetBytes()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// GetBytes returns a random UUID version 4 sourced from the random reader
// the UUID was created with.
func (r *UUID) GetBytes() (uuid.UUID, error) {
	return uuid.NewRandomFromReader(r.randSrc)
}

// GetIdempotencyToken returns a random UUID string.
func (r *UUID) GetIdempotencyToken() (string, error) {
	return r.GetUUID()
}

package http

import "github.com/smithy-lang/smithy-go-client/internal/uri"

// ValidateEndpointHost reports whether host, with an optional port, can be
// used as the authority of a resolved endpoint.
func ValidateEndpointHost(host string) error {
	return uri.ValidateHost(host)
}

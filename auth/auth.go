// Package auth defines the identity, identity resolution and auth scheme
// resolution contracts of the client runtime.
package auth

// Auth scheme IDs as they appear in the smithy.api#auth trait.
const (
	SchemeIDAnonymous = "smithy.api#noAuth"
	SchemeIDBearer    = "smithy.api#httpBearerAuth"
	SchemeIDBasic     = "smithy.api#httpBasicAuth"
	SchemeIDAPIKey    = "smithy.api#httpApiKeyAuth"
	SchemeIDSigV4     = "aws.auth#sigv4"
)

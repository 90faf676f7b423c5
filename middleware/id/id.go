// Package id holds the IDs of the middleware the client runtime adds to an
// operation stack, so callers can position their own middleware relative to
// them.
package id

const (
	// ComputeContentLength is the slot ID for middleware that determines the transport body's content length
	ComputeContentLength = "ComputeContentLength"
	// ContentChecksum is the slot ID for middleware that handles the httpChecksumRequired trait.
	ContentChecksum = "ContentChecksum"
	// RequestCompression is the slot ID for middleware that handles the requestCompression trait.
	RequestCompression = "RequestCompression"
	// CloseResponseBody is the slot ID for middleware that handles closing the transport layer response body.
	CloseResponseBody = "CloseResponseBody"
	// ErrorCloseResponseBody is the slot ID for middleware that handles closing the transport layer response body if an error occurred.
	ErrorCloseResponseBody = "ErrorCloseResponseBody"
	// OperationDeserializer is the slot ID for middleware that handles deserialization of an operation response.
	OperationDeserializer = "OperationDeserializer"
	// OperationIdempotencyTokenAutoFill is the slot ID for middleware that auto-fills members marked with idempotencyToken trait.
	OperationIdempotencyTokenAutoFill = "OperationIdempotencyTokenAutoFill"
	// OperationSerializer is the slot ID for middleware that handles the serialization of operation requests.
	OperationSerializer = "OperationSerializer"
	// ResolveEndpoint is the slot ID for middleware that resolves the endpoint of the request.
	ResolveEndpoint = "ResolveEndpoint"
	// ResolveAuthScheme is the slot ID for middleware that selects the auth scheme and resolves its identity.
	ResolveAuthScheme = "ResolveAuthScheme"
	// Retry is the slot ID for the retry loop middleware.
	Retry = "Retry"
	// RetryMetricsHeader is the slot ID for middleware that sets the attempt header.
	RetryMetricsHeader = "RetryMetricsHeader"
	// Signing is the slot ID for middleware that signs the request.
	Signing = "Signing"
	// UserAgent is the slot ID for middleware that sets the User-Agent header.
	UserAgent = "UserAgent"
	// ValidateContentLength is the slot ID for middleware that handles ensuring content-length has been set.
	ValidateContentLength = "ValidateContentLength"
)

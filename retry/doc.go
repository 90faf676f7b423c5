// Package retry provides the retry loop of an operation: the Strategy
// interface deciding whether and when a failed attempt is retried, the
// Standard strategy, and the Attempt finalize middleware driving attempts.
package retry

package retry

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	smithy "github.com/smithy-lang/smithy-go-client"
)

// Strategy decides whether a failed attempt is retried and how long to wait
// before the next one.
type Strategy interface {
	// MaxAttempts returns the total number of attempts, including the first.
	MaxAttempts() int

	IsErrorRetryable(error) bool

	// RetryDelay returns the delay to wait before attempt+1, after attempt
	// failed with err.
	RetryDelay(attempt int, err error) (time.Duration, error)
}

// Default values of the standard strategy.
const (
	DefaultMaxAttempts         = 3
	DefaultInitialBackoff      = 100 * time.Millisecond
	DefaultThrottleBackoff     = 500 * time.Millisecond
	DefaultMaxBackoff          = 20 * time.Second
	DefaultMultiplier          = 2
	DefaultRandomizationFactor = 0.5
)

// StandardOptions configures the Standard strategy.
type StandardOptions struct {
	MaxAttempts int

	// Initial delay for errors that are not throttling.
	InitialBackoff time.Duration

	// Initial delay for throttling errors.
	ThrottleBackoff time.Duration

	MaxBackoff          time.Duration
	Multiplier          float64
	RandomizationFactor float64

	// Additional checks consulted, in order, before the built-in
	// classification. The first that returns a decision wins.
	Retryables []IsErrorRetryable
}

// IsErrorRetryable classifies an error. ok is false when the check has no
// opinion.
type IsErrorRetryable func(error) (retryable, ok bool)

// Standard is an exponential backoff strategy with jitter. Errors are
// retried when the service marked them retryable or throttling, or when
// the request never reached the service because the connection failed.
type Standard struct {
	options StandardOptions
}

var _ Strategy = (*Standard)(nil)

// NewStandard returns a Standard strategy.
func NewStandard(optFns ...func(*StandardOptions)) *Standard {
	o := StandardOptions{
		MaxAttempts:         DefaultMaxAttempts,
		InitialBackoff:      DefaultInitialBackoff,
		ThrottleBackoff:     DefaultThrottleBackoff,
		MaxBackoff:          DefaultMaxBackoff,
		Multiplier:          DefaultMultiplier,
		RandomizationFactor: DefaultRandomizationFactor,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 1
	}
	return &Standard{options: o}
}

// MaxAttempts returns the maximum number of attempts.
func (s *Standard) MaxAttempts() int { return s.options.MaxAttempts }

// IsErrorRetryable returns whether err can be retried.
func (s *Standard) IsErrorRetryable(err error) bool {
	if err == nil {
		return false
	}
	for _, fn := range s.options.Retryables {
		if retryable, ok := fn(err); ok {
			return retryable
		}
	}

	var canceled *smithy.CanceledError
	if errors.As(err, &canceled) {
		return false
	}

	var retryable interface{ RetryableError() bool }
	if errors.As(err, &retryable) && retryable.RetryableError() {
		return true
	}
	if isThrottling(err) {
		return true
	}

	var conn interface{ ConnectionError() bool }
	return errors.As(err, &conn) && conn.ConnectionError()
}

func isThrottling(err error) bool {
	var t interface{ Throttling() bool }
	return errors.As(err, &t) && t.Throttling()
}

// RetryDelay returns the delay the service asked for, if any. Otherwise the
// delay grows exponentially with the attempt number, randomized and capped at
// MaxBackoff.
func (s *Standard) RetryDelay(attempt int, err error) (time.Duration, error) {
	var d interface{ RetryDelay() (time.Duration, bool) }
	if errors.As(err, &d) {
		if delay, ok := d.RetryDelay(); ok {
			return delay, nil
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.options.InitialBackoff
	if isThrottling(err) {
		b.InitialInterval = s.options.ThrottleBackoff
	}
	b.MaxInterval = s.options.MaxBackoff
	b.Multiplier = s.options.Multiplier
	b.RandomizationFactor = s.options.RandomizationFactor
	b.Reset()

	delay := b.NextBackOff()
	for i := 1; i < attempt; i++ {
		delay = b.NextBackOff()
	}
	if delay > s.options.MaxBackoff {
		delay = s.options.MaxBackoff
	}
	return delay, nil
}

// MaxAttemptsError is returned when the last allowed attempt failed with a
// retryable error.
type MaxAttemptsError struct {
	Attempt int
	Err     error
}

func (e *MaxAttemptsError) Error() string {
	return fmt.Sprintf("exceeded maximum number of attempts, %d, %v", e.Attempt, e.Err)
}

// Unwrap returns the nested error causing the max attempts error.
func (e *MaxAttemptsError) Unwrap() error { return e.Err }

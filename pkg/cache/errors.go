package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable means a remote backend could not be reached.
	ErrUnavailable = errors.New("cache unavailable")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("cache closed")
)

// transient tags a backend failure that may succeed on another attempt.
type transient struct{ cause error }

func (t transient) Error() string { return t.cause.Error() }
func (t transient) Unwrap() error { return t.cause }

// Retryable tags err so that [RetryWithBackoff] tries again. A nil err
// stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return transient{cause: err}
}

// IsRetryable reports whether err, or anything it wraps, came from
// [Retryable].
func IsRetryable(err error) bool {
	var t transient
	return errors.As(err, &t)
}

const retryAttempts = 3

// retryDelay is the pause after the first failure. Each later pause is
// twice the previous one.
var retryDelay = 200 * time.Millisecond

// RetryWithBackoff runs fn until it succeeds, returns an error not tagged
// with [Retryable], or has been tried three times. Cancelling ctx during a
// pause returns ctx.Err().
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	err := fn()
	for attempt, wait := 1, retryDelay; attempt < retryAttempts && IsRetryable(err); attempt, wait = attempt+1, wait*2 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		err = fn()
	}
	return err
}

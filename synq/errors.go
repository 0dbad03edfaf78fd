package synq

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/darcyk/darcyk"
)

// TimeoutErr when the deadline passed before the expected condition was met
type TimeoutErr struct {
	Description string
	Elapsed     time.Duration
	Timeout     time.Duration
	// Last transient error swallowed while polling, if any
	Last error
}

func (e *TimeoutErr) Error() string {
	msg := fmt.Sprintf("timed out after %s waiting for %s", e.Elapsed, e.Description)
	if e.Last != nil {
		msg += " (last error: " + e.Last.Error() + ")"
	}
	return msg
}

// PrematureFailureErr when a fail-if signal occurred before the expected condition
type PrematureFailureErr struct {
	Description string // the signal that occurred
	Expected    string // what was being waited for
}

func (e *PrematureFailureErr) Error() string {
	return e.Description + " occurred while waiting for " + e.Expected
}

// IsTimeout returns true if err is, or wraps, a *TimeoutErr
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutErr
	return errors.As(err, &timeoutErr)
}

// IsPrematureFailure returns true if err is, or wraps, a *PrematureFailureErr
func IsPrematureFailure(err error) bool {
	var failErr *PrematureFailureErr
	return errors.As(err, &failErr)
}

type transientErr struct {
	err error
}

func (e *transientErr) Error() string   { return e.err.Error() }
func (e *transientErr) Unwrap() error   { return e.err }
func (e *transientErr) Transient() bool { return true }

// Transient marks err as safe to retry on the next poll
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientErr{err: err}
}

// IsTransient returns true for errors a condition may raise while the page is changing under
// it. These are swallowed by the poll loop. Stale elements are always transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, darcyk.ErrStaleElement) {
		return true
	}
	var t interface{ Transient() bool }
	return errors.As(err, &t) && t.Transient()
}

package fluent

import (
	"context"
	"fmt"
	"time"
)

// Condition reports whether the awaited state has been reached. An error
// counts as not reached, and is returned by WaitUntil if it persists until
// the timeout.
type Condition func() (bool, error)

// Check turns an action, typically an expectation, into a Condition that
// holds once the action succeeds.
func Check(action func() error) Condition {
	return func() (bool, error) {
		if err := action(); err != nil {
			return false, err
		}
		return true, nil
	}
}

// Wait is WaitUntil with the session's timeout and interval.
func (s *Session) Wait(ctx context.Context, cond Condition) error {
	return s.WaitUntil(ctx, cond, s.timeout, s.interval)
}

// WaitUntil evaluates cond until it holds, returning nil, or until timeout
// elapses, returning the error of the final attempt. The final attempt is
// made at the deadline, so a failing wait lasts at least timeout. A zero
// interval means the session default.
//
// Errors that wrap ErrSessionLost end the wait at once and are returned
// unchanged, as does cancellation of ctx.
func (s *Session) WaitUntil(ctx context.Context, cond Condition, timeout, interval time.Duration) error {
	if timeout <= 0 {
		return &InvalidArgumentError{Argument: "timeout", Reason: fmt.Sprintf("must be positive, got %v", timeout)}
	}
	if interval < 0 {
		return &InvalidArgumentError{Argument: "interval", Reason: fmt.Sprintf("must not be negative, got %v", interval)}
	}
	if interval == 0 {
		interval = s.interval
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	deadline := start.Add(timeout)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			s.metrics.observeWait(time.Since(start), outcomeError)
			return err
		}

		s.metrics.observeAttempt()
		ok, err := cond()
		switch {
		case err == nil && ok:
			s.metrics.observeWait(time.Since(start), outcomeOK)
			return nil
		case IsFatal(err):
			s.log.Tracef("wait attempt %d: fatal error: %v", attempt, err)
			s.metrics.observeWait(time.Since(start), outcomeError)
			return err
		case err != nil:
			s.log.Tracef("wait attempt %d: %v", attempt, err)
		default:
			s.log.Tracef("wait attempt %d: condition not met", attempt)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			s.metrics.observeWait(time.Since(start), outcomeTimeout)
			if err != nil {
				return err
			}
			return expectationFailed("", "true", "false",
				"Expected condition to be met within [%v] but it was not after %d attempts.", timeout, attempt)
		}

		d := interval
		if d > remaining {
			d = remaining
		}
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			s.metrics.observeWait(time.Since(start), outcomeError)
			return ctx.Err()
		case <-t.C:
		}
	}
}

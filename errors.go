package fluent

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchElement is reported by a Document when nothing matches a
	// selector. Adapters wrap it; callers test for it with errors.Is.
	ErrNoSuchElement = errors.New("no such element")

	// ErrSessionLost marks transport failures after which the browser session
	// cannot recover, such as an invalid session ID or a closed window.
	// WaitUntil does not retry these.
	ErrSessionLost = errors.New("browser session lost")
)

// UnsupportedBrowserError is returned when a browser identifier is not part
// of the supported set, or cannot be used for the requested target.
type UnsupportedBrowserError struct {
	Browser string
	Reason  string
}

func (e *UnsupportedBrowserError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported browser %q: %s", e.Browser, e.Reason)
	}
	return fmt.Sprintf("unsupported browser %q", e.Browser)
}

// ElementNotFoundError is returned when a selector resolves to nothing.
type ElementNotFoundError struct {
	Selector string
	// Detail optionally narrows what was missing, e.g. an option of a select.
	Detail string
}

func (e *ElementNotFoundError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("element matching selector [%s] not found: %s", e.Selector, e.Detail)
	}
	return fmt.Sprintf("element matching selector [%s] not found", e.Selector)
}

func (e *ElementNotFoundError) Unwrap() error { return ErrNoSuchElement }

// CommandExecutionError wraps a failure raised while executing a command or
// an expectation that is not itself a domain error.
type CommandExecutionError struct {
	Err error
}

func (e *CommandExecutionError) Error() string {
	return "command execution failed: " + e.Err.Error()
}

func (e *CommandExecutionError) Unwrap() error { return e.Err }

// ExpectationFailedError is returned when an asserted condition does not hold.
type ExpectationFailedError struct {
	Message string
	// Context is the selector or expression the expectation was made on.
	Context  string
	Expected string
	Actual   string
}

func (e *ExpectationFailedError) Error() string { return e.Message }

// InvalidArgumentError is returned for malformed inputs such as a negative
// timeout.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Argument, e.Reason)
}

// IsExpectationFailed reports whether err is, or wraps, an
// *ExpectationFailedError.
func IsExpectationFailed(err error) bool {
	var e *ExpectationFailedError
	return errors.As(err, &e)
}

// IsFatal reports whether err leaves the session unusable.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSessionLost)
}

// isDomainError reports whether err is, or wraps, an error of the package's
// own taxonomy and must pass through the fault boundary unchanged.
func isDomainError(err error) bool {
	var (
		efe *ExpectationFailedError
		nf  *ElementNotFoundError
		iae *InvalidArgumentError
		cee *CommandExecutionError
		ube *UnsupportedBrowserError
	)
	return errors.As(err, &efe) || errors.As(err, &nf) || errors.As(err, &iae) ||
		errors.As(err, &cee) || errors.As(err, &ube)
}

func expectationFailed(context, expected, actual, format string, args ...interface{}) *ExpectationFailedError {
	return &ExpectationFailedError{
		Message:  fmt.Sprintf(format, args...),
		Context:  context,
		Expected: expected,
		Actual:   actual,
	}
}

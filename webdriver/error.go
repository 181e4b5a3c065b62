package webdriver

import (
	"fmt"

	"github.com/wanmail/fluent"
)

// Errors returned by legacy Selenium servers, keyed by status code.
var remoteErrors = map[int]string{
	6:  "invalid session id",
	7:  "no such element",
	8:  "no such frame",
	9:  "unknown command",
	10: "stale element reference",
	11: "element not visible",
	12: "invalid element state",
	13: "unknown error",
	15: "element is not selectable",
	17: "javascript error",
	19: "xpath lookup error",
	21: "timeout",
	23: "no such window",
	24: "invalid cookie domain",
	25: "unable to set cookie",
	26: "unexpected alert open",
	27: "no alert open",
	28: "script timeout",
	29: "invalid element coordinates",
	32: "invalid selector",
	33: "session not created",
}

// Error is an error returned by a WebDriver server.
type Error struct {
	// Err is the W3C error code, e.g. "no such element". Replies from legacy
	// servers are mapped onto the same names.
	Err string
	// Message is the detailed message from the server, if any.
	Message string
	// HTTPCode is the HTTP status of the reply.
	HTTPCode int
	// LegacyCode is the status code of legacy servers, or 0.
	LegacyCode int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Err
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Message)
}

// Unwrap maps the server error onto the sentinels of package fluent, so that
// a missing element reads as fluent.ErrNoSuchElement and a dead session as
// fluent.ErrSessionLost.
func (e *Error) Unwrap() error {
	switch e.Err {
	case "no such element":
		return fluent.ErrNoSuchElement
	case "invalid session id", "no such window", "session not created":
		return fluent.ErrSessionLost
	}
	return nil
}

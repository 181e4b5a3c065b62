// Package log provides logging-related configuration types and the trace
// sink used by sessions and adapters.
package log

import (
	"fmt"

	"github.com/golang/glog"
)

// Type represents a component capable of logging.
type Type string

// The valid log types.
const (
	Server      Type = "server"
	Browser     Type = "browser"
	Client      Type = "client"
	Driver      Type = "driver"
	Performance Type = "performance"
)

// Level represents a logging level of different components in the browser,
// the driver, or any intermediary WebDriver servers.
type Level string

// The valid log levels.
const (
	Off     Level = "OFF"
	Severe  Level = "SEVERE"
	Warning Level = "WARNING"
	Info    Level = "INFO"
	Debug   Level = "DEBUG"
	All     Level = "ALL"
)

// CapabilitiesKey is the key for the logging preferences entry in the JSON
// structure representing WebDriver capabilities.
//
// Note that the W3C spec does not include logging right now, and starting with
// Chrome 75, "loggingPrefs" has been changed to "goog:loggingPrefs"
const CapabilitiesKey = "goog:loggingPrefs"

// Capabilities is the map to include in the WebDriver capabilities structure
// to configure logging.
type Capabilities map[Type]Level

// Logger receives trace output, such as the failures swallowed while
// polling for a condition.
type Logger interface {
	Tracef(format string, args ...interface{})
}

// TraceLevel is the glog verbosity at which trace output is written.
const TraceLevel glog.Level = 2

// Glog returns a Logger that writes to glog when verbosity v is enabled.
func Glog(v glog.Level) Logger { return glogLogger(v) }

type glogLogger glog.Level

func (l glogLogger) Tracef(format string, args ...interface{}) {
	if v := glog.V(glog.Level(l)); v {
		v.Infof(format, args...)
	}
}

// Discard is a Logger that drops everything.
var Discard Logger = discard{}

type discard struct{}

func (discard) Tracef(string, ...interface{}) {}

// Prefix returns a Logger that prepends prefix to every line written to l.
func Prefix(l Logger, prefix string) Logger {
	if l == nil {
		l = Discard
	}
	return prefixed{l, prefix}
}

type prefixed struct {
	l      Logger
	prefix string
}

func (p prefixed) Tracef(format string, args ...interface{}) {
	p.l.Tracef("%s%s", p.prefix, fmt.Sprintf(format, args...))
}

// Recorder is a Logger that keeps every line in memory. It is meant for
// tests.
type Recorder struct {
	Lines []string
}

// Tracef records the formatted line.
func (r *Recorder) Tracef(format string, args ...interface{}) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

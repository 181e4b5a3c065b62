// Package firefox provides Firefox-specific options for a browser session.
package firefox

// CapabilitiesKey is the name of the Firefox-specific key in the WebDriver
// capabilities object.
const CapabilitiesKey = "moz:firefoxOptions"

// Capabilities provides Firefox-specific options to geckodriver.
type Capabilities struct {
	// Binary is the absolute path of the Firefox binary. If left undefined,
	// geckodriver will attempt to deduce the default location of Firefox on
	// the current system.
	Binary string `json:"binary,omitempty" yaml:"binary,omitempty"`
	// Args are the command line arguments to pass to the Firefox binary. These
	// must include the leading -- where required e.g. ["--devtools"].
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
	// Log specifies the logging options for Gecko.
	Log *Log `json:"log,omitempty" yaml:"log,omitempty"`
	// Map of preference name to preference value, which can be a string, a
	// boolean or an integer.
	Prefs map[string]interface{} `json:"prefs,omitempty" yaml:"prefs,omitempty"`
}

// New returns the default options for a windowed or headless instance.
func New(headless bool) Capabilities {
	var c Capabilities
	if headless {
		c.Args = []string{"-headless"}
	}
	return c
}

// LogLevel is an enum that defines logging levels for Firefox.
type LogLevel string

// Levels of logging that can be specified in the Log structure.
const (
	Trace  LogLevel = "trace"
	Debug  LogLevel = "debug"
	Config LogLevel = "config"
	Info   LogLevel = "info"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
	Fatal  LogLevel = "fatal"
)

// Log specifies how Firefox should log debug data.
type Log struct {
	Level LogLevel `json:"level" yaml:"level"`
}

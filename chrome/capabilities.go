// Package chrome provides Chrome-specific options for a browser session.
package chrome

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"io"
	"os"
)

// CapabilitiesKey is the key in the top-level capability map under which
// ChromeDriver expects the Chrome-specific options to be set.
const CapabilitiesKey = "goog:chromeOptions"

// AndroidPackage is the package name of Chrome on Android devices.
const AndroidPackage = "com.android.chrome"

// Capabilities defines the Chrome-specific desired capabilities. See
// https://chromedriver.chromium.org/capabilities
type Capabilities struct {
	// Path is the file path to the Chrome binary to use.
	Path string `json:"binary,omitempty" yaml:"binary,omitempty"`
	// Args are the command-line arguments to pass to the Chrome binary, in
	// addition to the ChromeDriver-supplied ones.
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
	// ExcludeSwitches are default flags to drop, without the leading "--".
	ExcludeSwitches []string `json:"excludeSwitches,omitempty" yaml:"excludeSwitches,omitempty"`
	// Extensions are base-64 encoded .crx files. Use AddExtension to add a
	// local file.
	Extensions []string `json:"extensions,omitempty" yaml:"-"`
	// Prefs are applied to the preferences of the user profile in use.
	Prefs map[string]interface{} `json:"prefs,omitempty" yaml:"prefs,omitempty"`
	// DebuggerAddr is the address of a running Chrome debugger to attach to.
	DebuggerAddr string `json:"debuggerAddress,omitempty" yaml:"debuggerAddress,omitempty"`
	// MobileEmulation provides options for mobile emulation.
	MobileEmulation *MobileEmulation `json:"mobileEmulation,omitempty" yaml:"mobileEmulation,omitempty"`
	// AndroidPackage selects the Chrome package on an Android device.
	AndroidPackage string `json:"androidPackage,omitempty" yaml:"androidPackage,omitempty"`
	// Use W3C mode, if true.
	W3C bool `json:"w3c" yaml:"w3c"`
}

// MobileEmulation provides options for mobile emulation. Only DeviceName or
// both of DeviceMetrics and UserAgent may be set at once.
type MobileEmulation struct {
	DeviceName    string         `json:"deviceName,omitempty" yaml:"deviceName,omitempty"`
	DeviceMetrics *DeviceMetrics `json:"deviceMetrics,omitempty" yaml:"deviceMetrics,omitempty"`
	UserAgent     string         `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
}

// DeviceMetrics specifies device attributes for emulation.
type DeviceMetrics struct {
	Width      uint    `json:"width" yaml:"width"`
	Height     uint    `json:"height" yaml:"height"`
	PixelRatio float64 `json:"pixelRatio" yaml:"pixelRatio"`
	// Touch indicates whether to emulate touch events. The default is true, if
	// unset.
	Touch *bool `json:"touch,omitempty" yaml:"touch,omitempty"`
}

// HeadlessArgs are the arguments that run Chrome without a window.
var HeadlessArgs = []string{"--headless", "--disable-gpu"}

// New returns the default options. Headless instances get HeadlessArgs.
func New(headless bool) Capabilities {
	c := Capabilities{W3C: true}
	if headless {
		c.Args = append(c.Args, HeadlessArgs...)
	}
	return c
}

// HasArg reports whether arg was passed on the command line.
func (c *Capabilities) HasArg(arg string) bool {
	for _, a := range c.Args {
		if a == arg {
			return true
		}
	}
	return false
}

// AddExtension adds an extension for the browser to load at startup. The path
// should name a packed extension (.crx); its contents are loaded into memory.
func (c *Capabilities) AddExtension(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.addExtension(f)
}

// addExtension reads a Chrome extension's data from r, base64-encodes it, and
// attaches it to the Capabilities instance.
func (c *Capabilities) addExtension(r io.Reader) error {
	var buf bytes.Buffer
	encoder := base64.NewEncoder(base64.StdEncoding, &buf)
	if _, err := io.Copy(encoder, bufio.NewReader(r)); err != nil {
		return err
	}
	encoder.Close()
	c.Extensions = append(c.Extensions, buf.String())
	return nil
}

package fluent

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/wanmail/fluent/chrome"
	"github.com/wanmail/fluent/firefox"
	"github.com/wanmail/fluent/log"
	"github.com/wanmail/fluent/sauce"
)

// JavascriptEnabled is the capability key that every resolved record sets
// to true.
const JavascriptEnabled = "javascriptEnabled"

// Capabilities configures both the driver process and the target browser,
// with standard and browser-specific options.
type Capabilities map[string]interface{}

// AddChrome adds Chrome-specific capabilities.
func (c Capabilities) AddChrome(f chrome.Capabilities) {
	c[chrome.CapabilitiesKey] = f
}

// AddFirefox adds Firefox-specific capabilities.
func (c Capabilities) AddFirefox(f firefox.Capabilities) {
	c[firefox.CapabilitiesKey] = f
}

// AddProxy adds proxy configuration to the capabilities.
func (c Capabilities) AddProxy(p Proxy) {
	c["proxy"] = p
}

// AddLogging adds logging configuration to the capabilities.
func (c Capabilities) AddLogging(l log.Capabilities) {
	c[log.CapabilitiesKey] = l
}

// SetLogLevel sets the logging level of a component. It is a shortcut for
// passing a log.Capabilities instance to AddLogging.
func (c Capabilities) SetLogLevel(typ log.Type, level log.Level) {
	m, ok := c[log.CapabilitiesKey].(log.Capabilities)
	if !ok {
		m = make(log.Capabilities)
		c[log.CapabilitiesKey] = m
	}
	m[typ] = level
}

// Proxy specifies configuration for proxies in the browser.
type Proxy struct {
	// Type is the type of proxy to use. This is required to be populated.
	Type ProxyType `json:"proxyType" yaml:"type"`

	// AutoconfigURL is the URL to be used for proxy auto configuration. This is
	// required if Type is set to PAC.
	AutoconfigURL string `json:"proxyAutoconfigUrl,omitempty" yaml:"autoconfig_url,omitempty"`

	// The following are used when Type is set to Manual.
	HTTP    string   `json:"httpProxy,omitempty" yaml:"http,omitempty"`
	SSL     string   `json:"sslProxy,omitempty" yaml:"ssl,omitempty"`
	SOCKS   string   `json:"socksProxy,omitempty" yaml:"socks,omitempty"`
	NoProxy []string `json:"noProxy,omitempty" yaml:"no_proxy,omitempty"`
}

// ProxyType is an enumeration of the types of proxies available.
type ProxyType string

const (
	// Direct connection - no proxy in use.
	Direct ProxyType = "direct"
	// Manual proxy settings configured, e.g. setting a proxy for HTTP.
	Manual ProxyType = "manual"
	// Autodetect proxy, probably with WPAD
	Autodetect ProxyType = "autodetect"
	// System settings used.
	System ProxyType = "system"
	// PAC - Proxy autoconfiguration from a URL.
	PAC ProxyType = "pac"
)

// CapabilityRecord is the resolved, immutable capability set for a browser.
type CapabilityRecord struct {
	browser Browser
	remote  bool
	caps    Capabilities
}

// Browser returns the browser the record was resolved for.
func (r *CapabilityRecord) Browser() Browser { return r.browser }

// Remote reports whether the record targets a remote endpoint.
func (r *CapabilityRecord) Remote() bool { return r.remote }

// Capabilities returns a deep copy of the capability map.
func (r *CapabilityRecord) Capabilities() Capabilities {
	c := make(Capabilities, len(r.caps))
	for k, v := range r.caps {
		c[k] = copyCapability(v)
	}
	return c
}

// Get returns a deep copy of a single capability.
func (r *CapabilityRecord) Get(key string) (interface{}, bool) {
	v, ok := r.caps[key]
	return copyCapability(v), ok
}

// Keys returns the capability names in sorted order.
func (r *CapabilityRecord) Keys() []string {
	keys := make([]string, 0, len(r.caps))
	for k := range r.caps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ResolveCapabilities returns the capability record for driving b through a
// local driver executable. Entries of overrides replace the defaults of b.
// Browsers that can only be driven remotely are rejected.
func ResolveCapabilities(b Browser, overrides Capabilities) (*CapabilityRecord, error) {
	if b.RemoteOnly() {
		return nil, &UnsupportedBrowserError{Browser: string(b), Reason: "only available through a remote endpoint"}
	}
	return resolveCapabilities(b, overrides, false)
}

// ResolveRemoteCapabilities is like ResolveCapabilities, for a session
// created on a remote endpoint.
func ResolveRemoteCapabilities(b Browser, overrides Capabilities) (*CapabilityRecord, error) {
	return resolveCapabilities(b, overrides, true)
}

func resolveCapabilities(b Browser, overrides Capabilities, remote bool) (*CapabilityRecord, error) {
	if _, ok := browsers[b]; !ok {
		return nil, &UnsupportedBrowserError{Browser: string(b)}
	}
	caps, err := defaultCapabilities(b)
	if err != nil {
		return nil, err
	}
	for k, v := range overrides {
		caps[k] = copyCapability(v)
	}
	caps[JavascriptEnabled] = true
	return &CapabilityRecord{browser: b, remote: remote, caps: caps}, nil
}

// defaultCapabilities builds a fresh default set for b.
func defaultCapabilities(b Browser) (Capabilities, error) {
	caps := Capabilities{}
	switch b {
	case Chrome, ChromeHeadless:
		caps["browserName"] = "chrome"
		caps.AddChrome(chrome.New(b.Headless()))
		caps.SetLogLevel(log.Browser, log.Severe)
	case Firefox, FirefoxHeadless:
		caps["browserName"] = "firefox"
		caps.AddFirefox(firefox.New(b.Headless()))
	case InternetExplorer, InternetExplorer64:
		caps["browserName"] = "internet explorer"
		caps["platformName"] = "windows"
		arch := "x86"
		if b == InternetExplorer64 {
			arch = "x64"
		}
		caps["se:ieOptions"] = map[string]interface{}{
			"ie.ensureCleanSession": true,
			"ie.architecture":       arch,
		}
	case PhantomJS:
		caps["browserName"] = "phantomjs"
	case Safari:
		caps["browserName"] = "safari"
		caps["platformName"] = "mac"
	case Android:
		caps.AddChrome(chrome.Capabilities{W3C: true, AndroidPackage: chrome.AndroidPackage})
		sc := &sauce.Capabilities{Browser: "chrome", Platform: "Android", DeviceName: "Android Emulator", DeviceOrientation: "portrait"}
		if err := sc.MergeInto(caps); err != nil {
			return nil, err
		}
	case IPhone:
		sc := &sauce.Capabilities{Browser: "safari", Platform: "iOS", DeviceName: "iPhone Simulator", DeviceOrientation: "portrait"}
		if err := sc.MergeInto(caps); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no default capabilities for %q", b)
	}
	return caps, nil
}

// copyCapability copies v so that no map, slice or pointer inside it is
// shared with the original.
func copyCapability(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	return deepCopy(reflect.ValueOf(v)).Interface()
}

func deepCopy(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(deepCopy(v.Elem()))
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		for it := v.MapRange(); it.Next(); {
			out.SetMapIndex(it.Key(), deepCopy(it.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopy(v.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if f := out.Field(i); f.CanSet() {
				f.Set(deepCopy(v.Field(i)))
			}
		}
		return out
	}
	return v
}

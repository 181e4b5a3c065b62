package fluent

import (
	"sort"
	"strings"
)

// Browser is a logical browser identifier.
type Browser string

// The supported browsers.
const (
	Chrome             Browser = "chrome"
	ChromeHeadless     Browser = "chrome-headless"
	Firefox            Browser = "firefox"
	FirefoxHeadless    Browser = "firefox-headless"
	InternetExplorer   Browser = "internet-explorer"
	InternetExplorer64 Browser = "internet-explorer-64"
	PhantomJS          Browser = "phantomjs"
	Safari             Browser = "safari"
	Android            Browser = "android"
	IPhone             Browser = "iphone"
)

// browserInfo describes how a Browser is driven. Capability defaults live in
// capabilities.go.
type browserInfo struct {
	// driver is the file name of the local driver executable; empty for
	// browsers that can only be reached through a remote endpoint.
	driver   string
	headless bool
	mobile   bool
}

var browsers = map[Browser]browserInfo{
	Chrome:             {driver: "chromedriver"},
	ChromeHeadless:     {driver: "chromedriver", headless: true},
	Firefox:            {driver: "geckodriver"},
	FirefoxHeadless:    {driver: "geckodriver", headless: true},
	InternetExplorer:   {driver: "IEDriverServer32.exe"},
	InternetExplorer64: {driver: "IEDriverServer64.exe"},
	PhantomJS:          {driver: "phantomjs", headless: true},
	Safari:             {},
	Android:            {mobile: true},
	IPhone:             {mobile: true},
}

// ParseBrowser returns the Browser named by s, ignoring case and
// surrounding whitespace.
func ParseBrowser(s string) (Browser, error) {
	b := Browser(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := browsers[b]; !ok {
		return "", &UnsupportedBrowserError{Browser: s}
	}
	return b, nil
}

// Browsers returns every supported browser, sorted by name.
func Browsers() []Browser {
	bs := make([]Browser, 0, len(browsers))
	for b := range browsers {
		bs = append(bs, b)
	}
	sort.Slice(bs, func(i, j int) bool { return bs[i] < bs[j] })
	return bs
}

// DriverBinary returns the file name of the local driver executable for b,
// or "" if b can only be driven remotely.
func (b Browser) DriverBinary() string {
	return browsers[b].driver
}

// RemoteOnly reports whether b can only be driven through a remote endpoint.
func (b Browser) RemoteOnly() bool {
	info, ok := browsers[b]
	return ok && info.driver == ""
}

// Headless reports whether b runs without a visible window.
func (b Browser) Headless() bool { return browsers[b].headless }

// Mobile reports whether b is a mobile device profile.
func (b Browser) Mobile() bool { return browsers[b].mobile }

func (b Browser) String() string { return string(b) }

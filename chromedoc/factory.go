package chromedoc

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/chromedp/chromedp"
	"github.com/wanmail/fluent"
	"github.com/wanmail/fluent/chrome"
)

// Factory launches Chrome for resolved capability records. It implements
// fluent.DriverFactory and fluent.ExecutableFinder; the path it is given is
// the Chrome binary, not ChromeDriver.
type Factory struct {
	// Context is the parent of every browser; it defaults to
	// context.Background.
	Context context.Context
	// Options are applied to every Document.
	Options []Option
}

var (
	_ fluent.DriverFactory    = Factory{}
	_ fluent.ExecutableFinder = Factory{}
)

// executables are the names Chrome is installed under, in order of
// preference.
var executables = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
}

// FindExecutable returns the first Chrome executable found in PATH.
func (Factory) FindExecutable(b fluent.Browser) (string, error) {
	if err := checkBrowser(b); err != nil {
		return "", err
	}
	for _, name := range executables {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", &fluent.InvalidArgumentError{
		Argument: "driver_path",
		Reason:   fmt.Sprintf("none of %s found in PATH", strings.Join(executables, ", ")),
	}
}

// NewDriver launches the Chrome binary at path.
func (f Factory) NewDriver(rec *fluent.CapabilityRecord, path string) (fluent.Driver, error) {
	if err := checkBrowser(rec.Browser()); err != nil {
		return nil, err
	}
	alloc, err := AllocatorOptions(rec, path)
	if err != nil {
		return nil, err
	}
	ctx := f.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return New(ctx, alloc, f.Options...)
}

func checkBrowser(b fluent.Browser) error {
	if b != fluent.Chrome && b != fluent.ChromeHeadless {
		return &fluent.UnsupportedBrowserError{Browser: string(b), Reason: "only Chrome speaks the DevTools protocol"}
	}
	return nil
}

// AllocatorOptions translates the Chrome capabilities of rec into the
// options of a Chrome process. Command-line arguments become flags and
// excluded switches are turned off.
func AllocatorOptions(rec *fluent.CapabilityRecord, path string) ([]chromedp.ExecAllocatorOption, error) {
	opts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	if !rec.Browser().Headless() {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	var cc chrome.Capabilities
	switch v, _ := rec.Get(chrome.CapabilitiesKey); v := v.(type) {
	case chrome.Capabilities:
		cc = v
	case *chrome.Capabilities:
		cc = *v
	}
	if len(cc.Extensions) > 0 {
		return nil, &fluent.InvalidArgumentError{Argument: "chrome_extensions", Reason: "packed extensions are only installed by ChromeDriver"}
	}
	if path == "" {
		path = cc.Path
	}
	if path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}
	for _, arg := range cc.Args {
		name, value, ok := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if name == "" {
			continue
		}
		if ok {
			opts = append(opts, chromedp.Flag(name, value))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}
	for _, sw := range cc.ExcludeSwitches {
		opts = append(opts, chromedp.Flag(strings.TrimLeft(sw, "-"), false))
	}

	if v, ok := rec.Get("proxy"); ok {
		if p, ok := v.(fluent.Proxy); ok {
			switch p.Type {
			case fluent.Manual:
				if p.HTTP != "" {
					opts = append(opts, chromedp.ProxyServer(p.HTTP))
				}
				if len(p.NoProxy) > 0 {
					opts = append(opts, chromedp.Flag("proxy-bypass-list", strings.Join(p.NoProxy, ";")))
				}
			case fluent.PAC:
				opts = append(opts, chromedp.Flag("proxy-pac-url", p.AutoconfigURL))
			case fluent.Direct:
				opts = append(opts, chromedp.Flag("no-proxy-server", true))
			}
		}
	}
	return opts, nil
}

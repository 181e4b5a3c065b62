package webdriver

import (
	"flag"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/wanmail/fluent"
	"github.com/wanmail/fluent/internal/fluenttest"
)

var (
	chromeDriverPath = flag.String("chrome_driver_path", "", "The path to the ChromeDriver binary. If empty or the file is not present, Chrome tests will not be run.")
	geckoDriverPath  = flag.String("geckodriver_path", "", "The path to the geckodriver binary. If empty or the file is not present, the Geckodriver tests will not be run.")
)

// runBrowserTests starts one driver service per test and runs the common
// tests against a real browser.
func runBrowserTests(t *testing.T, b fluent.Browser, path string) {
	if path == "" {
		t.Skipf("Skipping %s tests because no driver path was given", b)
	}
	if _, err := os.Stat(path); err != nil {
		t.Skipf("Skipping %s tests because the driver was not found at path %q", b, path)
	}

	srv := httptest.NewServer(fluenttest.Handler)
	defer srv.Close()

	var f Factory
	if testing.Verbose() {
		f.Output = os.Stderr
	}
	fluenttest.RunCommonTests(t, fluenttest.Config{
		NewDriver: func(t *testing.T) fluent.Driver {
			rec, err := fluent.ResolveCapabilities(b, nil)
			if err != nil {
				t.Fatalf("ResolveCapabilities(%q) returned error: %v", b, err)
			}
			d, err := f.NewDriver(rec, path)
			if err != nil {
				t.Fatalf("f.NewDriver(%q) returned error: %v", b, err)
			}
			return d
		},
		ServerURL: srv.URL + "/",
	})
}

func TestChrome(t *testing.T) {
	runBrowserTests(t, fluent.ChromeHeadless, *chromeDriverPath)
}

func TestFirefox(t *testing.T) {
	runBrowserTests(t, fluent.FirefoxHeadless, *geckoDriverPath)
}

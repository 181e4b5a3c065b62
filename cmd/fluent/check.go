package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/wanmail/fluent"
	"github.com/wanmail/fluent/chromedoc"
	"github.com/wanmail/fluent/htmldoc"
	"github.com/wanmail/fluent/log"
	"github.com/wanmail/fluent/webdriver"
)

// errChecksFailed is returned after the results of failing checks have been
// written.
var errChecksFailed = errors.New("some checks failed")

// CheckResult is the YAML output of a single check.
type CheckResult struct {
	Check string `yaml:"check"`
	Pass  bool   `yaml:"pass"`
	Error string `yaml:"error,omitempty"`
}

type check struct {
	name string
	run  func(*fluent.Session) error
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check URL",
		Short: "Open a page and run expectations against it",
		Long: `Open URL in a browser and check the page.

Element checks take SELECTOR=EXPECTED; the last "=" separates the two, so
attribute selectors such as input[name=q]=golang work. Every check is
reported; the command fails if any does.

--driver picks how the page is loaded: "webdriver" starts or connects to a
WebDriver server, "chromedp" drives Chrome over the DevTools protocol and
"html" fetches the page without a browser.`,
		Args: cobra.ExactArgs(1),
		RunE: runCheck,
	}
	flags := cmd.Flags()
	flags.String("driver", "webdriver", "Backend: webdriver, chromedp or html")
	flags.StringArray("text", nil, "SELECTOR=TEXT the element's text must equal")
	flags.StringArray("value", nil, "SELECTOR=VALUE the element's value must equal")
	flags.StringArray("class", nil, "SELECTOR=CLASS the element must carry")
	flags.StringArray("count", nil, "SELECTOR=N elements must match")
	flags.StringArray("exists", nil, "SELECTOR that must match an element")
	flags.String("url", "", "URL the page must end up at")
	flags.Duration("wait", 0, "Retry each check for up to this long (0 = check once)")
	return cmd
}

func parseChecks(cmd *cobra.Command) ([]check, error) {
	flags := cmd.Flags()
	var checks []check

	pairs := func(flag string, f func(s *fluent.Session, sel, want string) error) error {
		vals, _ := flags.GetStringArray(flag)
		for _, v := range vals {
			i := strings.LastIndex(v, "=")
			if i <= 0 {
				return fmt.Errorf("--%s %q: want SELECTOR=EXPECTED", flag, v)
			}
			sel, want := v[:i], v[i+1:]
			checks = append(checks, check{
				name: fmt.Sprintf("%s %s", flag, v),
				run:  func(s *fluent.Session) error { return f(s, sel, want) },
			})
		}
		return nil
	}

	if err := pairs("text", func(s *fluent.Session, sel, want string) error {
		return s.Expect().Text(want, s.Find(sel))
	}); err != nil {
		return nil, err
	}
	if err := pairs("value", func(s *fluent.Session, sel, want string) error {
		return s.Expect().Value(want, s.Find(sel))
	}); err != nil {
		return nil, err
	}
	if err := pairs("class", func(s *fluent.Session, sel, want string) error {
		return s.Expect().CSSClass(want, s.Find(sel))
	}); err != nil {
		return nil, err
	}

	counts, _ := flags.GetStringArray("count")
	for _, v := range counts {
		i := strings.LastIndex(v, "=")
		if i <= 0 {
			return nil, fmt.Errorf("--count %q: want SELECTOR=N", v)
		}
		sel := v[:i]
		n, err := strconv.Atoi(v[i+1:])
		if err != nil {
			return nil, fmt.Errorf("--count %q: %w", v, err)
		}
		checks = append(checks, check{
			name: "count " + v,
			run:  func(s *fluent.Session) error { return s.Expect().Count(n, s.FindAll(sel)) },
		})
	}

	exists, _ := flags.GetStringArray("exists")
	for _, sel := range exists {
		checks = append(checks, check{
			name: "exists " + sel,
			run:  func(s *fluent.Session) error { return s.Expect().Exists(s.Find(sel)) },
		})
	}

	if u, _ := flags.GetString("url"); u != "" {
		checks = append(checks, check{
			name: "url " + u,
			run:  func(s *fluent.Session) error { return s.Expect().URL(u) },
		})
	}
	return checks, nil
}

// newSession returns a session over the backend named by --driver.
func newSession(cmd *cobra.Command) (*fluent.Session, error) {
	driver, _ := cmd.Flags().GetString("driver")
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts := []fluent.Option{fluent.WithLogger(log.Glog(log.TraceLevel))}

	switch driver {
	case "html":
		return fluent.NewSession(htmldoc.New(nil), append(cfg.SessionOptions(), opts...)...), nil
	case "webdriver":
		return fluent.Bootstrap(cfg, webdriver.Factory{}, opts...)
	case "chromedp":
		return fluent.Bootstrap(cfg, chromedoc.Factory{Context: cmd.Context()}, opts...)
	}
	return nil, &fluent.InvalidArgumentError{Argument: "driver", Reason: fmt.Sprintf("unknown driver %q", driver)}
}

func runCheck(cmd *cobra.Command, args []string) error {
	checks, err := parseChecks(cmd)
	if err != nil {
		return err
	}
	wait, _ := cmd.Flags().GetDuration("wait")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Open(args[0]); err != nil {
		return err
	}

	results := make([]CheckResult, 0, len(checks))
	failed := false
	for _, c := range checks {
		err := runOne(cmd, s, c, wait)
		r := CheckResult{Check: c.name, Pass: err == nil}
		if err != nil {
			r.Error = err.Error()
			failed = true
		}
		results = append(results, r)
		if fluent.IsFatal(err) {
			break
		}
	}
	if err := writeYAML(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	if failed {
		return errChecksFailed
	}
	return nil
}

func runOne(cmd *cobra.Command, s *fluent.Session, c check, wait time.Duration) error {
	if wait <= 0 {
		return c.run(s)
	}
	return s.WaitUntil(cmd.Context(), fluent.Check(func() error { return c.run(s) }), wait, 0)
}

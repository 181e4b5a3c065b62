// Package fluenttest provides tests that exercise a fluent.Driver end to end.
// These tests are in a separate package so that every adapter can validate
// its behavior against the same pages.
package fluenttest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/wanmail/fluent"
	"github.com/wanmail/fluent/log"
)

// Config describes the driver under test.
type Config struct {
	// NewDriver returns a fresh driver. It is quit when the test ends.
	NewDriver func(t *testing.T) fluent.Driver
	// ServerURL is where Handler is served.
	ServerURL string
	// Static is set for drivers that run no script. Tests that depend on
	// scripts changing the page are skipped.
	Static bool
}

func runTest(f func(*testing.T, Config), c Config) func(*testing.T) {
	return func(t *testing.T) {
		f(t, c)
	}
}

func newSession(t *testing.T, c Config) *fluent.Session {
	d := c.NewDriver(t)
	t.Cleanup(func() {
		if err := d.Quit(); err != nil {
			t.Errorf("Quit() returned error: %v", err)
		}
	})
	s := fluent.NewSession(d,
		fluent.WithLogger(log.Prefix(testLogger{t}, t.Name()+": ")),
		fluent.WithWaitTimeout(10*time.Second),
		fluent.WithWaitInterval(50*time.Millisecond))
	if err := s.Open(c.ServerURL); err != nil {
		t.Fatalf("Open(%q) returned error: %v", c.ServerURL, err)
	}
	return s
}

type testLogger struct{ t *testing.T }

func (l testLogger) Tracef(format string, args ...interface{}) {
	l.t.Logf(format, args...)
}

// RunCommonTests runs the tests every driver must pass.
func RunCommonTests(t *testing.T, c Config) {
	t.Run("Open", runTest(testOpen, c))
	t.Run("Text", runTest(testText, c))
	t.Run("Count", runTest(testCount, c))
	t.Run("CSSClass", runTest(testCSSClass, c))
	t.Run("Exists", runTest(testExists, c))
	t.Run("Select", runTest(testSelect, c))
	t.Run("MultiSelect", runTest(testMultiSelect, c))
	t.Run("Enter", runTest(testEnter, c))
	t.Run("Checkbox", runTest(testCheckbox, c))
	t.Run("Submit", runTest(testSubmit, c))
	t.Run("Throws", runTest(testThrows, c))
	if !c.Static {
		t.Run("Wait", runTest(testWait, c))
	}
}

func testOpen(t *testing.T, c Config) {
	s := newSession(t, c)
	if err := s.Expect().URL(c.ServerURL); err != nil {
		t.Errorf("URL(%q) returned error: %v", c.ServerURL, err)
	}
	other := strings.TrimSuffix(c.ServerURL, "/") + "/other"
	if err := s.Open(other); err != nil {
		t.Fatalf("Open(%q) returned error: %v", other, err)
	}
	if err := s.Expect().Text("The other page.", s.Find("body")); err != nil {
		t.Errorf("Text() on the other page returned error: %v", err)
	}
	if err := s.Open("/relative"); err == nil {
		t.Errorf("Open(/relative) returned nil error")
	}
}

func testText(t *testing.T, c Config) {
	s := newSession(t, c)
	if err := s.Expect().Text("Go Fluent Test Suite", s.Find("h1")); err != nil {
		t.Errorf("Text(h1) returned error: %v", err)
	}
	if err := s.Expect().TextFunc(func(text string) bool {
		return strings.HasPrefix(text, "Go Fluent")
	}, s.Find("h1")); err != nil {
		t.Errorf("TextFunc(h1) returned error: %v", err)
	}

	err := s.Expect().Text("Something else", s.Find("h1"))
	var efe *fluent.ExpectationFailedError
	if !errors.As(err, &efe) {
		t.Fatalf("Text(mismatch) returned %v, want *ExpectationFailedError", err)
	}
	if want := "Expected DOM Element [h1] text to be [Something else] but it was actually [Go Fluent Test Suite]."; efe.Message != want {
		t.Errorf("Text(mismatch) message = %q, want %q", efe.Message, want)
	}
}

func testCount(t *testing.T, c Config) {
	s := newSession(t, c)
	if err := s.Expect().Count(3, s.FindAll("li")); err != nil {
		t.Errorf("Count(3, li) returned error: %v", err)
	}
	if err := s.Expect().Count(0, s.FindAll(".nothing")); err != nil {
		t.Errorf("Count(0, .nothing) returned error: %v", err)
	}
	if err := s.Expect().Count(2, s.FindAll("li")); !fluent.IsExpectationFailed(err) {
		t.Errorf("Count(2, li) returned %v, want an expectation failure", err)
	}
}

func testCSSClass(t *testing.T, c Config) {
	s := newSession(t, c)
	if err := s.Expect().CSSClass("header", s.Find("h1")); err != nil {
		t.Errorf("CSSClass(header) returned error: %v", err)
	}
	if err := s.Expect().CSSClass(".main", s.Find("h1")); err != nil {
		t.Errorf("CSSClass(.main) returned error: %v", err)
	}
	if err := s.Expect().CSSClass("head", s.Find("h1")); !fluent.IsExpectationFailed(err) {
		t.Errorf("CSSClass(head) returned %v, want an expectation failure", err)
	}
}

func testExists(t *testing.T, c Config) {
	s := newSession(t, c)
	if err := s.Expect().Exists(s.Find("#chuk")); err != nil {
		t.Errorf("Exists(#chuk) returned error: %v", err)
	}
	if err := s.Expect().Exists(s.Find("#no-such-element")); !fluent.IsExpectationFailed(err) {
		t.Errorf("Exists(#no-such-element) returned %v, want an expectation failure", err)
	}
	var nf *fluent.ElementNotFoundError
	if err := s.Click(s.Find("#no-such-element")); !errors.As(err, &nf) {
		t.Errorf("Click(#no-such-element) returned %v, want *ElementNotFoundError", err)
	}
}

func testSelect(t *testing.T, c Config) {
	s := newSession(t, c)
	sel := s.Find("select[name=s]")
	if err := s.Expect().Text("First Value", sel); err != nil {
		t.Errorf("Text() of the initial selection returned error: %v", err)
	}
	if err := s.Select("Second Value").From(sel); err != nil {
		t.Fatalf("Select(Second Value) returned error: %v", err)
	}
	if err := s.Expect().Value("second_value", sel); err != nil {
		t.Errorf("Value(second_value) returned error: %v", err)
	}
	if err := s.SelectIndex(0).From(sel); err != nil {
		t.Fatalf("SelectIndex(0) returned error: %v", err)
	}
	if err := s.Expect().Text("First Value", sel); err != nil {
		t.Errorf("Text(First Value) after SelectIndex(0) returned error: %v", err)
	}
	var nf *fluent.ElementNotFoundError
	if err := s.Select("Third Value").From(sel); !errors.As(err, &nf) {
		t.Errorf("Select(Third Value) returned %v, want *ElementNotFoundError", err)
	}
}

func testMultiSelect(t *testing.T, c Config) {
	s := newSession(t, c)
	sel := s.Find("#extras")
	if err := s.Select("GPS", "heat").From(sel); err != nil {
		t.Fatalf("Select(GPS, heat) returned error: %v", err)
	}
	for _, want := range []string{"Roof Rack", "GPS", "Heated Seats"} {
		if err := s.Expect().Text(want, sel); err != nil {
			t.Errorf("Text(%q) returned error: %v", want, err)
		}
	}
	err := s.Expect().Value("tow", sel)
	var efe *fluent.ExpectationFailedError
	if !errors.As(err, &efe) {
		t.Fatalf("Value(tow) returned %v, want *ExpectationFailedError", err)
	}
	if want := "Expected SelectElement [#extras] selected options to have at least one option with value of [tow]. Selected option values include [roof,gps,heat]"; efe.Message != want {
		t.Errorf("Value(tow) message = %q, want %q", efe.Message, want)
	}
}

func testEnter(t *testing.T, c Config) {
	s := newSession(t, c)
	q := s.Find("input[name=q]")
	for _, text := range []string{"golang", "fluent"} {
		if err := s.Enter(text).In(q); err != nil {
			t.Fatalf("Enter(%q) returned error: %v", text, err)
		}
		if err := s.Expect().Value(text, q); err != nil {
			t.Errorf("Value(%q) returned error: %v", text, err)
		}
	}
	var iae *fluent.InvalidArgumentError
	if err := s.Enter("x").In(s.Find("select[name=s]")); !errors.As(err, &iae) {
		t.Errorf("Enter().In(select) returned %v, want *InvalidArgumentError", err)
	}
}

func testCheckbox(t *testing.T, c Config) {
	s := newSession(t, c)
	checked := func() bool {
		e, err := s.Find("#chuk").Element()
		if err != nil {
			return false
		}
		sel, err := e.Native.IsSelected()
		return err == nil && sel
	}
	if err := s.Expect().False(checked); err != nil {
		t.Errorf("False(checked) before Click() returned error: %v", err)
	}
	if err := s.Click(s.Find("#chuk")); err != nil {
		t.Fatalf("Click(#chuk) returned error: %v", err)
	}
	if err := s.Expect().True(checked); err != nil {
		t.Errorf("True(checked) after Click() returned error: %v", err)
	}
}

func testSubmit(t *testing.T, c Config) {
	s := newSession(t, c)
	steps := []struct {
		desc string
		f    func() error
	}{
		{"enter", func() error { return s.Enter("golang").In(s.Find("input[name=q]")) }},
		{"select", func() error { return s.Select("second_value").From(s.Find("select[name=s]")) }},
		{"submit", func() error { return s.Click(s.Find("#submit")) }},
		{"results", func() error {
			return s.Wait(context.Background(), fluent.Check(func() error {
				return s.Expect().Text(`You searched for "golang". Select value is: second_value`, s.Find("#results"))
			}))
		}},
		{"url", func() error {
			return s.Expect().URLFunc(func(u *url.URL) bool {
				return u.Path == "/search" && u.Query().Get("q") == "golang"
			})
		}},
	}
	for _, step := range steps {
		if err := step.f(); err != nil {
			t.Fatalf("%s: returned error: %v", step.desc, err)
		}
	}
}

func testThrows(t *testing.T, c Config) {
	s := newSession(t, c)
	if err := s.Expect().Throws(func() error {
		return s.Expect().Text("nope", s.Find("h1"))
	}); err != nil {
		t.Errorf("Throws(failing expectation) returned error: %v", err)
	}
	if err := s.Expect().Throws(func() error {
		return s.Expect().Exists(s.Find("h1"))
	}); !fluent.IsExpectationFailed(err) {
		t.Errorf("Throws(passing expectation) returned %v, want an expectation failure", err)
	}
}

func testWait(t *testing.T, c Config) {
	s := newSession(t, c)
	delayed := strings.TrimSuffix(c.ServerURL, "/") + "/delayed"
	if err := s.Open(delayed); err != nil {
		t.Fatalf("Open(%q) returned error: %v", delayed, err)
	}
	err := s.Wait(context.Background(), fluent.Check(func() error {
		return s.Expect().Text("ready", s.Find("#status"))
	}))
	if err != nil {
		t.Errorf("Wait(status ready) returned error: %v", err)
	}

	err = s.WaitUntil(context.Background(), fluent.Check(func() error {
		return s.Expect().Text("never", s.Find("#status"))
	}), 300*time.Millisecond, 50*time.Millisecond)
	if !fluent.IsExpectationFailed(err) {
		t.Errorf("WaitUntil(never) returned %v, want an expectation failure", err)
	}
}

var homePage = `
<html>
<head>
	<title>Go Fluent Test Suite</title>
</head>
<body>
	<h1 class="header main">Go Fluent Test Suite</h1>
	<form action="/search">
		<input name="q" autofocus />
		<input name="submit" type="submit" id="submit" /> <br />
		<input id="chuk" type="checkbox" /> A checkbox.
		<select name="s">
			<option value="first_value">First Value</option>
			<option id="secondValue" value="second_value">Second Value</option>
		</select>
		<select id="extras" name="extras" multiple>
			<option value="roof" selected>Roof Rack</option>
			<option value="gps">GPS</option>
			<option value="heat">Heated Seats</option>
		</select>
	</form>
	<ul><li>one</li><li>two</li><li>three</li></ul>
	Link to the <a href="/other">other page</a>.
</body>
</html>
`

var otherPage = `
<html>
<head>
	<title>Go Fluent Test Suite - Other Page</title>
</head>
<body>
	The other page.
</body>
</html>
`

var searchPage = `
<html>
<head>
	<title>Go Fluent Test Suite - Search Page</title>
</head>
<body>
	<p id="results">You searched for "%s". Select value is: %s</p>
</body>
</html>
`

var delayedPage = `
<html>
<head>
	<title>Go Fluent Test Suite - Delayed Page</title>
</head>
<body>
	<p id="status">loading</p>
	<script>
		setTimeout(function() {
			document.getElementById("status").textContent = "ready";
		}, 300);
	</script>
</body>
</html>
`

// Handler serves the pages the common tests run against.
var Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	page, ok := map[string]string{
		"/":        homePage,
		"/other":   otherPage,
		"/search":  searchPage,
		"/delayed": delayedPage,
	}[path]
	if !ok {
		http.NotFound(w, r)
		return
	}

	if path == "/search" {
		r.ParseForm()
		page = fmt.Sprintf(page, r.Form.Get("q"), r.Form.Get("s"))
	}
	fmt.Fprint(w, page)
})

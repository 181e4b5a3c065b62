package htmldoc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/wanmail/fluent"
	"github.com/wanmail/fluent/internal/fluenttest"
	"github.com/wanmail/fluent/log"
)

const quotePage = `<!DOCTYPE html>
<html>
<head><title>Quote</title></head>
<body>
<h1 class="title main">Insurance   quote</h1>
<form action="/result">
  <select id="vehicle" name="vehicle">
    <option value="cars">Cars</option>
    <option value="motorcycles">  Motorcycles </option>
    <option value="boats">Boats</option>
  </select>
  <select id="extras" name="extras" multiple>
    <option value="roof" selected>Roof Rack</option>
    <option value="gps">GPS</option>
  </select>
  <input id="age" name="age" type="text" value="30">
  <textarea id="notes" name="notes">none</textarea>
  <input id="agree" name="agree" type="checkbox" value="yes">
  <input class="cover" name="cover" type="radio" value="basic" checked>
  <input class="cover" name="cover" type="radio" value="full">
  <button id="calculate" type="submit">Calculate</button>
</form>
<ul><li>one</li><li>two</li><li>three</li></ul>
<a id="self" href="/quote">again</a>
</body>
</html>`

var basePrice = map[string]float64{
	"cars":        120,
	"motorcycles": 185.70,
	"boats":       240,
}

func newQuoteServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/quote", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, quotePage)
	})
	mux.HandleFunc("/result", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		age, _ := strconv.Atoi(r.Form.Get("age"))
		total := basePrice[r.Form.Get("vehicle")] + 2*float64(age)
		fmt.Fprintf(w, `<p id="total">$%.2f</p><p id="extras">%s</p><p id="agree">%s</p>`,
			total, strings.Join(r.Form["extras"], ","), r.Form.Get("agree"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestQuoteScenario(t *testing.T) {
	srv := newQuoteServer(t)
	s := fluent.NewSession(New(srv.Client()), fluent.WithLogger(log.Discard))

	steps := []struct {
		desc string
		f    func() error
	}{
		{"open", func() error { return s.Open(srv.URL + "/quote") }},
		{"heading", func() error { return s.Expect().Text("Insurance quote", s.Find("h1")) }},
		{"heading class", func() error { return s.Expect().CSSClass(".main", s.Find("h1")) }},
		{"default vehicle", func() error { return s.Expect().Text("Cars", s.Find("#vehicle")) }},
		{"select vehicle", func() error { return s.Select("Motorcycles").From(s.Find("#vehicle")) }},
		{"vehicle text", func() error { return s.Expect().Text("Motorcycles", s.Find("#vehicle")) }},
		{"vehicle value", func() error { return s.Expect().Value("motorcycles", s.Find("#vehicle")) }},
		{"select extra", func() error { return s.Select("gps").From(s.Find("#extras")) }},
		{"extras text", func() error { return s.Expect().Text("GPS", s.Find("#extras")) }},
		{"extras value", func() error { return s.Expect().Value("roof", s.Find("#extras")) }},
		{"enter age", func() error { return s.Enter("6").In(s.Find("#age")) }},
		{"age", func() error { return s.Expect().Value("6", s.Find("#age")) }},
		{"agree", func() error { return s.Click(s.Find("#agree")) }},
		{"list", func() error { return s.Expect().Count(3, s.FindAll("li")) }},
		{"calculate", func() error { return s.Click(s.Find("#calculate")) }},
		{"total", func() error {
			return s.Wait(context.Background(), fluent.Check(func() error {
				return s.Expect().Text("$197.70", s.Find("#total"))
			}))
		}},
		{"extras posted", func() error { return s.Expect().Text("roof,gps", s.Find("#extras")) }},
		{"agree posted", func() error { return s.Expect().Text("yes", s.Find("#agree")) }},
		{"url", func() error {
			return s.Expect().URLFunc(func(u *url.URL) bool { return u.Path == "/result" })
		}},
	}
	for _, step := range steps {
		if err := step.f(); err != nil {
			t.Fatalf("%s: returned error: %v", step.desc, err)
		}
	}
}

func TestQuery(t *testing.T) {
	d, err := Parse(strings.NewReader(quotePage), "http://localhost/quote")
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	if got, err := d.CurrentURL(); err != nil || got != "http://localhost/quote" {
		t.Errorf("CurrentURL() = %q, %v, want %q, nil", got, err, "http://localhost/quote")
	}
	if _, err := d.QuerySingle("#missing"); !errors.Is(err, fluent.ErrNoSuchElement) {
		t.Errorf("QuerySingle(#missing) returned %v, want fluent.ErrNoSuchElement", err)
	}
	if _, err := d.QuerySingle("[[["); err == nil || errors.Is(err, fluent.ErrNoSuchElement) {
		t.Errorf("QuerySingle([[[) returned %v, want an invalid selector error", err)
	}
	es, err := d.QueryMultiple(".nothing")
	if err != nil || len(es) != 0 {
		t.Errorf("QueryMultiple(.nothing) = %d elements, %v, want 0, nil", len(es), err)
	}

	h1, err := d.QuerySingle("h1")
	if err != nil {
		t.Fatalf("QuerySingle(h1) returned error: %v", err)
	}
	tests := []struct {
		desc string
		f    func() (string, error)
		want string
	}{
		{"TagName", h1.TagName, "h1"},
		{"Text", h1.Text, "Insurance quote"},
		{"GetAttribute(class)", func() (string, error) { return h1.GetAttribute("class") }, "title main"},
		{"GetAttribute(id)", func() (string, error) { return h1.GetAttribute("id") }, ""},
	}
	for _, test := range tests {
		if got, err := test.f(); err != nil || got != test.want {
			t.Errorf("%s = %q, %v, want %q, nil", test.desc, got, err, test.want)
		}
	}
}

func TestControls(t *testing.T) {
	d, err := Parse(strings.NewReader(quotePage), "http://localhost/quote")
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	s := fluent.NewSession(d, fluent.WithLogger(log.Discard))

	if err := s.Enter("lots").In(s.Find("#notes")); err != nil {
		t.Fatalf("Enter().In(textarea) returned error: %v", err)
	}
	if err := s.Expect().Text("lots", s.Find("#notes")); err != nil {
		t.Errorf("Text(textarea) returned error: %v", err)
	}

	radios, err := d.QueryMultiple(".cover")
	if err != nil || len(radios) != 2 {
		t.Fatalf("QueryMultiple(.cover) = %d elements, %v, want 2, nil", len(radios), err)
	}
	if err := radios[1].Click(); err != nil {
		t.Fatalf("Click(radio) returned error: %v", err)
	}
	for i, want := range []bool{false, true} {
		if got, _ := radios[i].IsSelected(); got != want {
			t.Errorf("radio %d IsSelected() = %t, want %t", i, got, want)
		}
	}

	agree, _ := d.QuerySingle("#agree")
	for _, want := range []bool{true, false} {
		agree.Click()
		if got, _ := agree.IsSelected(); got != want {
			t.Errorf("checkbox IsSelected() after Click() = %t, want %t", got, want)
		}
	}

	h1, _ := d.QuerySingle("h1")
	if err := h1.SendKeys("x"); err == nil {
		t.Errorf("SendKeys() into <h1> returned nil error")
	}
}

func TestSingleSelectShowsLastSelected(t *testing.T) {
	const page = `<select id="size">
  <option value="s" selected>Small</option>
  <option value="m">Medium</option>
  <option value="l" selected>Large</option>
</select>`
	d, err := Parse(strings.NewReader(page), "http://localhost/")
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	s := fluent.NewSession(d, fluent.WithLogger(log.Discard))
	if err := s.Expect().Text("Large", s.Find("#size")); err != nil {
		t.Errorf("Text(Large) returned error: %v", err)
	}
	if err := s.Expect().Value("l", s.Find("#size")); err != nil {
		t.Errorf("Value(l) returned error: %v", err)
	}

	opts, err := d.QueryMultiple("option")
	if err != nil || len(opts) != 3 {
		t.Fatalf("QueryMultiple(option) = %d elements, %v, want 3, nil", len(opts), err)
	}
	for i, want := range []bool{false, false, true} {
		if got, _ := opts[i].IsSelected(); got != want {
			t.Errorf("option %d IsSelected() = %t, want %t", i, got, want)
		}
	}
}

func TestNavigate(t *testing.T) {
	srv := newQuoteServer(t)
	d, err := Open(srv.URL + "/quote")
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	old, _ := d.QuerySingle("h1")

	link, _ := d.QuerySingle("#self")
	if err := link.Click(); err != nil {
		t.Fatalf("Click(link) returned error: %v", err)
	}
	if _, err := old.Text(); !errors.Is(err, ErrStale) {
		t.Errorf("Text() on a replaced page returned %v, want ErrStale", err)
	}

	if err := d.Navigate("/nope"); err == nil {
		t.Errorf("Navigate(/nope) returned nil error")
	}
	if got, _ := d.CurrentURL(); got != srv.URL+"/quote" {
		t.Errorf("CurrentURL() after a failed Navigate() = %q, want %q", got, srv.URL+"/quote")
	}
}

func TestConcurrentQueries(t *testing.T) {
	d, err := Parse(strings.NewReader(quotePage), "http://localhost/quote")
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	s := fluent.NewSession(d, fluent.WithLogger(log.Discard))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errc := make(chan error, 4)
	for i := 0; i < cap(errc); i++ {
		go func() {
			errc <- s.Wait(ctx, fluent.Check(func() error {
				return s.Expect().Count(3, s.FindAll("li"))
			}))
		}()
	}
	for i := 0; i < cap(errc); i++ {
		if err := <-errc; err != nil {
			t.Errorf("Wait() returned error: %v", err)
		}
	}
}

func TestCommon(t *testing.T) {
	srv := httptest.NewServer(fluenttest.Handler)
	defer srv.Close()

	fluenttest.RunCommonTests(t, fluenttest.Config{
		NewDriver: func(*testing.T) fluent.Driver { return New(srv.Client()) },
		ServerURL: srv.URL + "/",
		Static:    true,
	})
}

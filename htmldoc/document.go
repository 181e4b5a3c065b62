// Package htmldoc is a browserless fluent.Driver over parsed HTML. Pages are
// fetched over HTTP and queried with goquery. No script runs, so only the
// state changes made through the handles themselves are visible: option
// selection, checkbox state, typed input and link navigation.
package htmldoc

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/wanmail/fluent"
)

// Document is a parsed HTML page. It is safe for concurrent use.
type Document struct {
	client *http.Client

	mu  sync.Mutex
	url *url.URL
	doc *goquery.Document
}

var _ fluent.Driver = (*Document)(nil)

// New returns an empty Document that loads pages with client, or with
// http.DefaultClient if client is nil.
func New(client *http.Client) *Document {
	if client == nil {
		client = http.DefaultClient
	}
	// Parsing an empty string cannot fail.
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(""))
	return &Document{
		client: client,
		url:    &url.URL{Scheme: "about", Opaque: "blank"},
		doc:    doc,
	}
}

// Open fetches rawURL into a new Document.
func Open(rawURL string) (*Document, error) {
	d := New(nil)
	if err := d.Navigate(rawURL); err != nil {
		return nil, err
	}
	return d, nil
}

// Parse reads a page from r. Relative links resolve against baseURL.
func Parse(r io.Reader, baseURL string) (*Document, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parsing base URL: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parsing HTML: %w", err)
	}
	d := New(nil)
	d.url, d.doc = u, doc
	return d, nil
}

// Navigate fetches rawURL and replaces the loaded page.
func (d *Document) Navigate(rawURL string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.navigate(rawURL)
}

func (d *Document) navigate(rawURL string) error {
	u, err := d.url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("htmldoc: %w", err)
	}
	resp, err := d.client.Get(u.String())
	if err != nil {
		return fmt.Errorf("htmldoc: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("htmldoc: GET %s: received status code %d", u, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("htmldoc: parsing %s: %w", u, err)
	}
	// Follow redirects in the reported URL.
	d.url, d.doc = resp.Request.URL, doc
	return nil
}

// CurrentURL returns the URL of the loaded page.
func (d *Document) CurrentURL() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url.String(), nil
}

// Quit is a no-op; there is no browser to release.
func (d *Document) Quit() error { return nil }

// find runs a CSS query. goquery matches nothing for an invalid selector,
// so the selector is compiled here to report it.
func (d *Document) find(selector string) (*goquery.Selection, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: invalid selector %q: %w", selector, err)
	}
	return d.doc.FindMatcher(m), nil
}

// QuerySingle returns the first element matching selector.
func (d *Document) QuerySingle(selector string) (fluent.NativeElement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel, err := d.find(selector)
	if err != nil {
		return nil, err
	}
	if sel.Length() == 0 {
		return nil, fmt.Errorf("htmldoc: no element matches %q: %w", selector, fluent.ErrNoSuchElement)
	}
	return &Element{d, sel.First()}, nil
}

// QueryMultiple returns every element matching selector.
func (d *Document) QueryMultiple(selector string) ([]fluent.NativeElement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel, err := d.find(selector)
	if err != nil {
		return nil, err
	}
	return d.elements(sel), nil
}

func (d *Document) elements(sel *goquery.Selection) []fluent.NativeElement {
	elems := make([]fluent.NativeElement, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elems = append(elems, &Element{d, s})
	})
	return elems
}

// HTML renders the current page.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Html()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

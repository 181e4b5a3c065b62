package fluent

import (
	"fmt"
	"strings"
)

// fakeDoc is an in-memory Document keyed by exact selector.
type fakeDoc struct {
	elems   map[string][]*fakeElem
	url     string
	queries int
	// err, if set, is returned by every query.
	err      error
	navigate []string
}

func (d *fakeDoc) QuerySingle(selector string) (NativeElement, error) {
	d.queries++
	if d.err != nil {
		return nil, d.err
	}
	es := d.elems[selector]
	if len(es) == 0 {
		return nil, fmt.Errorf("fake: %q: %w", selector, ErrNoSuchElement)
	}
	return es[0], nil
}

func (d *fakeDoc) QueryMultiple(selector string) ([]NativeElement, error) {
	d.queries++
	if d.err != nil {
		return nil, d.err
	}
	var ns []NativeElement
	for _, e := range d.elems[selector] {
		ns = append(ns, e)
	}
	return ns, nil
}

func (d *fakeDoc) CurrentURL() (string, error) {
	if d.err != nil {
		return "", d.err
	}
	return d.url, nil
}

// navDoc adds navigation to fakeDoc.
type navDoc struct{ *fakeDoc }

func (d navDoc) Navigate(url string) error {
	d.navigate = append(d.navigate, url)
	d.url = url
	return nil
}

// fakeElem is an in-memory NativeElement.
type fakeElem struct {
	tag      string
	text     string
	value    string
	attrs    map[string]string
	selected bool
	options  []*fakeElem
	// parent is the select an option belongs to.
	parent *fakeElem
	clicks int
}

func (e *fakeElem) TagName() (string, error) { return strings.ToUpper(e.tag), nil }
func (e *fakeElem) Text() (string, error)    { return e.text, nil }
func (e *fakeElem) Value() (string, error)   { return e.value, nil }

func (e *fakeElem) GetAttribute(name string) (string, error) { return e.attrs[name], nil }

func (e *fakeElem) Attributes() (map[string]string, error) {
	m := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		m[k] = v
	}
	return m, nil
}

func (e *fakeElem) IsSelected() (bool, error) { return e.selected, nil }

func (e *fakeElem) Options() ([]NativeElement, error) {
	var ns []NativeElement
	for _, o := range e.options {
		ns = append(ns, o)
	}
	return ns, nil
}

func (e *fakeElem) Click() error {
	e.clicks++
	if e.tag != "option" || e.parent == nil {
		return nil
	}
	if _, multi := e.parent.attrs["multiple"]; multi {
		e.selected = !e.selected
		return nil
	}
	for _, o := range e.parent.options {
		o.selected = o == e
	}
	return nil
}

func (e *fakeElem) Clear() error {
	e.value = ""
	return nil
}

func (e *fakeElem) SendKeys(keys string) error {
	e.value += keys
	return nil
}

func div(text string, attrs map[string]string) *fakeElem {
	return &fakeElem{tag: "div", text: text, attrs: attrs}
}

func input(value string) *fakeElem {
	return &fakeElem{tag: "input", value: value, attrs: map[string]string{"type": "text"}}
}

// selectOf builds a select whose options are given as text=value pairs;
// selected options carry a leading '*'.
func selectOf(multiple bool, opts ...string) *fakeElem {
	s := &fakeElem{tag: "select", attrs: map[string]string{}}
	if multiple {
		s.attrs["multiple"] = ""
	}
	for _, opt := range opts {
		o := &fakeElem{tag: "option", attrs: map[string]string{}, parent: s}
		if strings.HasPrefix(opt, "*") {
			o.selected = true
			opt = opt[1:]
		}
		text, value := opt, opt
		if i := strings.Index(opt, "="); i >= 0 {
			text, value = opt[:i], opt[i+1:]
		}
		o.text = " " + text + " "
		o.attrs["value"] = value
		s.options = append(s.options, o)
	}
	return s
}

package htmldoc

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/wanmail/fluent"
)

// ErrStale is returned by handles to a page that has since been replaced.
var ErrStale = errors.New("htmldoc: stale element reference")

// Element is a handle to a single node of a Document.
type Element struct {
	d   *Document
	sel *goquery.Selection
}

var _ fluent.NativeElement = (*Element)(nil)

// lock acquires the document lock and checks that the handle still belongs
// to the loaded page.
func (e *Element) lock() error {
	e.d.mu.Lock()
	if !e.d.doc.Contains(e.sel.Nodes[0]) {
		e.d.mu.Unlock()
		return ErrStale
	}
	return nil
}

func (e *Element) tag() string { return goquery.NodeName(e.sel) }

func (e *Element) typ() string { return strings.ToLower(e.sel.AttrOr("type", "")) }

// TagName returns the lower-case tag name.
func (e *Element) TagName() (string, error) {
	if err := e.lock(); err != nil {
		return "", err
	}
	defer e.d.mu.Unlock()
	return e.tag(), nil
}

// Text returns the text content with runs of whitespace collapsed, as a
// browser renders it.
func (e *Element) Text() (string, error) {
	if err := e.lock(); err != nil {
		return "", err
	}
	defer e.d.mu.Unlock()
	return collapse(e.sel.Text()), nil
}

// Value returns the value of a form control: the value attribute of an
// input or option, the content of a textarea, or the value of the first
// selected option of a select.
func (e *Element) Value() (string, error) {
	if err := e.lock(); err != nil {
		return "", err
	}
	defer e.d.mu.Unlock()
	return e.value(), nil
}

func (e *Element) value() string {
	switch e.tag() {
	case "textarea":
		return e.sel.Text()
	case "option":
		if v, ok := e.sel.Attr("value"); ok {
			return v
		}
		return strings.TrimSpace(collapse(e.sel.Text()))
	case "select":
		o := selectedOptions(e.sel).First()
		if o.Length() == 0 {
			return ""
		}
		return (&Element{e.d, o}).value()
	}
	return e.sel.AttrOr("value", "")
}

// GetAttribute returns the named attribute, or "" if it is absent.
func (e *Element) GetAttribute(name string) (string, error) {
	if err := e.lock(); err != nil {
		return "", err
	}
	defer e.d.mu.Unlock()
	return e.sel.AttrOr(name, ""), nil
}

// Attributes returns every attribute of the element.
func (e *Element) Attributes() (map[string]string, error) {
	if err := e.lock(); err != nil {
		return nil, err
	}
	defer e.d.mu.Unlock()
	attrs := make(map[string]string, len(e.sel.Nodes[0].Attr))
	for _, a := range e.sel.Nodes[0].Attr {
		attrs[a.Key] = a.Val
	}
	return attrs, nil
}

// IsSelected reports whether an option is selected or a checkbox or radio
// button is checked.
func (e *Element) IsSelected() (bool, error) {
	if err := e.lock(); err != nil {
		return false, err
	}
	defer e.d.mu.Unlock()
	return e.selected(), nil
}

func (e *Element) selected() bool {
	if e.tag() == "option" {
		return e.sel.IsSelection(selectedOptions(e.sel.Closest("select")))
	}
	_, ok := e.sel.Attr("checked")
	return ok
}

func isMultiple(sel *goquery.Selection) bool {
	v, ok := sel.Attr("multiple")
	return ok && strings.ToLower(v) != "false"
}

// selectedOptions returns the selected options of sel. A single select shows
// its last option marked selected, or its first option if none is.
func selectedOptions(sel *goquery.Selection) *goquery.Selection {
	opts := sel.Find("option[selected]")
	if isMultiple(sel) {
		return opts
	}
	if opts.Length() == 0 {
		return sel.Find("option").First()
	}
	return opts.Last()
}

// Options returns the option descendants of a select.
func (e *Element) Options() ([]fluent.NativeElement, error) {
	if err := e.lock(); err != nil {
		return nil, err
	}
	defer e.d.mu.Unlock()
	return e.d.elements(e.sel.Find("option")), nil
}

// Click applies the default action of the element. Options and checkboxes
// change state; links and submit buttons load a new page. Anything else is
// a no-op.
func (e *Element) Click() error {
	if err := e.lock(); err != nil {
		return err
	}
	defer e.d.mu.Unlock()

	switch tag, typ := e.tag(), e.typ(); {
	case tag == "option":
		sel := e.sel.Closest("select")
		if isMultiple(sel) {
			toggle(e.sel, "selected")
			return nil
		}
		sel.Find("option").RemoveAttr("selected")
		e.sel.SetAttr("selected", "selected")
	case tag == "input" && typ == "checkbox":
		toggle(e.sel, "checked")
	case tag == "input" && typ == "radio":
		if name, ok := e.sel.Attr("name"); ok {
			e.d.doc.Find(fmt.Sprintf(`input[type="radio"][name=%q]`, name)).RemoveAttr("checked")
		}
		e.sel.SetAttr("checked", "checked")
	case tag == "a":
		if href, ok := e.sel.Attr("href"); ok {
			return e.d.navigate(href)
		}
	case tag == "button" && typ != "button" && typ != "reset",
		tag == "input" && typ == "submit":
		return e.submit()
	}
	return nil
}

func toggle(sel *goquery.Selection, attr string) {
	if _, ok := sel.Attr(attr); ok {
		sel.RemoveAttr(attr)
		return
	}
	sel.SetAttr(attr, attr)
}

// submit loads the action of the enclosing form with its controls encoded
// in the query string, as a GET form submission does.
func (e *Element) submit() error {
	form := e.sel.Closest("form")
	if form.Length() == 0 {
		return nil
	}
	q := url.Values{}
	form.Find("input[name], select[name], textarea[name]").Each(func(_ int, s *goquery.Selection) {
		c := &Element{e.d, s}
		name := s.AttrOr("name", "")
		switch c.tag() {
		case "select":
			selectedOptions(s).Each(func(_ int, o *goquery.Selection) {
				q.Add(name, (&Element{e.d, o}).value())
			})
			return
		case "input":
			switch c.typ() {
			case "checkbox", "radio":
				if !c.selected() {
					return
				}
			case "submit", "button", "reset", "image", "file":
				return
			}
		}
		q.Add(name, c.value())
	})
	action := form.AttrOr("action", "")
	if i := strings.IndexByte(action, '?'); i >= 0 {
		action = action[:i]
	}
	return e.d.navigate(action + "?" + q.Encode())
}

// Clear empties a text control.
func (e *Element) Clear() error {
	if err := e.lock(); err != nil {
		return err
	}
	defer e.d.mu.Unlock()
	return e.setValue("")
}

// SendKeys appends keys to the value of a text control.
func (e *Element) SendKeys(keys string) error {
	if err := e.lock(); err != nil {
		return err
	}
	defer e.d.mu.Unlock()
	return e.setValue(e.value() + keys)
}

func (e *Element) setValue(v string) error {
	switch e.tag() {
	case "textarea":
		e.sel.SetText(v)
	case "input":
		e.sel.SetAttr("value", v)
	default:
		return fmt.Errorf("htmldoc: cannot type into <%s>", e.tag())
	}
	return nil
}

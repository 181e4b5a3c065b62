package fluent

import (
	"fmt"
	"strings"
)

// Kind classifies an Element for the expectation engine.
type Kind int

// The element kinds.
const (
	// KindGeneric is any element whose text is its rendered text.
	KindGeneric Kind = iota
	// KindText is a text-bearing form control whose text is its value.
	KindText
	// KindSelect is a single-choice select element.
	KindSelect
	// KindMultiSelect is a select element with the multiple attribute.
	KindMultiSelect
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindText:
		return "text"
	case KindSelect:
		return "select"
	case KindMultiSelect:
		return "multi-select"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Element is a snapshot of a queried node, taken when an accessor is
// resolved. It is never cached between resolutions.
type Element struct {
	Kind    Kind
	TagName string
	// Text is the rendered text, the value of a text control, or the text of
	// the selected option of a single select.
	Text string
	// Value is the value attribute, or the value of the selected option of a
	// single select.
	Value      string
	Attributes map[string]string

	// SelectedTexts and SelectedValues are index-aligned and populated only
	// for KindMultiSelect.
	SelectedTexts  []string
	SelectedValues []string

	// Native is the adapter handle the snapshot was taken from.
	Native NativeElement `json:"-"`
}

// Attr returns the named attribute, or "" if the element does not carry it.
func (e *Element) Attr(name string) string {
	return e.Attributes[name]
}

// IsSelect reports whether the element is a select of either kind.
func (e *Element) IsSelect() bool {
	return e.Kind == KindSelect || e.Kind == KindMultiSelect
}

// Adapter turns an adapter handle into an Element.
type Adapter interface {
	Adapt(NativeElement) (*Element, error)
}

// AdapterFunc is a function that implements Adapter.
type AdapterFunc func(NativeElement) (*Element, error)

// Adapt calls f(n).
func (f AdapterFunc) Adapt(n NativeElement) (*Element, error) { return f(n) }

// DefaultAdapter classifies elements by tag name, type and multiple
// attributes and reads their state through the NativeElement interface.
var DefaultAdapter Adapter = AdapterFunc(adapt)

var textInputTypes = map[string]bool{
	"":         true,
	"text":     true,
	"password": true,
	"email":    true,
	"number":   true,
	"search":   true,
	"tel":      true,
	"url":      true,
}

func adapt(n NativeElement) (*Element, error) {
	tag, err := n.TagName()
	if err != nil {
		return nil, err
	}
	attrs, err := n.Attributes()
	if err != nil {
		return nil, err
	}
	if attrs == nil {
		attrs = map[string]string{}
	}
	e := &Element{
		TagName:    strings.ToLower(tag),
		Attributes: attrs,
		Native:     n,
	}

	switch {
	case e.TagName == "select":
		return adaptSelect(n, e)
	case e.TagName == "textarea",
		e.TagName == "input" && textInputTypes[strings.ToLower(e.Attr("type"))]:
		e.Kind = KindText
		if e.Value, err = n.Value(); err != nil {
			return nil, err
		}
		e.Text = e.Value
	default:
		e.Kind = KindGeneric
		if e.Text, err = n.Text(); err != nil {
			return nil, err
		}
		e.Value = e.Attr("value")
	}
	return e, nil
}

// isMultiple applies the HTML rule that any value of the multiple attribute
// other than "false" enables multi-selection.
func isMultiple(attrs map[string]string) bool {
	v, ok := attrs["multiple"]
	return ok && strings.ToLower(v) != "false"
}

func adaptSelect(n NativeElement, e *Element) (*Element, error) {
	opts, err := n.Options()
	if err != nil {
		return nil, err
	}
	var texts, values []string
	for _, o := range opts {
		sel, err := o.IsSelected()
		if err != nil {
			return nil, err
		}
		if !sel {
			continue
		}
		text, value, err := optionTextValue(o)
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
		values = append(values, value)
	}

	if isMultiple(e.Attributes) {
		e.Kind = KindMultiSelect
		e.SelectedTexts = texts
		e.SelectedValues = values
		if len(texts) > 0 {
			e.Text, e.Value = texts[0], values[0]
		}
		return e, nil
	}

	e.Kind = KindSelect
	if len(texts) > 0 {
		e.Text, e.Value = texts[0], values[0]
	}
	return e, nil
}

// optionTextValue returns the trimmed text of an option and its value,
// falling back to the text when the option has no value attribute.
func optionTextValue(o NativeElement) (string, string, error) {
	text, err := o.Text()
	if err != nil {
		return "", "", err
	}
	text = strings.TrimSpace(text)
	attrs, err := o.Attributes()
	if err != nil {
		return "", "", err
	}
	value, ok := attrs["value"]
	if !ok {
		value = text
	}
	return text, value, nil
}

package fluent

import (
	"net/url"
	"reflect"
	"runtime"
	"strings"

	"golang.org/x/text/cases"
)

// EqualFold reports whether a and b are equal under Unicode case folding,
// independent of any locale.
func EqualFold(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

// property is a string-valued aspect of an Element that the expectation
// engine compares, such as its text or its value.
type property struct {
	name string
	// plural names the property of several options in failure messages.
	plural string
	// single returns the property of a plain element or of a single select.
	single func(*Element) string
	// selected returns the property of every selected option of a
	// multi-select.
	selected func(*Element) []string
}

var (
	textProperty = property{
		name:     "text",
		plural:   "option text values",
		single:   func(e *Element) string { return e.Text },
		selected: func(e *Element) []string { return e.SelectedTexts },
	}
	valueProperty = property{
		name:     "value",
		plural:   "option values",
		single:   func(e *Element) string { return e.Value },
		selected: func(e *Element) []string { return e.SelectedValues },
	}
)

// comparison is one way of matching a property.
type comparison struct {
	// expected is what the failure message reports as expected.
	expected string
	// predicate is true if the comparison is a caller-supplied function.
	predicate bool
	match     func(string) bool
}

func exactly(want string) comparison {
	return comparison{
		expected: want,
		match:    func(got string) bool { return EqualFold(got, want) },
	}
}

func satisfying(fn func(string) bool) comparison {
	return comparison{expected: funcName(fn), predicate: true, match: fn}
}

func (c comparison) verb() string {
	if c.predicate {
		return "to match expression"
	}
	return "to be"
}

func (c comparison) anyVerb() string {
	if c.predicate {
		return "matching expression"
	}
	return "of"
}

// check compares property p of e. A multi-select passes if any selected
// option matches.
func (p property) check(context string, e *Element, c comparison) error {
	switch e.Kind {
	case KindMultiSelect:
		selected := p.selected(e)
		for _, v := range selected {
			if c.match(v) {
				return nil
			}
		}
		all := strings.Join(selected, ",")
		return expectationFailed(context, c.expected, all,
			"Expected SelectElement [%s] selected options to have at least one option with %s %s [%s]. Selected %s include [%s]",
			context, p.name, c.anyVerb(), c.expected, p.plural, all)
	case KindSelect:
		actual := p.single(e)
		if c.match(actual) {
			return nil
		}
		return expectationFailed(context, c.expected, actual,
			"Expected SelectElement [%s] selected option %s %s [%s] but it was actually [%s].",
			context, p.name, c.verb(), c.expected, actual)
	}

	actual := p.single(e)
	if c.match(actual) {
		return nil
	}
	label := "DOM Element"
	switch {
	case e.Kind == KindText:
		label = "TextElement"
	case p.name == "value":
		label = "element"
	}
	return expectationFailed(context, c.expected, actual,
		"Expected %s [%s] %s %s [%s] but it was actually [%s].",
		label, context, p.name, c.verb(), c.expected, actual)
}

// hasClass reports whether the whitespace-separated class attribute
// contains className verbatim.
func hasClass(classAttr, className string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == className {
			return true
		}
	}
	return false
}

// normalizeURL gives an absolute URL an explicit root path so that
// "http://host" and "http://host/" compare equal.
func normalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if u.Host != "" && u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// funcName names a function value for failure messages.
func funcName(fn interface{}) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "<nil>"
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return "<func>"
}

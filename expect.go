package fluent

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Expect evaluates assertions for a Session. Every assertion runs inside the
// session's Act boundary and reports a failed assertion as an
// *ExpectationFailedError.
type Expect struct {
	s *Session
}

// Expect returns the assertions of s.
func (s *Session) Expect() *Expect {
	return &Expect{s: s}
}

func (x *Expect) run(name string, fn func() error) error {
	err := x.s.Act(fn)
	x.s.metrics.observeExpectation(name, err)
	if err != nil {
		x.s.log.Tracef("expect %s: %v", name, err)
	}
	return err
}

// Text asserts that the element's text equals expected, ignoring case. For a
// select the selected option's text is compared; a multi-select passes if
// any selected option matches.
func (x *Expect) Text(expected string, acc ElementAccessor) error {
	return x.run("text", func() error {
		e, err := resolve(acc)
		if err != nil {
			return err
		}
		return textProperty.check(acc.String(), e, exactly(expected))
	})
}

// TextFunc is like Text, with match deciding whether a text is acceptable.
func (x *Expect) TextFunc(match func(string) bool, acc ElementAccessor) error {
	return x.run("text", func() error {
		e, err := resolve(acc)
		if err != nil {
			return err
		}
		return textProperty.check(acc.String(), e, satisfying(match))
	})
}

// Value asserts that the element's value equals expected, ignoring case,
// with the same select handling as Text.
func (x *Expect) Value(expected string, acc ElementAccessor) error {
	return x.run("value", func() error {
		e, err := resolve(acc)
		if err != nil {
			return err
		}
		return valueProperty.check(acc.String(), e, exactly(expected))
	})
}

// ValueFunc is like Value, with match deciding whether a value is acceptable.
func (x *Expect) ValueFunc(match func(string) bool, acc ElementAccessor) error {
	return x.run("value", func() error {
		e, err := resolve(acc)
		if err != nil {
			return err
		}
		return valueProperty.check(acc.String(), e, satisfying(match))
	})
}

// Count asserts that acc resolves to exactly n elements.
func (x *Expect) Count(n int, acc ElementsAccessor) error {
	return x.run("count", func() error {
		if n < 0 {
			return &InvalidArgumentError{Argument: "count", Reason: fmt.Sprintf("must not be negative, got %d", n)}
		}
		es, err := acc.Elements()
		if err != nil {
			return err
		}
		if len(es) != n {
			return expectationFailed(acc.String(), fmt.Sprint(n), fmt.Sprint(len(es)),
				"Expected count of elements matching selector [%s] to be [%d] but instead it was [%d]", acc, n, len(es))
		}
		return nil
	})
}

// CSSClass asserts that the element's class attribute contains className. A
// leading "." on className is ignored.
func (x *Expect) CSSClass(className string, acc ElementAccessor) error {
	return x.run("css_class", func() error {
		className := strings.TrimPrefix(strings.TrimSpace(className), ".")
		if className == "" || strings.ContainsAny(className, " \t\n") {
			return &InvalidArgumentError{Argument: "className", Reason: fmt.Sprintf("%q is not a single class name", className)}
		}
		e, err := resolve(acc)
		if err != nil {
			return err
		}
		attr := strings.TrimSpace(e.Attr("class"))
		if !hasClass(attr, className) {
			return expectationFailed(acc.String(), className, attr,
				"Expected element [%s] to include CSS class [%s] but current class attribute is [%s].", acc, className, attr)
		}
		return nil
	})
}

// Exists asserts that acc resolves to an element.
func (x *Expect) Exists(acc ElementAccessor) error {
	return x.run("exists", func() error {
		_, err := resolve(acc)
		var nf *ElementNotFoundError
		if errors.As(err, &nf) {
			return expectationFailed(acc.String(), "element", "",
				"Expected element matching selector [%s] to exist.", acc)
		}
		return err
	})
}

// URL asserts that the document's URL equals expected, ignoring case. A
// missing path is the same as "/".
func (x *Expect) URL(expected string) error {
	return x.run("url", func() error {
		want, err := normalizeURL(expected)
		if err != nil {
			return &InvalidArgumentError{Argument: "url", Reason: err.Error()}
		}
		raw, err := x.s.doc.CurrentURL()
		if err != nil {
			return err
		}
		got, err := normalizeURL(raw)
		if err != nil {
			return err
		}
		if !EqualFold(want, got) {
			return expectationFailed("url", want, got, "Expected URL to match [%s] but it was actually [%s].", want, got)
		}
		return nil
	})
}

// URLFunc asserts that match accepts the document's URL.
func (x *Expect) URLFunc(match func(*url.URL) bool) error {
	return x.run("url", func() error {
		raw, err := x.s.doc.CurrentURL()
		if err != nil {
			return err
		}
		u, err := url.Parse(raw)
		if err != nil {
			return err
		}
		if !match(u) {
			name := funcName(match)
			return expectationFailed(name, "true", raw, "Expected expression [%s] to return true.", name)
		}
		return nil
	})
}

// True asserts that fn returns true.
func (x *Expect) True(fn func() bool) error {
	return x.run("true", func() error {
		if !fn() {
			name := funcName(fn)
			return expectationFailed(name, "true", "false", "Expected expression [%s] to return true.", name)
		}
		return nil
	})
}

// False asserts that fn returns false.
func (x *Expect) False(fn func() bool) error {
	return x.run("false", func() error {
		if fn() {
			name := funcName(fn)
			return expectationFailed(name, "false", "true", "Expected expression [%s] to return false.", name)
		}
		return nil
	})
}

// Throws asserts that action fails with an expectation failure. Any other
// outcome, including a different error, fails the assertion.
func (x *Expect) Throws(action func() error) error {
	return x.run("throws", func() error {
		err := action()
		if IsExpectationFailed(err) {
			return nil
		}
		name := funcName(action)
		if err == nil {
			return expectationFailed(name, "expectation failure", "",
				"Expected expression [%s] to throw an exception.", name)
		}
		return expectationFailed(name, "expectation failure", err.Error(),
			"Expected expression [%s] to throw an exception but it returned [%v].", name, err)
	})
}

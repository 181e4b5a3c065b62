package fluent

import (
	"fmt"
	"strings"
)

// SelectCommand is the pending form of Select and SelectIndex.
type SelectCommand struct {
	s       *Session
	options []string
	indices []int
}

// Select starts a command that selects the options whose visible text, or
// failing that whose value, equals one of options. Only one option may be
// given for a single select. It is completed by From.
func (s *Session) Select(options ...string) *SelectCommand {
	return &SelectCommand{s: s, options: options}
}

// SelectIndex starts a command that selects options by their position,
// counting from zero. It is completed by From.
func (s *Session) SelectIndex(indices ...int) *SelectCommand {
	return &SelectCommand{s: s, indices: indices}
}

// From applies the selection to the select element acc resolves to.
// Options that are already selected are left alone.
func (c *SelectCommand) From(acc ElementAccessor) error {
	return c.s.command("select", func() error {
		e, err := native(acc)
		if err != nil {
			return err
		}
		if !e.IsSelect() {
			return &InvalidArgumentError{
				Argument: acc.String(),
				Reason:   fmt.Sprintf(`element should have been "select" but was %q`, e.TagName),
			}
		}
		if n := len(c.options) + len(c.indices); n == 0 {
			return &InvalidArgumentError{Argument: "options", Reason: "nothing to select"}
		} else if n > 1 && e.Kind != KindMultiSelect {
			return &InvalidArgumentError{Argument: "options", Reason: fmt.Sprintf("cannot select %d options of a single select", n)}
		}

		opts, err := e.Native.Options()
		if err != nil {
			return err
		}
		for _, i := range c.indices {
			if i < 0 || i >= len(opts) {
				return &ElementNotFoundError{Selector: acc.String(), Detail: fmt.Sprintf("cannot locate option with index: %d", i)}
			}
			if err := setSelected(opts[i]); err != nil {
				return err
			}
		}
		for _, want := range c.options {
			o, err := findOption(opts, want)
			if err != nil {
				return err
			}
			if o == nil {
				return &ElementNotFoundError{Selector: acc.String(), Detail: fmt.Sprintf("cannot locate option with text or value: %s", want)}
			}
			if err := setSelected(o); err != nil {
				return err
			}
		}
		return nil
	})
}

// findOption returns the first option whose trimmed text equals want, or
// else the first whose value does.
func findOption(opts []NativeElement, want string) (NativeElement, error) {
	trimmed := strings.TrimSpace(want)
	var byValue NativeElement
	for _, o := range opts {
		text, value, err := optionTextValue(o)
		if err != nil {
			return nil, err
		}
		if text == trimmed {
			return o, nil
		}
		if byValue == nil && value == want {
			byValue = o
		}
	}
	return byValue, nil
}

// setSelected clicks option unless it is selected already. Clicking a
// selected option of a multi-select deselects it.
func setSelected(option NativeElement) error {
	sel, err := option.IsSelected()
	if err != nil {
		return err
	}
	if sel {
		return nil
	}
	return option.Click()
}

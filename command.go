package fluent

import (
	"fmt"
	"net/url"
)

func (s *Session) command(name string, fn func() error) error {
	err := s.Act(fn)
	s.metrics.observeCommand(name, err)
	if err != nil {
		s.log.Tracef("%s: %v", name, err)
	}
	return err
}

// native resolves acc and returns the adapter handle behind it.
func native(acc ElementAccessor) (*Element, error) {
	e, err := resolve(acc)
	if err != nil {
		return nil, err
	}
	if e.Native == nil {
		return nil, &InvalidArgumentError{Argument: acc.String(), Reason: "element has no native handle to act on"}
	}
	return e, nil
}

// Open loads rawURL. The document must implement Navigator.
func (s *Session) Open(rawURL string) error {
	return s.command("open", func() error {
		nav, ok := s.doc.(Navigator)
		if !ok {
			return &InvalidArgumentError{Argument: "document", Reason: fmt.Sprintf("%T cannot navigate", s.doc)}
		}
		u, err := url.Parse(rawURL)
		if err != nil {
			return &InvalidArgumentError{Argument: "url", Reason: err.Error()}
		}
		if !u.IsAbs() {
			return &InvalidArgumentError{Argument: "url", Reason: fmt.Sprintf("%q is not absolute", rawURL)}
		}
		return nav.Navigate(u.String())
	})
}

// Click clicks the element acc resolves to.
func (s *Session) Click(acc ElementAccessor) error {
	return s.command("click", func() error {
		e, err := native(acc)
		if err != nil {
			return err
		}
		return e.Native.Click()
	})
}

// EnterCommand is the pending form of Enter.
type EnterCommand struct {
	s    *Session
	text string
}

// Enter starts a command that replaces the content of a text control with
// text. It is completed by In.
func (s *Session) Enter(text string) *EnterCommand {
	return &EnterCommand{s: s, text: text}
}

// In clears the element acc resolves to and types the text into it.
func (c *EnterCommand) In(acc ElementAccessor) error {
	return c.s.command("enter", func() error {
		e, err := native(acc)
		if err != nil {
			return err
		}
		if e.IsSelect() {
			return &InvalidArgumentError{Argument: acc.String(), Reason: "cannot enter text into a select element; use Select"}
		}
		if err := e.Native.Clear(); err != nil {
			return err
		}
		return e.Native.SendKeys(c.text)
	})
}

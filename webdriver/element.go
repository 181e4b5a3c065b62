package webdriver

import (
	"encoding/json"
	"fmt"

	"github.com/wanmail/fluent"
)

// Element is a handle to an element of a Client's page.
type Element struct {
	parent *Client
	id     string
}

var _ fluent.NativeElement = (*Element)(nil)

// ID returns the server-side element reference.
func (elem *Element) ID() string { return elem.id }

func (elem *Element) path(suffix string) string {
	return fmt.Sprintf("/session/%%s/element/%s/%s", elem.id, suffix)
}

// Click clicks the element.
func (elem *Element) Click() error {
	return elem.parent.voidCommand(elem.path("click"), nil)
}

// SendKeys types keys into the element.
func (elem *Element) SendKeys(keys string) error {
	return elem.parent.voidCommand(elem.path("value"), processKeyString(keys))
}

// processKeyString encodes keys for both dialects: W3C servers read "text",
// legacy ones the "value" array of characters.
func processKeyString(keys string) interface{} {
	chars := make([]string, 0, len(keys))
	for _, c := range keys {
		chars = append(chars, string(c))
	}
	return map[string]interface{}{"text": keys, "value": chars}
}

// Clear empties a text control.
func (elem *Element) Clear() error {
	return elem.parent.voidCommand(elem.path("clear"), nil)
}

// TagName returns the element's tag name.
func (elem *Element) TagName() (string, error) {
	return elem.parent.stringCommand(elem.path("name"))
}

// Text returns the rendered text of the element.
func (elem *Element) Text() (string, error) {
	return elem.parent.stringCommand(elem.path("text"))
}

// Value returns the value property, which tracks user input unlike the value
// attribute.
func (elem *Element) Value() (string, error) {
	return elem.parent.stringCommand(elem.path("property/value"))
}

// GetAttribute returns the named attribute, or "" when it is absent.
func (elem *Element) GetAttribute(name string) (string, error) {
	return elem.parent.stringCommand(elem.path("attribute/" + name))
}

// IsSelected reports whether an option or checkbox is selected.
func (elem *Element) IsSelected() (bool, error) {
	return elem.parent.boolCommand(elem.path("selected"))
}

const attributesScript = `var a = arguments[0].attributes, m = {};
for (var i = 0; i < a.length; i++) { m[a[i].name] = a[i].value; }
return m;`

// Attributes returns every attribute of the element.
func (elem *Element) Attributes() (map[string]string, error) {
	v, err := elem.parent.ExecuteScript(attributesScript, []interface{}{elem})
	if err != nil {
		return nil, err
	}
	raw, ok := v.(map[string]interface{})
	if !ok && v != nil {
		return nil, fmt.Errorf("attributes script returned %T", v)
	}
	attrs := make(map[string]string, len(raw))
	for k, v := range raw {
		s, _ := v.(string)
		attrs[k] = s
	}
	return attrs, nil
}

// Options returns the option children of a select element.
func (elem *Element) Options() ([]fluent.NativeElement, error) {
	return elem.parent.find(elem.path("element"), "option", false)
}

// MarshalJSON encodes the element as a script argument.
func (elem *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"ELEMENT":                             elem.id,
		"element-6066-11e4-a52e-4f735466cecf": elem.id,
	})
}

package chromedoc

import (
	"context"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/wanmail/fluent"
)

// Element is a handle to a DOM node of a Document.
type Element struct {
	d    *Document
	node *cdp.Node
}

var _ fluent.NativeElement = (*Element)(nil)

func (e *Element) sel() []cdp.NodeID { return []cdp.NodeID{e.node.NodeID} }

// TagName returns the lower-case tag name.
func (e *Element) TagName() (string, error) {
	return strings.ToLower(e.node.NodeName), nil
}

// Text returns the rendered text.
func (e *Element) Text() (string, error) {
	var s string
	if err := e.d.run(chromedp.Text(e.sel(), &s, chromedp.ByNodeID)); err != nil {
		return "", err
	}
	return s, nil
}

// Value returns the value property.
func (e *Element) Value() (string, error) {
	var s string
	if err := e.d.run(chromedp.Value(e.sel(), &s, chromedp.ByNodeID)); err != nil {
		return "", err
	}
	return s, nil
}

// GetAttribute returns the named attribute, or "" if it is absent.
func (e *Element) GetAttribute(name string) (string, error) {
	var (
		v  string
		ok bool
	)
	if err := e.d.run(chromedp.AttributeValue(e.sel(), name, &v, &ok, chromedp.ByNodeID)); err != nil {
		return "", err
	}
	return v, nil
}

// Attributes returns every attribute of the element.
func (e *Element) Attributes() (map[string]string, error) {
	var attrs map[string]string
	if err := e.d.run(chromedp.Attributes(e.sel(), &attrs, chromedp.ByNodeID)); err != nil {
		return nil, err
	}
	return attrs, nil
}

const selectedJS = `function() {
	return this.selected === true || this.checked === true;
}`

// selectOptionJS selects the option it is called on the way a user picking
// it from the list does, and fires the events a page listens for.
const selectOptionJS = `function() {
	const s = this.closest('select');
	this.selected = s && s.multiple ? !this.selected : true;
	if (s) {
		s.dispatchEvent(new Event('input', {bubbles: true}));
		s.dispatchEvent(new Event('change', {bubbles: true}));
	}
}`

// call runs the function declaration fn with the node as this.
func (e *Element) call(fn string, res interface{}) error {
	return e.d.run(chromedp.QueryAfter(e.sel(), func(ctx context.Context, _ runtime.ExecutionContextID, nodes ...*cdp.Node) error {
		obj, err := dom.ResolveNode().WithNodeID(nodes[0].NodeID).Do(ctx)
		if err != nil {
			return err
		}
		defer runtime.ReleaseObject(obj.ObjectID).Do(ctx)
		return chromedp.CallFunctionOn(fn, res, func(p *runtime.CallFunctionOnParams) *runtime.CallFunctionOnParams {
			return p.WithObjectID(obj.ObjectID)
		}).Do(ctx)
	}, chromedp.ByNodeID))
}

// IsSelected reports whether an option is selected or a checkbox or radio
// button is checked.
func (e *Element) IsSelected() (bool, error) {
	var sel bool
	if err := e.call(selectedJS, &sel); err != nil {
		return false, err
	}
	return sel, nil
}

// Options returns the option descendants of a select.
func (e *Element) Options() ([]fluent.NativeElement, error) {
	nodes, err := e.d.query("option", chromedp.FromNode(e.node))
	if err != nil {
		return nil, err
	}
	return e.d.elements(nodes), nil
}

// Click clicks the element once it is visible. Options are selected through
// their select, since a mouse click on an option has no effect.
func (e *Element) Click() error {
	if e.node.NodeName == "OPTION" {
		return e.call(selectOptionJS, nil)
	}
	return e.d.run(chromedp.Click(e.sel(), chromedp.ByNodeID))
}

// Clear empties the value of a text control.
func (e *Element) Clear() error {
	return e.d.run(chromedp.SetValue(e.sel(), "", chromedp.ByNodeID))
}

// SendKeys types keys into the element.
func (e *Element) SendKeys(keys string) error {
	return e.d.run(chromedp.SendKeys(e.sel(), keys, chromedp.ByNodeID))
}

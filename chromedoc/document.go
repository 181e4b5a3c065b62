// Package chromedoc is a fluent.Driver that drives Chrome directly over the
// DevTools protocol, without a WebDriver server in between.
package chromedoc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/golang/glog"
	"github.com/wanmail/fluent"
)

// DefaultTimeout bounds every protocol round trip unless Timeout says
// otherwise.
const DefaultTimeout = 10 * time.Second

// Document is a Chrome tab. It is safe for concurrent use.
type Document struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

var _ fluent.Driver = (*Document)(nil)

// Option configures a Document.
type Option func(*Document)

// Timeout bounds each call made to the browser. A handle to a node that is
// no longer in the page fails once the timeout elapses.
func Timeout(d time.Duration) Option {
	return func(doc *Document) {
		if d > 0 {
			doc.timeout = d
		}
	}
}

// New starts a Chrome process configured by alloc and opens a tab in it.
func New(parent context.Context, alloc []chromedp.ExecAllocatorOption, opts ...Option) (*Document, error) {
	actx, cancel := chromedp.NewExecAllocator(parent, alloc...)
	return newDocument(actx, cancel, opts)
}

// NewRemote opens a tab in the browser listening for DevTools connections
// at wsURL.
func NewRemote(parent context.Context, wsURL string, opts ...Option) (*Document, error) {
	actx, cancel := chromedp.NewRemoteAllocator(parent, wsURL)
	return newDocument(actx, cancel, opts)
}

func newDocument(actx context.Context, acancel context.CancelFunc, opts []Option) (*Document, error) {
	ctx, cancel := chromedp.NewContext(actx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			if v := glog.V(2); v {
				v.Infof(format, args...)
			}
		}),
		chromedp.WithErrorf(glog.Errorf))
	d := &Document{
		ctx: ctx,
		cancel: func() {
			cancel()
			acancel()
		},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}

	// An empty run starts the browser.
	if err := chromedp.Run(ctx); err != nil {
		d.cancel()
		return nil, fmt.Errorf("chromedoc: starting browser: %w", err)
	}
	glog.V(1).Infof("chromedoc: browser started")
	return d, nil
}

// run executes actions within the per-call timeout. Failures caused by the
// browser going away are reported as fluent.ErrSessionLost.
func (d *Document) run(actions ...chromedp.Action) error {
	if d.ctx.Err() != nil {
		return fmt.Errorf("chromedoc: %w", fluent.ErrSessionLost)
	}
	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	defer cancel()

	err := chromedp.Run(ctx, actions...)
	switch {
	case err == nil:
		return nil
	case d.ctx.Err() != nil,
		errors.Is(err, chromedp.ErrInvalidContext),
		errors.Is(err, chromedp.ErrChannelClosed):
		return fmt.Errorf("chromedoc: %v: %w", err, fluent.ErrSessionLost)
	}
	return fmt.Errorf("chromedoc: %w", err)
}

// Navigate loads rawURL and waits for the load event.
func (d *Document) Navigate(rawURL string) error {
	return d.run(chromedp.Navigate(rawURL))
}

// CurrentURL returns the URL of the tab.
func (d *Document) CurrentURL() (string, error) {
	var u string
	if err := d.run(chromedp.Location(&u)); err != nil {
		return "", err
	}
	return u, nil
}

// Quit closes the browser.
func (d *Document) Quit() error {
	err := chromedp.Cancel(d.ctx)
	d.cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("chromedoc: closing browser: %w", err)
	}
	return nil
}

// query returns the nodes matching selector without waiting for any to
// appear.
func (d *Document) query(selector string, opts ...chromedp.QueryOption) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	opts = append([]chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}, opts...)
	if err := d.run(chromedp.Nodes(selector, &nodes, opts...)); err != nil {
		return nil, err
	}
	return nodes, nil
}

// QuerySingle returns the first element matching selector.
func (d *Document) QuerySingle(selector string) (fluent.NativeElement, error) {
	nodes, err := d.query(selector)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("chromedoc: no element matches %q: %w", selector, fluent.ErrNoSuchElement)
	}
	return &Element{d, nodes[0]}, nil
}

// QueryMultiple returns every element matching selector.
func (d *Document) QueryMultiple(selector string) ([]fluent.NativeElement, error) {
	nodes, err := d.query(selector)
	if err != nil {
		return nil, err
	}
	return d.elements(nodes), nil
}

func (d *Document) elements(nodes []*cdp.Node) []fluent.NativeElement {
	elems := make([]fluent.NativeElement, len(nodes))
	for i, n := range nodes {
		elems[i] = &Element{d, n}
	}
	return elems
}

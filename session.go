package fluent

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wanmail/fluent/log"
)

// Defaults for Wait.
const (
	DefaultWaitTimeout  = 60 * time.Second
	DefaultWaitInterval = 100 * time.Millisecond
)

// Session issues commands and expectations against a Document. A Session
// runs one command at a time and must not be shared between goroutines.
type Session struct {
	id       string
	doc      Document
	adapter  Adapter
	log      log.Logger
	metrics  *Metrics
	timeout  time.Duration
	interval time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the sink for trace output. A nil Logger discards it.
func WithLogger(l log.Logger) Option {
	return func(s *Session) {
		if l == nil {
			l = log.Discard
		}
		s.log = l
	}
}

// WithAdapter replaces DefaultAdapter.
func WithAdapter(a Adapter) Option {
	return func(s *Session) { s.adapter = a }
}

// WithMetrics records commands, expectations and waits in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithWaitTimeout sets the timeout used by Wait.
func WithWaitTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithWaitInterval sets the polling interval used by Wait and by WaitUntil
// when it is given a zero interval.
func WithWaitInterval(d time.Duration) Option {
	return func(s *Session) { s.interval = d }
}

// NewSession returns a Session over doc. Trace output goes to glog at
// log.TraceLevel unless WithLogger is given.
func NewSession(doc Document, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		doc:      doc,
		adapter:  DefaultAdapter,
		log:      log.Glog(log.TraceLevel),
		timeout:  DefaultWaitTimeout,
		interval: DefaultWaitInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = log.Prefix(s.log, "session "+s.id+": ")
	return s
}

// ID returns the unique identifier of the session, as used in trace output.
func (s *Session) ID() string { return s.id }

// Document returns the document the session operates on.
func (s *Session) Document() Document { return s.doc }

// ElementAccessor defers the lookup of a single element until Element is
// called. String describes the lookup in error messages.
type ElementAccessor interface {
	Element() (*Element, error)
	String() string
}

// ElementsAccessor is the sequence form of ElementAccessor.
type ElementsAccessor interface {
	Elements() ([]*Element, error)
	String() string
}

// ElementFunc is an ElementAccessor backed by an arbitrary function.
type ElementFunc func() (*Element, error)

// Element calls f.
func (f ElementFunc) Element() (*Element, error) { return f() }

func (f ElementFunc) String() string { return funcName(f) }

// resolve returns the element behind acc. An accessor that yields neither an
// element nor an error has found nothing.
func resolve(acc ElementAccessor) (*Element, error) {
	e, err := acc.Element()
	if err == nil && e == nil {
		return nil, &ElementNotFoundError{Selector: acc.String()}
	}
	return e, err
}

// ElementsFunc is an ElementsAccessor backed by an arbitrary function.
type ElementsFunc func() ([]*Element, error)

// Elements calls f.
func (f ElementsFunc) Elements() ([]*Element, error) { return f() }

func (f ElementsFunc) String() string { return funcName(f) }

// Query is the lazy accessor returned by Find.
type Query struct {
	s        *Session
	selector string
}

// Find returns an accessor for the first element matching selector. The
// document is not queried until the accessor is used.
func (s *Session) Find(selector string) *Query {
	return &Query{s: s, selector: selector}
}

// Element queries the document. A selector that matches nothing yields an
// *ElementNotFoundError.
func (q *Query) Element() (*Element, error) {
	n, err := q.s.doc.QuerySingle(q.selector)
	if err != nil {
		if errors.Is(err, ErrNoSuchElement) {
			return nil, &ElementNotFoundError{Selector: q.selector}
		}
		return nil, err
	}
	return q.s.adapter.Adapt(n)
}

// Selector returns the selector the query was built from.
func (q *Query) Selector() string { return q.selector }

func (q *Query) String() string { return q.selector }

// QueryAll is the lazy accessor returned by FindAll.
type QueryAll struct {
	s        *Session
	selector string
}

// FindAll returns an accessor for every element matching selector. The
// document is not queried until the accessor is used.
func (s *Session) FindAll(selector string) *QueryAll {
	return &QueryAll{s: s, selector: selector}
}

// Elements queries the document. Matching nothing is not an error.
func (q *QueryAll) Elements() ([]*Element, error) {
	ns, err := q.s.doc.QueryMultiple(q.selector)
	if err != nil {
		return nil, err
	}
	es := make([]*Element, 0, len(ns))
	for _, n := range ns {
		e, err := q.s.adapter.Adapt(n)
		if err != nil {
			return nil, err
		}
		es = append(es, e)
	}
	return es, nil
}

// Selector returns the selector the query was built from.
func (q *QueryAll) Selector() string { return q.selector }

func (q *QueryAll) String() string { return q.selector }

// Act runs action once. Errors of this package's own types are returned
// unchanged; any other error is wrapped in a *CommandExecutionError.
func (s *Session) Act(action func() error) error {
	err := action()
	if err == nil || isDomainError(err) {
		return err
	}
	return &CommandExecutionError{Err: err}
}

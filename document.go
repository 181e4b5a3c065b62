package fluent

// Document is the read side of a live page. Selectors are CSS selectors;
// how they are matched is up to the implementation.
type Document interface {
	// QuerySingle returns the first element matching selector. When nothing
	// matches, the returned error wraps ErrNoSuchElement.
	QuerySingle(selector string) (NativeElement, error)
	// QueryMultiple returns every element matching selector, possibly none.
	QueryMultiple(selector string) ([]NativeElement, error)
	// CurrentURL returns the URL of the loaded page.
	CurrentURL() (string, error)
}

// Navigator loads a new page.
type Navigator interface {
	Navigate(url string) error
}

// Driver is a Document that can be navigated and shut down.
type Driver interface {
	Document
	Navigator
	// Quit ends the session and releases the browser.
	Quit() error
}

// NativeElement is an element handle owned by an adapter.
type NativeElement interface {
	// TagName returns the element's tag name, in any case.
	TagName() (string, error)
	// Text returns the rendered text of the element.
	Text() (string, error)
	// Value returns the current value of a form control.
	Value() (string, error)
	// GetAttribute returns the named attribute, or "" if it is absent.
	GetAttribute(name string) (string, error)
	// Attributes returns every attribute of the element.
	Attributes() (map[string]string, error)
	// IsSelected reports whether an option or checkbox is selected.
	IsSelected() (bool, error)
	// Options returns the option children of a select element in document
	// order.
	Options() ([]NativeElement, error)

	Click() error
	Clear() error
	SendKeys(keys string) error
}

// DriverFactory starts a local browser driver from a resolved capability
// record and the path of an executable already present on disk.
type DriverFactory interface {
	NewDriver(rec *CapabilityRecord, executablePath string) (Driver, error)
}

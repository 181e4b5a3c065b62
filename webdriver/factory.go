package webdriver

import (
	"io"

	"github.com/wanmail/fluent"
)

// Factory creates WebDriver clients for resolved capability records. It
// implements fluent.DriverFactory and fluent.RemoteDriverFactory.
type Factory struct {
	// Port is the port local drivers listen on; 0 picks a free one.
	Port int
	// Output receives the log of local drivers.
	Output io.Writer
	// Options are passed to every local driver service.
	Options []ServiceOption
}

var (
	_ fluent.DriverFactory       = Factory{}
	_ fluent.RemoteDriverFactory = Factory{}
)

// NewDriver starts the driver executable at path and opens a session on it.
// The driver is stopped when the returned client quits.
func (f Factory) NewDriver(rec *fluent.CapabilityRecord, path string) (fluent.Driver, error) {
	opts := f.Options
	if f.Output != nil {
		opts = append(append([]ServiceOption(nil), opts...), Output(f.Output))
	}

	svc, err := NewService(rec.Browser(), path, f.Port, opts...)
	if err != nil {
		return nil, err
	}

	c, err := NewRemote(rec.Capabilities(), svc.Addr())
	if err != nil {
		svc.Stop()
		return nil, err
	}
	c.service = svc
	return c, nil
}

// NewRemoteDriver opens a session on the WebDriver server at executor.
func (f Factory) NewRemoteDriver(rec *fluent.CapabilityRecord, executor string) (fluent.Driver, error) {
	c, err := NewRemote(rec.Capabilities(), executor)
	if err != nil {
		return nil, err
	}
	return c, nil
}

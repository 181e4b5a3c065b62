package fluent

import (
	"fmt"
	"os/exec"
)

// RemoteDriverFactory creates a session on a remote endpoint.
type RemoteDriverFactory interface {
	NewRemoteDriver(rec *CapabilityRecord, executor string) (Driver, error)
}

// ExecutableFinder is implemented by factories that locate their own
// executable rather than the browser's driver in PATH.
type ExecutableFinder interface {
	FindExecutable(b Browser) (string, error)
}

// Bootstrap resolves the capabilities described by cfg, starts a driver
// through f and returns a Session over it. Remote configurations require f
// to implement RemoteDriverFactory. The caller ends the browser session
// with Session.Close.
func Bootstrap(cfg *Config, f DriverFactory, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rec, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	var d Driver
	if cfg.IsRemote() {
		rf, ok := f.(RemoteDriverFactory)
		if !ok {
			return nil, &InvalidArgumentError{Argument: "factory", Reason: fmt.Sprintf("%T cannot create remote sessions", f)}
		}
		d, err = rf.NewRemoteDriver(rec, cfg.Executor())
	} else {
		var path string
		if path, err = driverPath(cfg.DriverPath, rec.Browser(), f); err != nil {
			return nil, err
		}
		d, err = f.NewDriver(rec, path)
	}
	if err != nil {
		return nil, fmt.Errorf("starting %s: %w", rec.Browser(), err)
	}

	return NewSession(d, append(cfg.SessionOptions(), opts...)...), nil
}

// driverPath returns configured, or else the executable found by f, or else
// the driver executable of b found in PATH.
func driverPath(configured string, b Browser, f DriverFactory) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if ef, ok := f.(ExecutableFinder); ok {
		return ef.FindExecutable(b)
	}
	name := b.DriverBinary()
	path, err := exec.LookPath(name)
	if err != nil {
		return "", &InvalidArgumentError{Argument: "driver_path", Reason: fmt.Sprintf("%s not found in PATH: %v", name, err)}
	}
	return path, nil
}

// Close quits the browser if the session's document is a Driver.
func (s *Session) Close() error {
	if d, ok := s.doc.(Driver); ok {
		return d.Quit()
	}
	return nil
}

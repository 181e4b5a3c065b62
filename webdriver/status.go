package webdriver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blang/semver"
)

// Status contains information returned by the Status method.
type Status struct {
	// The following fields are used by Selenium and ChromeDriver.
	Java struct {
		Version string
	}
	Build struct {
		Version, Revision, Time string
	}
	OS struct {
		Arch, Name, Version string
	}

	// The following fields are specified by the W3C WebDriver specification and
	// are used by GeckoDriver.
	Ready   bool
	Message string
}

// Version parses the build version reported by the server. Versions with
// more than three components, as ChromeDriver reports them, are truncated.
func (s *Status) Version() (semver.Version, error) {
	fields := strings.Fields(s.Build.Version)
	if len(fields) == 0 {
		return semver.Version{}, fmt.Errorf("server reported no build version")
	}
	parts := strings.SplitN(fields[0], ".", 4)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return semver.ParseTolerant(strings.Join(parts, "."))
}

// GetStatus queries the status endpoint of the server at executor. No
// session is needed.
func GetStatus(executor string) (*Status, error) {
	if executor == "" {
		executor = DefaultExecutor
	}
	reply, err := execute("GET", strings.TrimSuffix(executor, "/")+"/status", nil)
	if err != nil {
		return nil, err
	}
	status := new(struct{ Value Status })
	if err := json.Unmarshal(reply, status); err != nil {
		return nil, err
	}
	return &status.Value, nil
}

// Status queries the status endpoint of the client's server.
func (c *Client) Status() (*Status, error) {
	return GetStatus(c.executor)
}

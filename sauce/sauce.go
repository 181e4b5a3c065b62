// Package sauce describes sessions on the Sauce Labs hosted browser testing
// environment.
package sauce

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Addr returns the Sauce Labs executor URL for the given account.
func Addr(userName, accessKey string) string {
	u := url.URL{
		Scheme: "https",
		User:   url.UserPassword(userName, accessKey),
		Host:   "ondemand.saucelabs.com",
		Path:   "/wd/hub",
	}
	return u.String()
}

// Capabilities are Sauce Labs job options. Mobile browsers use them for their
// device defaults. Options are described at
// https://docs.saucelabs.com/dev/test-configuration-options/
type Capabilities struct {
	Browser string `json:"browserName,omitempty" yaml:"browserName,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Platform is the operating system of the remote machine.
	Platform string `json:"platform,omitempty" yaml:"platform,omitempty"`

	// DeviceName selects an emulator or simulator for mobile sessions.
	DeviceName string `json:"deviceName,omitempty" yaml:"deviceName,omitempty"`

	// DeviceOrientation is "portrait" or "landscape".
	DeviceOrientation string `json:"deviceOrientation,omitempty" yaml:"deviceOrientation,omitempty"`

	// TestName and BuildNumber label the job in the dashboard.
	TestName    string   `json:"name,omitempty" yaml:"name,omitempty"`
	BuildNumber string   `json:"build,omitempty" yaml:"build,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Limits, in seconds.
	MaximumDuration int `json:"maxDuration,omitempty" yaml:"maxDuration,omitempty"`
	CommandTimeout  int `json:"commandTimeout,omitempty" yaml:"commandTimeout,omitempty"`
	IdleTimeout     int `json:"idleTimeout,omitempty" yaml:"idleTimeout,omitempty"`

	ScreenResolution string `json:"screenResolution,omitempty" yaml:"screenResolution,omitempty"`

	Visibility Visibility `json:"public,omitempty" yaml:"public,omitempty"`

	// RecordVideo is on unless set to false.
	RecordVideo *bool `json:"recordVideo,omitempty" yaml:"recordVideo,omitempty"`
}

// Visibility controls who can see a job's results.
type Visibility string

const (
	Public  Visibility = "public"
	Team    Visibility = "team" // same root account
	Private Visibility = "private"
)

// ToMap returns the non-empty options keyed by their capability names.
func (c *Capabilities) ToMap() (map[string]interface{}, error) {
	buf, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	m := make(map[string]interface{})
	if err := json.Unmarshal(buf, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// MergeInto copies the non-empty capabilities into dst, replacing existing
// keys.
func (c *Capabilities) MergeInto(dst map[string]interface{}) error {
	m, err := c.ToMap()
	if err != nil {
		return fmt.Errorf("sauce: encoding capabilities: %w", err)
	}
	for k, v := range m {
		dst[k] = v
	}
	return nil
}

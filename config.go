package fluent

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/wanmail/fluent/chrome"
	"github.com/wanmail/fluent/firefox"
	"github.com/wanmail/fluent/sauce"
	"gopkg.in/yaml.v3"
)

// Config selects and configures the browser a Session is bootstrapped
// against. It is usually loaded from YAML:
//
//	browser: chrome-headless
//	remote: http://127.0.0.1:4444/wd/hub
//	wait_timeout: 10s
//	capabilities:
//	  acceptInsecureCerts: true
type Config struct {
	// Browser is a browser identifier accepted by ParseBrowser.
	Browser string `yaml:"browser"`
	// Remote is the URL of a WebDriver endpoint. When empty and Sauce is not
	// set, a local driver is started.
	Remote string `yaml:"remote,omitempty"`
	// DriverPath is the local driver executable. When empty it is looked up
	// by name in PATH.
	DriverPath string `yaml:"driver_path,omitempty"`

	// Capabilities are merged over the defaults of the browser.
	Capabilities map[string]interface{} `yaml:"capabilities,omitempty"`
	// Chrome and Firefox replace the browser-specific defaults.
	Chrome  *chrome.Capabilities  `yaml:"chrome,omitempty"`
	Firefox *firefox.Capabilities `yaml:"firefox,omitempty"`
	// ChromeExtensions are paths of packed extensions to load into Chrome.
	ChromeExtensions []string `yaml:"chrome_extensions,omitempty"`
	Proxy            *Proxy   `yaml:"proxy,omitempty"`
	Sauce            *Sauce   `yaml:"sauce,omitempty"`

	WaitTimeout  Duration `yaml:"wait_timeout,omitempty"`
	WaitInterval Duration `yaml:"wait_interval,omitempty"`
}

// Sauce holds the credentials and job options for running on Sauce Labs.
type Sauce struct {
	UserName  string             `yaml:"user_name"`
	AccessKey string             `yaml:"access_key"`
	Options   sauce.Capabilities `yaml:"options,omitempty"`
}

// Duration is a time.Duration that reads from YAML strings such as "5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// LoadConfig reads a YAML Config from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates a YAML Config. Unknown fields are
// rejected.
func ParseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	cfg := new(Config)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the Config for consistency.
func (c *Config) Validate() error {
	b, err := ParseBrowser(c.Browser)
	if err != nil {
		return err
	}
	if b.RemoteOnly() && !c.IsRemote() {
		return &UnsupportedBrowserError{Browser: c.Browser, Reason: "only available through a remote endpoint; set remote or sauce"}
	}
	if c.Sauce != nil && (c.Sauce.UserName == "" || c.Sauce.AccessKey == "") {
		return &InvalidArgumentError{Argument: "sauce", Reason: "user_name and access_key are required"}
	}
	if c.WaitTimeout < 0 {
		return &InvalidArgumentError{Argument: "wait_timeout", Reason: "must not be negative"}
	}
	if c.WaitInterval < 0 {
		return &InvalidArgumentError{Argument: "wait_interval", Reason: "must not be negative"}
	}
	return nil
}

// IsRemote reports whether the Config targets a remote endpoint.
func (c *Config) IsRemote() bool {
	return c.Remote != "" || c.Sauce != nil
}

// Executor returns the remote endpoint URL, or "" for a local driver.
func (c *Config) Executor() string {
	if c.Sauce != nil {
		return sauce.Addr(c.Sauce.UserName, c.Sauce.AccessKey)
	}
	return c.Remote
}

// Resolve returns the capability record described by the Config.
func (c *Config) Resolve() (*CapabilityRecord, error) {
	b, err := ParseBrowser(c.Browser)
	if err != nil {
		return nil, err
	}

	overrides := Capabilities{}
	for k, v := range c.Capabilities {
		overrides[k] = v
	}
	if c.Chrome != nil || len(c.ChromeExtensions) > 0 {
		cc := chrome.New(b.Headless())
		if c.Chrome != nil {
			cc = *c.Chrome
		}
		for _, path := range c.ChromeExtensions {
			if err := cc.AddExtension(path); err != nil {
				return nil, fmt.Errorf("loading chrome extension: %w", err)
			}
		}
		overrides.AddChrome(cc)
	}
	if c.Firefox != nil {
		overrides.AddFirefox(*c.Firefox)
	}
	if c.Proxy != nil {
		overrides.AddProxy(*c.Proxy)
	}
	if c.Sauce != nil {
		if err := c.Sauce.Options.MergeInto(overrides); err != nil {
			return nil, err
		}
	}

	if c.IsRemote() {
		return ResolveRemoteCapabilities(b, overrides)
	}
	return ResolveCapabilities(b, overrides)
}

// SessionOptions returns the Options that apply the Config's wait settings.
func (c *Config) SessionOptions() []Option {
	var opts []Option
	if c.WaitTimeout > 0 {
		opts = append(opts, WithWaitTimeout(time.Duration(c.WaitTimeout)))
	}
	if c.WaitInterval > 0 {
		opts = append(opts, WithWaitInterval(time.Duration(c.WaitInterval)))
	}
	return opts
}

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/wanmail/fluent"
	"gopkg.in/yaml.v3"
)

// defaultBrowser is used when neither --config nor --browser names one.
const defaultBrowser = fluent.ChromeHeadless

// loadConfig returns the configuration named by --config with the
// --browser and --remote overrides applied.
func loadConfig(cmd *cobra.Command) (*fluent.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	browser, _ := flags.GetString("browser")
	remote, _ := flags.GetString("remote")

	cfg := &fluent.Config{Browser: string(defaultBrowser)}
	if path != "" {
		var err error
		if cfg, err = fluent.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if browser != "" {
		cfg.Browser = browser
	}
	if remote != "" {
		cfg.Remote = remote
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return enc.Close()
}

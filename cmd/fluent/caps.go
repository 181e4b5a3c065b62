package main

import (
	"github.com/spf13/cobra"
	"github.com/wanmail/fluent"
)

func newBrowsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browsers",
		Short: "List the supported browsers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			type entry struct {
				Name       string `yaml:"name"`
				Driver     string `yaml:"driver,omitempty"`
				Headless   bool   `yaml:"headless,omitempty"`
				RemoteOnly bool   `yaml:"remote_only,omitempty"`
			}
			var out []entry
			for _, b := range fluent.Browsers() {
				out = append(out, entry{
					Name:       b.String(),
					Driver:     b.DriverBinary(),
					Headless:   b.Headless(),
					RemoteOnly: b.RemoteOnly(),
				})
			}
			return writeYAML(cmd.OutOrStdout(), out)
		},
	}
}

func newCapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "caps",
		Short: "Print the capabilities a session would be created with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rec, err := cfg.Resolve()
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), struct {
				Browser      string                 `yaml:"browser"`
				Executor     string                 `yaml:"executor,omitempty"`
				Capabilities map[string]interface{} `yaml:"capabilities"`
			}{
				Browser:      rec.Browser().String(),
				Executor:     cfg.Executor(),
				Capabilities: rec.Capabilities(),
			})
		},
	}
}

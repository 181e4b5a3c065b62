package main

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
	"github.com/wanmail/fluent/webdriver"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [executor]",
		Short: "Report whether a WebDriver server is ready",
		Long: `Query the status endpoint of a WebDriver server. The executor defaults to
--remote, then to ` + webdriver.DefaultExecutor + `.

With --min-version, fail unless the server's build version is at least the
given version.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runStatus,
	}
	cmd.Flags().String("min-version", "", "Minimum acceptable server build version")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	executor, _ := cmd.Flags().GetString("remote")
	if len(args) > 0 {
		executor = args[0]
	}
	minVersion, _ := cmd.Flags().GetString("min-version")

	var floor semver.Version
	if minVersion != "" {
		var err error
		if floor, err = semver.ParseTolerant(minVersion); err != nil {
			return fmt.Errorf("--min-version: %w", err)
		}
	}

	status, err := webdriver.GetStatus(executor)
	if err != nil {
		return err
	}
	out := struct {
		Ready   bool   `yaml:"ready"`
		Message string `yaml:"message,omitempty"`
		Version string `yaml:"version,omitempty"`
		OS      string `yaml:"os,omitempty"`
	}{
		Ready:   status.Ready,
		Message: status.Message,
		OS:      status.OS.Name,
	}
	v, verr := status.Version()
	if verr == nil {
		out.Version = v.String()
	}
	if err := writeYAML(cmd.OutOrStdout(), out); err != nil {
		return err
	}

	if minVersion == "" {
		return nil
	}
	if verr != nil {
		return fmt.Errorf("checking version: %w", verr)
	}
	if v.LT(floor) {
		return fmt.Errorf("server version %s is older than %s", v, floor)
	}
	return nil
}

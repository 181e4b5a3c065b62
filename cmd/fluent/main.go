// Command fluent resolves browser capabilities, reports the status of
// WebDriver servers and runs one-shot expectations against a page.
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

func main() {
	defer glog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fluent",
		Short:         "Drive browsers with fluent expectations",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(*cobra.Command, []string) {
			// glog reads its flags from flag.CommandLine.
			flag.CommandLine.Parse(nil)
		},
	}
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	root.PersistentFlags().String("config", "", "Path of a YAML bootstrap configuration")
	root.PersistentFlags().String("browser", "", "Browser to use, overriding the configuration")
	root.PersistentFlags().String("remote", "", "WebDriver endpoint, overriding the configuration")

	root.AddCommand(newBrowsersCmd(), newCapsCmd(), newStatusCmd(), newCheckCmd())
	return root
}

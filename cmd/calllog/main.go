// Package main implements the calllog CLI: it runs instrumented sample calls
// and prints the effective configuration.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	level      string
	format     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "calllog",
		Short: "Log every call of a wrapped function",
		Long: `calllog wraps Go functions so each call is logged with its arguments and
outcome. Sensitive argument names are redacted before logging.

This CLI runs a set of instrumented sample calls and shows the configuration
they were run with.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/calllog/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.level, "level", "", "override logging.level")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "", "override logging.format (json or console)")

	cmd.AddCommand(newDemoCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	return cmd
}

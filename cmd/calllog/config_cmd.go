package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/calllog/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect calllog configuration",
	}

	var output string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file, CALLLOG_*
environment variables and flags are applied. Secret values are redacted.

Examples:
  calllog config show
  calllog config show --output toml
  CALLLOG_LOGGING_LEVEL=info calllog config show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			out, err := config.Marshal(cfg, output)
			if err != nil {
				return fmt.Errorf("rendering config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	show.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or toml")

	cmd.AddCommand(show)
	return cmd
}

package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netowner/netowner/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the netowner config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Long: "Write config.yml with the default settings.\n\n" +
			"The config directory is resolved in this order:\n" +
			"  $NETOWNER_CONFIG_DIR > $XDG_CONFIG_HOME/netowner > ~/.config/netowner",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := opts.configPath
			if path == "" {
				var err error
				if path, err = config.Path(); err != nil {
					return err
				}
			}
			if err := config.Save(path, config.Default(), force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := opts.effectiveConfig(cmd)
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, data)
			return nil
		},
	}
	opts.bindListFlags(showCmd)

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

package app

import (
	"github.com/spf13/cobra"

	"github.com/netowner/netowner/internal/tui"
)

func newTUICmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse sockets interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync() //nolint:errcheck
			return tui.Start(version, s.collect)
		},
	}
	opts.bindListFlags(cmd)
	return cmd
}

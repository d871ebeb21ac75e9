package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionString() string {
	s := "netowner " + version
	if commit != "" {
		s += " (" + commit
		if buildDate != "" {
			s += ", built " + buildDate
		}
		s += ")"
	}
	return s
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}
}

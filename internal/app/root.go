package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/netowner/netowner/internal/config"
	"github.com/netowner/netowner/internal/pipeline"
	"github.com/netowner/netowner/internal/proc"
	"github.com/netowner/netowner/internal/tcptable"
)

var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

func SetVersionBuildCommitString(v, c, d string) {
	if v != "" {
		version = v
	}
	commit = c
	buildDate = d
}

// newCollector is replaced in tests.
var newCollector = func(cfg config.Config, log *zap.Logger) *pipeline.Collector {
	return &pipeline.Collector{
		Table:   tcptable.NativeEnumerator(),
		Modules: tcptable.NativeModuleQuerier(),
		Images:  proc.NewImageLookup(),
		Workers: cfg.Workers,
		Logger:  log,
	}
}

func Execute() {
	if err := NewRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
}

func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "netowner [port|pid:N|owner]",
		Short: "Show which process owns each TCP socket",
		Long: "netowner reads the TCP connection table and reports, for every socket,\n" +
			"its endpoints, state, owning process, creation time and owning module.",
		Example: "  netowner\n  netowner 443\n  netowner pid:900 --json\n  netowner sshd --format tree",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.setTarget(args)
			return runList(cmd, opts)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: $NETOWNER_CONFIG_DIR/config.yml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug details to stderr")
	opts.bindListFlags(root)

	list := &cobra.Command{
		Use:   "list [port|pid:N|owner]",
		Short: "List TCP sockets and their owners (default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.setTarget(args)
			return runList(cmd, opts)
		},
	}
	opts.bindListFlags(list)

	root.AddCommand(
		list,
		newPickCmd(opts),
		newTUICmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

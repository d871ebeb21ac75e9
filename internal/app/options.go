package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netowner/netowner/internal/config"
	"github.com/netowner/netowner/internal/pipeline"
	"github.com/netowner/netowner/internal/target"
)

type options struct {
	configPath string
	verbose    bool
	target     string

	ipv4    bool
	ipv6    bool
	module  bool
	listen  bool
	port    int
	pid     int
	owner   string
	exact   bool
	states  []string
	jsonOut bool
	format  string
	workers int
	noColor bool
}

func (o *options) bindListFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVarP(&o.ipv4, "ipv4", "4", false, "only IPv4 sockets")
	f.BoolVarP(&o.ipv6, "ipv6", "6", false, "only IPv6 sockets")
	f.BoolVar(&o.module, "module", config.Default().OwnerLevel == "module", "query the owning module of each socket (Windows)")
	f.BoolVarP(&o.listen, "listen", "l", false, "only listening sockets")
	f.IntVarP(&o.port, "port", "p", 0, "local or remote port")
	f.IntVar(&o.pid, "pid", 0, "owning process id")
	f.StringVar(&o.owner, "owner", "", "owner module substring (case-insensitive)")
	f.BoolVar(&o.exact, "exact", false, "match --owner against the image base name exactly")
	f.StringSliceVar(&o.states, "state", nil, "TCP states to keep, e.g. LISTEN,ESTABLISHED")
	f.BoolVar(&o.jsonOut, "json", false, "output as JSON")
	f.StringVarP(&o.format, "format", "o", "", "output format: "+strings.Join(config.Formats, ", "))
	f.IntVar(&o.workers, "workers", 0, "owner lookups in parallel (default: number of CPUs)")
	f.BoolVar(&o.noColor, "no-color", false, "disable colorized output")
}

// effectiveConfig loads the config file and applies command-line overrides.
func (o *options) effectiveConfig(cmd *cobra.Command) (config.Config, string, error) {
	path := o.configPath
	if path == "" {
		var err error
		path, err = config.Path()
		if err != nil {
			return config.Config{}, "", err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, path, err
	}

	flags := cmd.Flags()
	switch {
	case o.ipv4 && !o.ipv6:
		cfg.Families = []string{"ipv4"}
	case o.ipv6 && !o.ipv4:
		cfg.Families = []string{"ipv6"}
	case o.ipv4 && o.ipv6:
		cfg.Families = []string{"ipv4", "ipv6"}
	}
	if flags.Changed("module") {
		cfg.OwnerLevel = "pid"
		if o.module {
			cfg.OwnerLevel = "module"
		}
	}
	if o.listen {
		cfg.Scope = "listeners"
	}
	if flags.Changed("port") {
		cfg.Filter.Port = o.port
	}
	if flags.Changed("pid") {
		cfg.Filter.PID = o.pid
	}
	if flags.Changed("owner") {
		cfg.Filter.Owner = o.owner
	}
	if flags.Changed("state") {
		cfg.Filter.States = o.states
	}
	if o.format != "" {
		cfg.Format = o.format
	}
	if o.jsonOut {
		cfg.Format = "json"
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if o.noColor || os.Getenv("NO_COLOR") != "" {
		cfg.Color = false
	}
	if o.verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, path, err
	}
	return cfg, path, nil
}

func (o *options) request(cfg config.Config) (pipeline.Request, error) {
	families, err := cfg.AddressFamilies()
	if err != nil {
		return pipeline.Request{}, err
	}
	level, err := cfg.Level()
	if err != nil {
		return pipeline.Request{}, err
	}
	scope, err := cfg.TableScope()
	if err != nil {
		return pipeline.Request{}, err
	}
	filter, err := cfg.RecordFilter()
	if err != nil {
		return pipeline.Request{}, fmt.Errorf("filter: %w", err)
	}
	filter.Exact = o.exact
	if o.target != "" {
		t := target.Parse(o.target)
		if t.Port != 0 {
			filter.Port = t.Port
		}
		if t.PID != 0 {
			filter.PID = t.PID
		}
		if t.Owner != "" {
			filter.Owner = t.Owner
		}
	}
	return pipeline.Request{Families: families, Level: level, Scope: scope, Filter: filter}, nil
}

func (o *options) setTarget(args []string) {
	if len(args) > 0 {
		o.target = args[0]
	}
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/netowner/netowner/internal/target"
	"github.com/netowner/netowner/internal/tcptable"
	"github.com/netowner/netowner/pkg/model"
)

const (
	appName  = "netowner"
	fileName = "config.yml"
)

var envConfigDir = strings.ToUpper(appName) + "_CONFIG_DIR"

var (
	ErrUnknownFamily     = errors.New("unknown address family")
	ErrUnknownOwnerLevel = errors.New("unknown owner level")
	ErrUnknownScope      = errors.New("unknown scope")
	ErrUnknownFormat     = errors.New("unknown output format")
	ErrExists            = errors.New("config file already exists")
)

// Formats accepted by the list command.
var Formats = []string{"table", "json", "short", "tree"}

type Filter struct {
	Port   int      `yaml:"port,omitempty"`
	PID    int      `yaml:"pid,omitempty"`
	Owner  string   `yaml:"owner,omitempty"`
	States []string `yaml:"states,omitempty"`
}

type Config struct {
	Families   []string `yaml:"families"`
	OwnerLevel string   `yaml:"owner_level"`
	Scope      string   `yaml:"scope"`
	Workers    int      `yaml:"workers"`
	Format     string   `yaml:"format"`
	Color      bool     `yaml:"color"`
	LogLevel   string   `yaml:"log_level"`
	Filter     Filter   `yaml:"filter"`
}

func Default() Config {
	return Config{
		Families:   []string{"ipv4", "ipv6"},
		OwnerLevel: defaultOwnerLevel(),
		Scope:      "all",
		Workers:    0,
		Format:     "table",
		Color:      true,
		LogLevel:   "warn",
	}
}

// Only Windows exposes owner-module tables.
func defaultOwnerLevel() string {
	if runtime.GOOS == "windows" {
		return "module"
	}
	return "pid"
}

// Dir returns the config directory.
// Priority: $NETOWNER_CONFIG_DIR > $XDG_CONFIG_HOME/netowner > ~/.config/netowner
func Dir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating its directory. An existing file is only
// replaced when force is set.
func Save(path string, cfg Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w (use --force to overwrite)", path, ErrExists)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(path), err)
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

func (c Config) Validate() error {
	if _, err := c.AddressFamilies(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.TableScope(); err != nil {
		return err
	}
	if !lo.Contains(Formats, c.Format) {
		return fmt.Errorf("%w %q", ErrUnknownFormat, c.Format)
	}
	if _, err := c.RecordFilter(); err != nil {
		return err
	}
	return nil
}

func (c Config) AddressFamilies() ([]tcptable.Family, error) {
	var out []tcptable.Family
	for _, f := range c.Families {
		switch strings.ToLower(f) {
		case "ipv4", "4", "tcp4":
			out = append(out, tcptable.FamilyIPv4)
		case "ipv6", "6", "tcp6":
			out = append(out, tcptable.FamilyIPv6)
		default:
			return nil, fmt.Errorf("%w %q", ErrUnknownFamily, f)
		}
	}
	return out, nil
}

func (c Config) Level() (tcptable.OwnerLevel, error) {
	level := c.OwnerLevel
	if level == "" {
		level = defaultOwnerLevel()
	}
	switch strings.ToLower(level) {
	case "module":
		return tcptable.OwnerModule, nil
	case "pid":
		return tcptable.OwnerPID, nil
	}
	return tcptable.OwnerPID, fmt.Errorf("%w %q", ErrUnknownOwnerLevel, c.OwnerLevel)
}

func (c Config) TableScope() (tcptable.Scope, error) {
	switch strings.ToLower(c.Scope) {
	case "", "all":
		return tcptable.ScopeAll, nil
	case "listeners", "listen":
		return tcptable.ScopeListeners, nil
	case "connections":
		return tcptable.ScopeConnections, nil
	}
	return tcptable.ScopeAll, fmt.Errorf("%w %q", ErrUnknownScope, c.Scope)
}

func (c Config) RecordFilter() (target.Filter, error) {
	f := target.Filter{Port: c.Filter.Port, PID: c.Filter.PID, Owner: c.Filter.Owner}
	for _, s := range c.Filter.States {
		state, err := model.ParseTCPState(s)
		if err != nil {
			return target.Filter{}, err
		}
		f.States = append(f.States, state)
	}
	return f, nil
}

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/CTAG07/Parsifal/pkg/engine"
	"github.com/caarlos0/env/v11"
	"github.com/natefinch/atomic"
)

// Config is the persisted CLI configuration. Values are layered: defaults,
// then the JSON config file, then PARSIFAL_* environment variables, then
// flags.
type Config struct {
	Dir      string         `json:"dir"       env:"PARSIFAL_DIR"`
	Seed     uint64         `json:"seed"      env:"PARSIFAL_SEED"`
	Library  string         `json:"library"   env:"PARSIFAL_LIBRARY"`
	Database string         `json:"database"  env:"PARSIFAL_DB"`
	LogLevel string         `json:"log_level" env:"PARSIFAL_LOG_LEVEL"`
	Engine   *engine.Config `json:"engine_config"`
}

// Options is one invocation: the resolved Config plus the per-run flags.
type Options struct {
	*Config
	ConfigPath string
	Import     bool
	Out        string
	Version    bool
	Template   string
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Dir:      ".",
		LogLevel: "warn",
		Engine:   engine.DefaultConfig(),
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		var data []byte
		data, err = json.MarshalIndent(config, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal default config: %w", err)
		}
		if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to write default config file: %w", err)
		}
		return config, nil
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Engine == nil {
		config.Engine = engine.DefaultConfig()
	}
	return config, nil
}

// ParseConfig parses args into Options. Flags are read first so -config can
// name the file, but they are applied last, on top of file and environment.
func ParseConfig(fs *flag.FlagSet, args []string) (*Options, error) {
	var (
		opts  Options
		flags Config
	)
	fs.StringVar(&opts.ConfigPath, "config", "", "JSON config file, created with defaults when missing")
	fs.StringVar(&flags.Dir, "dir", ".", "root directory for templates")
	fs.Uint64Var(&flags.Seed, "seed", 0, "random seed (0 draws one from host entropy)")
	fs.StringVar(&flags.Library, "library", "", "directory to pre-load as with [library]")
	fs.StringVar(&flags.Database, "db", "", "SQLite template store to read instead of -dir")
	fs.StringVar(&flags.LogLevel, "log-level", "warn", "log level: debug, info, warn or error")
	fs.BoolVar(&opts.Import, "import", false, "copy -dir into -db before generating")
	fs.StringVar(&opts.Out, "out", "", "write output to this file instead of stdout")
	fs.BoolVar(&opts.Version, "version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := LoadConfig(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.Dir = flags.Dir
		case "seed":
			cfg.Seed = flags.Seed
		case "library":
			cfg.Library = flags.Library
		case "db":
			cfg.Database = flags.Database
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		}
	})
	opts.Config = cfg

	if opts.Version {
		return &opts, nil
	}
	if opts.Import && cfg.Database == "" {
		return nil, errors.New("-import requires -db")
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("expected one template argument, got %d", fs.NArg())
	}
	opts.Template = fs.Arg(0)
	return &opts, nil
}

// engineConfig returns the engine settings for this run. A non-zero
// top-level seed wins over the one in the engine section.
func (c *Config) engineConfig() *engine.Config {
	ec := *c.Engine
	if c.Seed != 0 {
		ec.Seed = c.Seed
	}
	return &ec
}

package main

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment first; flags override it.
type Config struct {
	Level       string `env:"TWENTY_LEVEL" envDefault:"world.yaml"`
	Debug       bool   `env:"TWENTY_DEBUG"`
	SaveApp     string `env:"TWENTY_SAVE_APP" envDefault:"twentytwenty"`
	Watch       bool   `env:"TWENTY_WATCH"`
	Checkpoint  int    `env:"TWENTY_CHECKPOINT" envDefault:"-1"`
	Fresh       bool   `env:"TWENTY_FRESH"`
	Counter     string `env:"TWENTY_ANALYTICS_COUNTER" envDefault:"70640851"`
	BaseMonitor bool   `env:"TWENTY_BASE_MONITOR"`
}

// ParseConfig loads env defaults into a Config and then applies args.
func ParseConfig(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("twentytwenty", flag.ContinueOnError)
	fs.StringVar(&cfg.Level, "level", cfg.Level, "world file in levels/")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug mode")
	fs.StringVar(&cfg.SaveApp, "save", cfg.SaveApp, "app name used for save data")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload the level when levels/ changes")
	fs.IntVar(&cfg.Checkpoint, "checkpoint", cfg.Checkpoint, "start at this checkpoint instead of the saved one")
	fs.BoolVar(&cfg.Fresh, "fresh", cfg.Fresh, "ignore saved progress")
	fs.BoolVar(&cfg.BaseMonitor, "m", cfg.BaseMonitor, "use base monitor instead of primary (for multi-monitor setups)")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Level == "" {
		return Config{}, fmt.Errorf("config: level is required")
	}
	return cfg, nil
}

// Package config loads Spooky's runtime configuration: search budgets,
// data paths, and the small set of UMI-settable options, layered the way
// the teacher's config package layers flags over a config file.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the process-wide, mutable option set. It is loaded once at
// startup (Load) and thereafter only touched by the UMI "setoption"
// command (Set), the same "one struct, flags then file then defaults"
// shape as the teacher's config.Config.
type Config struct {
	DataPath string

	// Spells toggles whether the general's tech-assignment decision may
	// spend money on additional spells this search (spec.md sec 4.7).
	// Exposed as the UMI option "setoption name spells value bool".
	Spells bool

	// MaxNodes bounds an MCTS search by node count (spec.md sec 5,
	// "budget struct: deadline, max_nodes, stop_flag").
	MaxNodes int
	// MoveTime is the default per-search wall-clock budget.
	MoveTime time.Duration

	// CombatBudget bounds one board's combat solve, the randomized greedy
	// restarts of combat.Solve (spec.md sec 4.3.5).
	CombatBudget time.Duration

	// CachePath, if non-empty, points the persistent combat plan cache
	// (the store package) at a SQLite file; ":memory:" runs it purely
	// in-process. Empty disables the cache entirely -- it is always an
	// optimization, never required for correct search.
	CachePath string
	// CacheMemFraction bounds how much of live system memory the plan
	// cache's eviction threshold may account for (store.Open).
	CacheMemFraction float64

	// LogLevel is a zerolog level name ("debug", "info", "warn", "error").
	LogLevel string
}

// Default returns the option set the engine starts with before any
// flags, config file, or UMI setoption has been applied.
func Default() *Config {
	return &Config{
		DataPath:         "./data",
		Spells:           false,
		MaxNodes:         500_000,
		MoveTime:         5 * time.Second,
		CombatBudget:     200 * time.Millisecond,
		CachePath:        "",
		CacheMemFraction: 0.02,
		LogLevel:         "info",
	}
}

// Load layers the values of a config file -- $SPOOKY_CONFIG, or
// spooky.yaml in the working directory -- over the defaults, then parses
// args on top: flags win, file values remain for anything a flag didn't
// set. This mirrors the teacher's own "flags override file, file
// overrides defaults" precedence for lexicon/strategy paths.
func Load(args []string) (*Config, error) {
	c := Default()
	if err := c.layerFile(); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("spooky", flag.ContinueOnError)
	fs.StringVar(&c.DataPath, "data-path", c.DataPath, "path to unit/techline data files")
	fs.BoolVar(&c.Spells, "spells", c.Spells, "allow spending money on additional tech spells")
	fs.IntVar(&c.MaxNodes, "max-nodes", c.MaxNodes, "MCTS node budget per search")
	fs.DurationVar(&c.MoveTime, "move-time", c.MoveTime, "default per-search wall-clock budget")
	fs.DurationVar(&c.CombatBudget, "combat-budget", c.CombatBudget, "per-board combat solver time budget")
	fs.StringVar(&c.CachePath, "cache-path", c.CachePath, "SQLite path for the persistent combat plan cache (empty disables it)")
	fs.Float64Var(&c.CacheMemFraction, "cache-mem-fraction", c.CacheMemFraction, "fraction of system memory the plan cache may account for")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "zerolog level")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: parsing flags: %w", err)
	}

	c.AdjustRelativePaths()
	return c, nil
}

func (c *Config) layerFile() error {
	path := os.Getenv("SPOOKY_CONFIG")
	if path == "" {
		path = "spooky.yaml"
	}
	if _, err := os.Stat(path); err != nil {
		return nil // no config file is not an error
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if v.IsSet("data_path") {
		c.DataPath = v.GetString("data_path")
	}
	if v.IsSet("max_nodes") {
		c.MaxNodes = v.GetInt("max_nodes")
	}
	if v.IsSet("move_time") {
		c.MoveTime = v.GetDuration("move_time")
	}
	if v.IsSet("combat_budget") {
		c.CombatBudget = v.GetDuration("combat_budget")
	}
	if v.IsSet("cache_path") {
		c.CachePath = v.GetString("cache_path")
	}
	if v.IsSet("cache_mem_fraction") {
		c.CacheMemFraction = v.GetFloat64("cache_mem_fraction")
	}
	if v.IsSet("log_level") {
		c.LogLevel = v.GetString("log_level")
	}
	return nil
}

// AdjustRelativePaths resolves DataPath to an absolute path, the same
// startup step the teacher's cmd/ucgi_cli/main.go performs on its
// lexicon/strategy directories before anything tries to read them.
func (c *Config) AdjustRelativePaths() {
	if abs, err := filepath.Abs(c.DataPath); err == nil {
		c.DataPath = abs
	}
}

// Set applies one UMI "setoption" command. name is matched
// case-sensitively against the small fixed option vocabulary of
// spec.md sec 6.1.
func (c *Config) Set(name, value string) error {
	switch name {
	case "spells":
		switch value {
		case "true":
			c.Spells = true
		case "false":
			c.Spells = false
		default:
			return fmt.Errorf("config: spells expects true/false, got %q", value)
		}
	default:
		return fmt.Errorf("config: unknown option %q", name)
	}
	return nil
}

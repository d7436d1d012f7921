// Package config loads solver settings.
//
// Settings are resolved with priority env > file > defaults and validated
// before use.
//
//	search:
//	  strategy: astar
//	  heuristic: impurity
//	  goal: strict
//	  max_nodes: 2000000
//	  timeout: 30s
//	log:
//	  level: debug
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"liquidsort/liquid"
	"liquidsort/search"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LIQUIDSORT_"

var validate = validator.New()

type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Puzzle  PuzzleConfig  `yaml:"puzzle"`
	Log     LogConfig     `yaml:"log"`
	Cache   CacheConfig   `yaml:"cache"`
	Metrics MetricsConfig `yaml:"metrics"`
	Render  RenderConfig  `yaml:"render"`
}

type SearchConfig struct {
	Strategy            string        `yaml:"strategy" validate:"oneof=dijkstra ucs uniform astar a* heuristic"`
	Heuristic           string        `yaml:"heuristic" validate:"oneof=impurity zero"`
	Goal                string        `yaml:"goal" validate:"oneof=strict monochrome mono full"`
	UnorderedContainers bool          `yaml:"unordered_containers"`
	MaxNodes            int           `yaml:"max_nodes" validate:"gte=0"`
	Timeout             time.Duration `yaml:"timeout" validate:"gte=0"`
}

type PuzzleConfig struct {
	// Containers pads the parsed puzzle with empty containers up to this count.
	Containers int `yaml:"containers" validate:"gte=0,lte=64"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type CacheConfig struct {
	Dir string `yaml:"dir"`
}

type MetricsConfig struct {
	// Textfile, when set, receives a Prometheus text exposition after each run.
	Textfile string `yaml:"textfile"`
}

type RenderConfig struct {
	// Color is one of auto, always, never.
	Color string `yaml:"color" validate:"oneof=auto always never"`
}

func Default() Config {
	return Config{
		Search: SearchConfig{
			Strategy:  "dijkstra",
			Heuristic: "impurity",
			Goal:      "strict",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Render: RenderConfig{Color: "auto"},
	}
}

// Load reads path (optional) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := loadEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, fmt.Errorf("load config env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"STRATEGY":     &cfg.Search.Strategy,
		"HEURISTIC":    &cfg.Search.Heuristic,
		"GOAL":         &cfg.Search.Goal,
		"LOG_LEVEL":    &cfg.Log.Level,
		"LOG_FORMAT":   &cfg.Log.Format,
		"CACHE_DIR":    &cfg.Cache.Dir,
		"METRICS_FILE": &cfg.Metrics.Textfile,
		"COLOR":        &cfg.Render.Color,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	var errs []error
	if v, ok := lookup(EnvPrefix + "MAX_NODES"); ok {
		n, err := strconv.Atoi(v)
		errs = append(errs, envErr("MAX_NODES", err))
		cfg.Search.MaxNodes = n
	}
	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		errs = append(errs, envErr("TIMEOUT", err))
		cfg.Search.Timeout = d
	}
	if v, ok := lookup(EnvPrefix + "CONTAINERS"); ok {
		n, err := strconv.Atoi(v)
		errs = append(errs, envErr("CONTAINERS", err))
		cfg.Puzzle.Containers = n
	}
	if v, ok := lookup(EnvPrefix + "UNORDERED"); ok {
		b, err := strconv.ParseBool(v)
		errs = append(errs, envErr("UNORDERED", err))
		cfg.Search.UnorderedContainers = b
	}
	return errors.Join(errs...)
}

func envErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
}

func (c *Config) Validate() error {
	c.Search.Strategy = strings.ToLower(c.Search.Strategy)
	c.Search.Heuristic = strings.ToLower(c.Search.Heuristic)
	c.Search.Goal = strings.ToLower(c.Search.Goal)
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
	c.Render.Color = strings.ToLower(c.Render.Color)
	return validate.Struct(c)
}

// Options converts the search section into solver options.
func (s SearchConfig) Options() (liquid.Options, error) {
	strategy, err := liquid.ParseStrategy(s.Strategy)
	if err != nil {
		return liquid.Options{}, err
	}
	goal, err := liquid.ParseGoalRule(s.Goal)
	if err != nil {
		return liquid.Options{}, err
	}
	h, err := liquid.HeuristicByName(s.Heuristic)
	if err != nil {
		return liquid.Options{}, err
	}
	return liquid.Options{
		Strategy:            strategy,
		Heuristic:           h,
		Goal:                goal,
		UnorderedContainers: s.UnorderedContainers,
		Budget:              search.Budget{MaxNodes: s.MaxNodes, Timeout: s.Timeout},
	}, nil
}

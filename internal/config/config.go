// Package config loads service configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port   string       `yaml:"port"`
	Solver SolverConfig `yaml:"solver"`
	Rate   RateConfig   `yaml:"rate"`
}

type SolverConfig struct {
	// Workers is the default pickup-candidate parallelism per solve.
	Workers int `yaml:"workers"`
	// TwoOptMaxPasses caps local-search passes per route. 0 runs to
	// convergence.
	TwoOptMaxPasses int `yaml:"twoOptMaxPasses"`
}

type RateConfig struct {
	// RPS 0 disables rate limiting.
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:   "8080",
		Solver: SolverConfig{Workers: 1},
		Rate:   RateConfig{Burst: 1},
	}
}

// Load reads path (ignored when empty or missing) on top of the defaults,
// then applies environment overrides: PORT, SOLVER_WORKERS,
// SOLVER_TWO_OPT_MAX_PASSES, RATE_RPS, RATE_BURST.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if cfg.Solver.Workers < 1 {
		cfg.Solver.Workers = 1
	}
	if cfg.Solver.TwoOptMaxPasses < 0 {
		cfg.Solver.TwoOptMaxPasses = 0
	}
	if cfg.Rate.Burst < 1 {
		cfg.Rate.Burst = 1
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if n, ok := envInt("SOLVER_WORKERS"); ok {
		cfg.Solver.Workers = n
	}
	if n, ok := envInt("SOLVER_TWO_OPT_MAX_PASSES"); ok {
		cfg.Solver.TwoOptMaxPasses = n
	}
	if v := os.Getenv("RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Rate.RPS = f
		}
	}
	if n, ok := envInt("RATE_BURST"); ok {
		cfg.Rate.Burst = n
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

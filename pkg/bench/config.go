package bench

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/authzed/rpqplan/pkg/egraph"
	"github.com/authzed/rpqplan/pkg/optimizer"
)

// Mode selects how a plan is chosen for each timed round.
type Mode string

const (
	// ModeRandom extracts a random equivalent plan every round.
	ModeRandom Mode = "random"

	// ModeDeterministic evaluates the cheapest plan every round.
	ModeDeterministic Mode = "deterministic"
)

//go:generate go run github.com/ecordell/optgen -output zz_generated.options.go . Config

// Config configures a benchmark run.
type Config struct {
	// Runs is the number of timed rounds per query.
	Runs int `debugmap:"visible" default:"1000" yaml:"runs"`

	// Warmup is the number of untimed rounds run before the timed ones.
	Warmup int `debugmap:"visible" default:"1000" yaml:"warmup"`

	// Mode is either random or deterministic.
	Mode Mode `debugmap:"visible" default:"random" yaml:"mode"`

	// Concurrency is the number of queries benchmarked at once.
	Concurrency int `debugmap:"visible" default:"1" yaml:"concurrency"`

	// Seed seeds plan sampling. Zero picks a random seed.
	Seed uint64 `debugmap:"visible" yaml:"seed"`

	// RuleSet names the rewrite rules, see optimizer.RuleSetByName.
	RuleSet string `debugmap:"visible" default:"full" yaml:"rules"`

	// Limits bounds the saturation of each query.
	Limits egraph.Limits `debugmap:"visible" yaml:"limits"`
}

// Validate returns an error if the configuration cannot be run.
func (c *Config) Validate() error {
	if c.Runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", c.Runs)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("warmup must not be negative, got %d", c.Warmup)
	}
	switch c.Mode {
	case ModeRandom, ModeDeterministic:
	default:
		return fmt.Errorf("unknown mode %q, expected %s or %s", c.Mode, ModeRandom, ModeDeterministic)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if _, err := optimizer.RuleSetByName(c.RuleSet); err != nil {
		return err
	}
	if c.Limits.MaxIterations < 0 || c.Limits.MaxNodes < 0 || c.Limits.TimeLimit < 0 {
		return fmt.Errorf("saturation limits must not be negative")
	}
	return nil
}

// LoadConfigFile reads YAML from path over the values already in cfg.
// Fields missing from the file keep their current values.
func LoadConfigFile(path string, cfg *Config) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read bench config: %w", err)
	}
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return fmt.Errorf("unable to parse bench config %s: %w", path, err)
	}
	return nil
}

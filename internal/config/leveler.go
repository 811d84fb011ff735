package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/verum/leveler"
)

const (
	EnvLevelerRulesFile   = "VERUM_LEVELER_RULES_FILE"
	EnvLevelerBatchLimit  = "VERUM_LEVELER_BATCH_LIMIT"
	defaultLevelerBatches = 4
)

// LevelerConfig selects the analysis rule set and bounds batch work.
// An empty RulesFile uses the embedded rules.
type LevelerConfig struct {
	RulesFile  string `toml:"rules_file"`
	BatchLimit int    `toml:"batch_limit"`
}

// Rules loads the configured rule set.
func (c *LevelerConfig) Rules() (*leveler.Rules, error) {
	if c.RulesFile == "" {
		return leveler.DefaultRules(), nil
	}
	return leveler.LoadRulesFile(c.RulesFile)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *LevelerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *LevelerConfig) Merge(overlay *LevelerConfig) {
	if overlay.RulesFile != "" {
		c.RulesFile = overlay.RulesFile
	}
	if overlay.BatchLimit != 0 {
		c.BatchLimit = overlay.BatchLimit
	}
}

func (c *LevelerConfig) loadDefaults() {
	if c.BatchLimit == 0 {
		c.BatchLimit = defaultLevelerBatches
	}
}

func (c *LevelerConfig) loadEnv() {
	if v := os.Getenv(EnvLevelerRulesFile); v != "" {
		c.RulesFile = v
	}
	if v := os.Getenv(EnvLevelerBatchLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchLimit = n
		}
	}
}

func (c *LevelerConfig) validate() error {
	if c.BatchLimit < 1 {
		return fmt.Errorf("batch_limit must be at least 1")
	}
	if _, err := c.Rules(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	return nil
}

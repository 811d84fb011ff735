package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/verum/pkg/digest"
)

const (
	EnvSealSecret = "VERUM_SEAL_SECRET"
	EnvSealSalt   = "VERUM_SEAL_SALT"
	EnvSealSeed   = "VERUM_SEAL_SEED"

	defaultSealInfo = "verum seal key"
)

// SealConfig selects the seal key source. A secret takes precedence and is
// expanded with HKDF. Without one the key is derived from the seed.
type SealConfig struct {
	Secret string `toml:"secret"`
	Salt   string `toml:"salt"`
	Info   string `toml:"info"`
	Seed   string `toml:"seed"`
}

// Keys returns the key provider the configuration selects.
func (c *SealConfig) Keys() digest.KeyProvider {
	if c.Secret != "" {
		return digest.HKDFKey([]byte(c.Secret), []byte(c.Salt), []byte(c.Info))
	}
	return digest.SeedKey(c.Seed)
}

// Source names the selected key source for logging. Key material is never included.
func (c *SealConfig) Source() string {
	if c.Secret != "" {
		return "hkdf"
	}
	if c.Seed == digest.DefaultSeed {
		return "default-seed"
	}
	return "seed"
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *SealConfig) Finalize() error {
	c.loadEnv()
	c.loadDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *SealConfig) Merge(overlay *SealConfig) {
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.Salt != "" {
		c.Salt = overlay.Salt
	}
	if overlay.Info != "" {
		c.Info = overlay.Info
	}
	if overlay.Seed != "" {
		c.Seed = overlay.Seed
	}
}

func (c *SealConfig) loadDefaults() {
	if c.Seed == "" {
		c.Seed = digest.DefaultSeed
	}
	if c.Info == "" {
		c.Info = defaultSealInfo
	}
}

func (c *SealConfig) loadEnv() {
	if v := os.Getenv(EnvSealSecret); v != "" {
		c.Secret = v
	}
	if v := os.Getenv(EnvSealSalt); v != "" {
		c.Salt = v
	}
	if v := os.Getenv(EnvSealSeed); v != "" {
		c.Seed = v
	}
}

func (c *SealConfig) validate() error {
	if _, err := c.Keys().Key(); err != nil {
		return fmt.Errorf("derive key: %w", err)
	}
	return nil
}

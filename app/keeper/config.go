package keeper

import (
	"errors"
	"time"
)

// Config represents the configuration for the keeper worker
type Config struct {
	// Interval between scans for markets whose resolution window opened.
	Interval time.Duration `env:"KEEPER_INTERVAL"`

	// KeeperID is the identity the worker resolves under. Markets created
	// with a different keeper are skipped. Empty means a fresh identity is
	// generated at startup.
	KeeperID string `env:"KEEPER_ID"`
}

// Validate validates the keeper configuration
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return errors.New("keeper interval must be positive")
	}
	return nil
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Interval: time.Second,
	}
}

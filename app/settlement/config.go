package settlement

import (
	"github.com/joefazee/flashpred/models"
)

// Config represents the configuration for the settlement module
type Config struct {
	// EnforceKeeperIdentity rejects resolve calls whose caller is not the
	// keeper recorded on the market at creation. When off, any caller may
	// resolve once the window is open.
	EnforceKeeperIdentity bool `env:"ENFORCE_KEEPER_IDENTITY"`

	// MaxDurationSecs caps how far out a market may expire.
	MaxDurationSecs int64 `env:"MAX_MARKET_DURATION_SECS"`
}

// Validate validates the settlement configuration
func (c *Config) Validate() error {
	if c.MaxDurationSecs <= 0 {
		return models.ErrInvalidWindow
	}
	return nil
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		EnforceKeeperIdentity: true,
		MaxDurationSecs:       365 * 24 * 3600,
	}
}

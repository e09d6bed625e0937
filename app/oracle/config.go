package oracle

import (
	"time"

	"github.com/joefazee/flashpred/models"
)

// Config represents the configuration for the oracle module
type Config struct {
	// StaleAfter is the maximum age of an observation before it is rejected.
	StaleAfter time.Duration `env:"ORACLE_STALE_AFTER"`
	// MaxConfidenceBps bounds the confidence interval relative to the
	// absolute price, in basis points. 500 means conf <= 5% of |price|.
	MaxConfidenceBps int64 `env:"ORACLE_MAX_CONFIDENCE_BPS"`

	// FeedBaseURL, when set, switches the feed provider from the in-process
	// map to HTTP GETs of {FeedBaseURL}/{feedID}.
	FeedBaseURL string `env:"ORACLE_FEED_BASE_URL"`
}

// Validate validates the oracle configuration
func (c *Config) Validate() error {
	if c.StaleAfter <= 0 {
		return models.ErrOracleStale
	}
	if c.MaxConfidenceBps <= 0 || c.MaxConfidenceBps > 10_000 {
		return models.ErrOracleUntrusted
	}
	return nil
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		StaleAfter:       60 * time.Second,
		MaxConfidenceBps: 500, // 5%
	}
}

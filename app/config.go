package app

import (
	"github.com/joefazee/flashpred/app/database"
	"github.com/joefazee/flashpred/app/keeper"
	"github.com/joefazee/flashpred/app/oracle"
	"github.com/joefazee/flashpred/app/settlement"
	"github.com/joefazee/flashpred/internal/nexus"
)

type Config struct {
	DB         database.Config
	Oracle     oracle.Config
	Settlement settlement.Config
	Keeper     keeper.Config

	AppHost string `env:"APP_HOST" env-default:"localhost"`
	AppPort string `env:"APP_PORT" env-default:"8080"`
	Env     string `env:"APP_ENV" env-default:"development"`

	// UseMemoryStore runs the engine without a database. Useful for local
	// development and demos; state is lost on restart.
	UseMemoryStore bool `env:"USE_MEMORY_STORE"`
}

// LoadConfig loads the application configuration from environment variables or a config file.
func LoadConfig() (*Config, error) {
	c := &Config{
		Oracle:     *oracle.GetDefaultConfig(),
		Settlement: *settlement.GetDefaultConfig(),
		Keeper:     *keeper.GetDefaultConfig(),
	}
	err := nexus.NewLoader().Load(c)
	return c, err
}

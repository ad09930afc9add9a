package cmd

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envConfig holds the environment overrides. Explicit flags win over these.
type envConfig struct {
	ConfigPath string `env:"PLASMA_SIM_CONFIG"`
	DBPath     string `env:"PLASMA_SIM_DB_PATH" envDefault:"plasma-sim.db"`
	LogLevel   string `env:"PLASMA_SIM_LOG_LEVEL" envDefault:"warn"`
}

// parseEnv loads envConfig from the process environment.
func parseEnv() (envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return envConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

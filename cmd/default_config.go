package cmd

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/plasma-sim/sim/dataset"
)

// loadConfig returns the generation config at path, or the built-in
// defaults when path is empty. The result is validated.
func loadConfig(path string) (*dataset.Config, error) {
	var cfg *dataset.Config
	if path == "" {
		def := dataset.DefaultConfig()
		cfg = &def
	} else {
		loaded, err := dataset.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		logrus.Infof("Loaded config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mustLoadConfig is loadConfig for command handlers.
func mustLoadConfig() *dataset.Config {
	cfg, err := loadConfig(configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

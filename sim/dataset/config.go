package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/plasma-sim/sim"
	"github.com/inference-sim/plasma-sim/sim/noise"
	"github.com/inference-sim/plasma-sim/sim/prior"
)

// ConfigVersion is the current config file version.
const ConfigVersion = "1"

// Config is the full generation configuration: forward model, priors and noise.
// Loaded from YAML via LoadConfig(path).
type Config struct {
	Version string          `yaml:"version"`
	Model   sim.ModelConfig `yaml:"model"`
	Prior   prior.Spec      `yaml:"prior"`
	Noise   noise.Spec      `yaml:"noise"`
}

// DefaultConfig returns the configuration the reference instance was generated with.
func DefaultConfig() Config {
	return Config{
		Version: ConfigVersion,
		Model:   sim.DefaultModelConfig(),
		Prior:   prior.DefaultSpec(),
		Noise:   noise.DefaultSpec(),
	}
}

// deprecatedDistTypes maps old distribution names to their current equivalents.
var deprecatedDistTypes = map[string]string{
	"gaussian": "normal",
}

// UpgradeConfig rewrites deprecated values in-place and fills omitted sections
// with defaults. Model fields are already defaulted by ParseConfig; a prior
// marginal or the noise section is replaced wholesale only when both its type
// and params are empty. Params without a type are kept and fail Validate.
// Idempotent. Emits logrus.Warn deprecation notices for mapped names.
func UpgradeConfig(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = ConfigVersion
	}
	defaults := prior.DefaultSpec()
	marginals := []struct {
		name string
		dst  *prior.DistSpec
		def  prior.DistSpec
	}{
		{"amplitude", &cfg.Prior.Amplitude, defaults.Amplitude},
		{"temperature", &cfg.Prior.Temperature, defaults.Temperature},
		{"velocity", &cfg.Prior.Velocity, defaults.Velocity},
		{"shift", &cfg.Prior.Shift, defaults.Shift},
	}
	for _, m := range marginals {
		if m.dst.Type == "" {
			if len(m.dst.Params) == 0 {
				*m.dst = m.def
			}
			continue
		}
		if newName, ok := deprecatedDistTypes[m.dst.Type]; ok {
			logrus.Warnf("deprecated distribution type %q for prior.%s auto-mapped to %q; update your config",
				m.dst.Type, m.name, newName)
			m.dst.Type = newName
		}
	}
	if cfg.Noise.Type == "" && len(cfg.Noise.Params) == 0 {
		cfg.Noise = noise.DefaultSpec()
	}
}

// ParseConfig decodes YAML with strict field checking: unrecognized keys (typos) are rejected.
// Omitted model fields keep their defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := Config{Model: sim.DefaultModelConfig()}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	// An empty document leaves every section at its default.
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	UpgradeConfig(&cfg)
	return &cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks that every section can be built.
func (c *Config) Validate() error {
	if c.Version != ConfigVersion {
		return fmt.Errorf("unsupported config version %q; want %q", c.Version, ConfigVersion)
	}
	if _, err := sim.NewForwardModel(c.Model); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if err := c.Prior.Validate(); err != nil {
		return err
	}
	if _, err := noise.New(c.Noise); err != nil {
		return err
	}
	return nil
}

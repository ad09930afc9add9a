package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/plasma-sim/sim"
	"github.com/inference-sim/plasma-sim/sim/noise"
	"github.com/inference-sim/plasma-sim/sim/prior"
)

func TestParseConfig_EmptyDocument_IsDefault(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultConfig(), *cfg); diff != "" {
		t.Errorf("empty config differs from defaults (-want +got):\n%s", diff)
	}
	assert.NoError(t, cfg.Validate())
}

func TestParseConfig_PartialOverride_KeepsOtherDefaults(t *testing.T) {
	// GIVEN a config that only overrides sensors, one prior and the noise family
	data := []byte(`
model:
  num_sensors: 20
prior:
  velocity:
    type: uniform
    params: {min: -1, max: 1}
noise:
  type: gaussian
  params: {sigma: 0.25}
`)

	// WHEN parsed
	cfg, err := ParseConfig(data)
	require.NoError(t, err)

	// THEN overridden fields change and the rest keep their defaults
	assert.Equal(t, 20, cfg.Model.NumSensors)
	assert.Equal(t, sim.DefaultNumBins, cfg.Model.NumBins)
	assert.Equal(t, sim.DefaultSpeedOfLight, cfg.Model.SpeedOfLight)
	assert.Equal(t, sim.GeometryChord, cfg.Model.Geometry.Type)

	// the velocity params replace the default ones rather than merging into them
	assert.Equal(t, prior.DistSpec{Type: "uniform", Params: map[string]float64{"min": -1, "max": 1}}, cfg.Prior.Velocity)
	assert.Equal(t, prior.DefaultSpec().Amplitude, cfg.Prior.Amplitude)
	assert.Equal(t, noise.Spec{Type: noise.TypeGaussian, Params: map[string]float64{"sigma": 0.25}}, cfg.Noise)
	assert.NoError(t, cfg.Validate())
}

func TestParseConfig_UnknownKey_Rejected(t *testing.T) {
	_, err := ParseConfig([]byte("model:\n  num_sensor: 20\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("noize:\n  type: gaussian\n"))
	assert.Error(t, err)
}

func TestParseConfig_DeprecatedDistributionName(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
prior:
  shift:
    type: gaussian
    params: {mean: 0, std_dev: 2}
`))
	require.NoError(t, err)

	assert.Equal(t, "normal", cfg.Prior.Shift.Type)
	assert.NoError(t, cfg.Validate())

	// idempotent
	UpgradeConfig(cfg)
	assert.Equal(t, "normal", cfg.Prior.Shift.Type)
}

func TestParseConfig_ParamsWithoutType_KeptAndRejected(t *testing.T) {
	// GIVEN noise params and a prior marginal's params without a type
	cfg, err := ParseConfig([]byte(`
noise:
  params:
    absolute: 3
    relative: 0.9
prior:
  velocity:
    params: {mean: 0, std_dev: 4}
`))
	require.NoError(t, err)

	// THEN the supplied params are not replaced by the defaults
	assert.Equal(t, noise.Spec{Params: map[string]float64{"absolute": 3, "relative": 0.9}}, cfg.Noise)
	assert.Equal(t, prior.DistSpec{Params: map[string]float64{"mean": 0, "std_dev": 4}}, cfg.Prior.Velocity)

	// AND validation names the missing type
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type is required")

	// WHEN the noise type is supplied, the user's params are used
	cfg.Noise.Type = noise.TypeHeteroscedastic
	cfg.Prior.Velocity.Type = "normal"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3.0, cfg.Noise.Params["absolute"])
}

func TestParseConfig_NonFiniteImpact_Rejected(t *testing.T) {
	for _, value := range []string{".nan", ".inf", "-.inf"} {
		t.Run(value, func(t *testing.T) {
			cfg, err := ParseConfig([]byte("model:\n  geometry: {type: chord, plasma_radius: 1, impact_min: " + value + ", impact_max: 1.25}\n"))
			require.NoError(t, err)

			// THEN the sampler refuses the config instead of drawing NaN images
			assert.Error(t, cfg.Validate())
			_, err = NewSampler(*cfg)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1\"\nmodel:\n  num_bins: 8\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Model.NumBins)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"version", "version: \"2\"\n"},
		{"geometry", "model:\n  geometry:\n    type: cone\n"},
		{"prior", "prior:\n  amplitude:\n    type: uniform\n    params: {min: 1, max: 0}\n"},
		{"noise", "noise:\n  type: gaussian\n  params: {sigma: -1}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.yaml))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

package sim

import (
	"fmt"
	"math"
)

// GridConfig describes the wavelength grid. Values, when set, overrides the
// evenly spaced Min/Max/Count form.
type GridConfig struct {
	Min    float64   `yaml:"min"`
	Max    float64   `yaml:"max"`
	Count  int       `yaml:"count"`
	Values []float64 `yaml:"values,omitempty"`
}

// Build returns the configured grid.
func (g GridConfig) Build() (WavelengthGrid, error) {
	if len(g.Values) > 0 {
		return NewWavelengthGrid(g.Values)
	}
	return LinspaceGrid(g.Min, g.Max, g.Count)
}

// ModelConfig groups the forward-model constants. None of these values are
// part of a persisted dataset; they are supplied by the calling benchmark.
type ModelConfig struct {
	NumBins        int            `yaml:"num_bins"`        // K, emission bins (shells)
	NumSensors     int            `yaml:"num_sensors"`     // S, lines of sight
	Wavelengths    GridConfig     `yaml:"wavelengths"`     // W-point grid
	SpeedOfLight   float64        `yaml:"speed_of_light"`  // c_ref in the Doppler and broadening laws
	IonMass        float64        `yaml:"ion_mass"`        // divides the broadening temperature
	ShiftScale     float64        `yaml:"shift_scale"`     // wavelength units per unit of Shift
	MinTemperature float64        `yaml:"min_temperature"` // floor added after Softplus (must be > 0)
	Geometry       GeometryConfig `yaml:"geometry"`
}

// Default model constants.
const (
	DefaultNumBins        = 16
	DefaultNumSensors     = 40
	DefaultNumWavelengths = 40
	DefaultWavelengthMin  = 0.01
	DefaultWavelengthMax  = 0.2
	DefaultSpeedOfLight   = 5.0
	DefaultIonMass        = 1.0
	DefaultShiftScale     = 0.01
	DefaultMinTemperature = 1e-6
	DefaultPlasmaRadius   = 1.0
	DefaultImpactMin      = -1.25
	DefaultImpactMax      = 1.25
)

// DefaultModelConfig returns the 16-bin, 40-sensor, 40-wavelength model the
// reference instance is defined on.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		NumBins:    DefaultNumBins,
		NumSensors: DefaultNumSensors,
		Wavelengths: GridConfig{
			Min:   DefaultWavelengthMin,
			Max:   DefaultWavelengthMax,
			Count: DefaultNumWavelengths,
		},
		SpeedOfLight:   DefaultSpeedOfLight,
		IonMass:        DefaultIonMass,
		ShiftScale:     DefaultShiftScale,
		MinTemperature: DefaultMinTemperature,
		Geometry: GeometryConfig{
			Type:         GeometryChord,
			PlasmaRadius: DefaultPlasmaRadius,
			ImpactMin:    DefaultImpactMin,
			ImpactMax:    DefaultImpactMax,
		},
	}
}

// Validate checks dimensions and physical constants. The grid and geometry
// are fully checked when NewForwardModel builds them.
func (c ModelConfig) Validate() error {
	if c.NumBins <= 0 {
		return fmt.Errorf("num_bins must be positive, got %d", c.NumBins)
	}
	if c.NumSensors <= 0 {
		return fmt.Errorf("num_sensors must be positive, got %d", c.NumSensors)
	}
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"speed_of_light", c.SpeedOfLight},
		{"ion_mass", c.IonMass},
		{"min_temperature", c.MinTemperature},
	} {
		if err := validateFinitePositive(f.name, f.val); err != nil {
			return err
		}
	}
	if err := validateFinite("shift_scale", c.ShiftScale); err != nil {
		return err
	}
	if !ValidGeometryTypes[c.Geometry.Type] {
		return fmt.Errorf("unknown geometry type %q; valid: chord, matrix, identity", c.Geometry.Type)
	}
	return nil
}

func validateFinite(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if err := validateFinite(name, val); err != nil {
		return err
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}

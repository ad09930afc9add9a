package sim

import (
	"fmt"
	"math"
)

// EmissionParameters holds the latent physical state of the plasma: one
// spectral line per bin, plus a global wavelength-calibration shift shared by
// every bin and sensor. Amplitude, Temperature and Velocity are co-indexed.
type EmissionParameters struct {
	Amplitude   []float64 // signed line strength; negative means absorption
	Temperature []float64 // unconstrained; mapped through Softplus before broadening
	Velocity    []float64 // line-of-sight velocity driving the Doppler shift
	Shift       float64   // instrumental offset, scaled by ModelConfig.ShiftScale
}

// NewEmissionParameters returns all-zero parameters for k bins.
func NewEmissionParameters(k int) EmissionParameters {
	return EmissionParameters{
		Amplitude:   make([]float64, k),
		Temperature: make([]float64, k),
		Velocity:    make([]float64, k),
	}
}

// NumBins returns K, the length of the amplitude sequence.
func (p EmissionParameters) NumBins() int { return len(p.Amplitude) }

// Validate checks that all three sequences have length k and every value is finite.
func (p EmissionParameters) Validate(k int) error {
	fields := []struct {
		name   string
		values []float64
	}{
		{"amplitude", p.Amplitude},
		{"temperature", p.Temperature},
		{"velocity", p.Velocity},
	}
	for _, f := range fields {
		if len(f.values) != k {
			return fmt.Errorf("%s has %d bins, want %d", f.name, len(f.values), k)
		}
		for i, v := range f.values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%s[%d] must be finite, got %f", f.name, i, v)
			}
		}
	}
	if math.IsNaN(p.Shift) || math.IsInf(p.Shift, 0) {
		return fmt.Errorf("shift must be finite, got %f", p.Shift)
	}
	return nil
}

// Clone returns a deep copy.
func (p EmissionParameters) Clone() EmissionParameters {
	return EmissionParameters{
		Amplitude:   append([]float64(nil), p.Amplitude...),
		Temperature: append([]float64(nil), p.Temperature...),
		Velocity:    append([]float64(nil), p.Velocity...),
		Shift:       p.Shift,
	}
}

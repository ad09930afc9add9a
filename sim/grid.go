package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WavelengthGrid is an immutable, strictly increasing sequence of wavelengths.
type WavelengthGrid struct {
	values []float64
}

// NewWavelengthGrid copies values into a grid. Values must be finite and
// strictly increasing, with at least two points.
func NewWavelengthGrid(values []float64) (WavelengthGrid, error) {
	if len(values) < 2 {
		return WavelengthGrid{}, fmt.Errorf("wavelength grid needs at least 2 points, got %d", len(values))
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return WavelengthGrid{}, fmt.Errorf("wavelength[%d] must be finite, got %f", i, v)
		}
		if i > 0 && v <= values[i-1] {
			return WavelengthGrid{}, fmt.Errorf("wavelengths must be strictly increasing: wavelength[%d]=%g <= wavelength[%d]=%g",
				i, v, i-1, values[i-1])
		}
	}
	return WavelengthGrid{values: append([]float64(nil), values...)}, nil
}

// LinspaceGrid returns n evenly spaced wavelengths over [lo, hi], endpoints included.
func LinspaceGrid(lo, hi float64, n int) (WavelengthGrid, error) {
	if n < 2 {
		return WavelengthGrid{}, fmt.Errorf("wavelength grid needs at least 2 points, got %d", n)
	}
	values := make([]float64, n)
	floats.Span(values, lo, hi)
	return NewWavelengthGrid(values)
}

// Len returns the number of wavelengths W.
func (g WavelengthGrid) Len() int { return len(g.values) }

// At returns the i-th wavelength.
func (g WavelengthGrid) At(i int) float64 { return g.values[i] }

// Values returns a copy of the wavelengths.
func (g WavelengthGrid) Values() []float64 {
	return append([]float64(nil), g.values...)
}

// Center is the arithmetic mean of the grid, the rest-frame line position.
// It is always derived, never stored.
func (g WavelengthGrid) Center() float64 {
	return stat.Mean(g.values, nil)
}

// Span returns the first and last wavelengths.
func (g WavelengthGrid) Span() (lo, hi float64) {
	return g.values[0], g.values[len(g.values)-1]
}

// Package dataset composes the prior, the forward model and the noise model
// into matched (parameters, measurements) instances, and moves those
// instances to and from their named-array representation.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/plasma-sim/sim"
)

// Names of the persisted arrays.
const (
	ArrayAmplitude        = "AMPLITUDE"
	ArrayTemperature      = "TEMPERATURE"
	ArrayVelocity         = "VELOCITY"
	ArrayShift            = "SHIFT"
	ArrayWavelengths      = "WAVELENGTHS"
	ArrayCenterWavelength = "CENTER_WAVELENGTH"
	ArrayMeasurements     = "MEASUREMENTS"
)

// ArrayNames lists every persisted array in canonical order.
var ArrayNames = []string{
	ArrayAmplitude,
	ArrayTemperature,
	ArrayVelocity,
	ArrayShift,
	ArrayWavelengths,
	ArrayCenterWavelength,
	ArrayMeasurements,
}

// CenterTolerance bounds |CENTER_WAVELENGTH - mean(WAVELENGTHS)| on load.
const CenterTolerance = 1e-9

// Array is a dense row-major array. An empty Shape is a scalar.
type Array struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// Size is the element count implied by Shape.
func (a Array) Size() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

func (a Array) check(name string, rank int) error {
	if len(a.Shape) != rank {
		return fmt.Errorf("%s: want rank %d, got shape %v", name, rank, a.Shape)
	}
	for _, d := range a.Shape {
		if d <= 0 {
			return fmt.Errorf("%s: dimensions must be positive, got shape %v", name, a.Shape)
		}
	}
	if len(a.Data) != a.Size() {
		return fmt.Errorf("%s: shape %v needs %d values, got %d", name, a.Shape, a.Size(), len(a.Data))
	}
	return nil
}

func vector(v []float64) Array {
	return Array{Shape: []int{len(v)}, Data: append([]float64(nil), v...)}
}

func scalar(v float64) Array {
	return Array{Shape: []int{}, Data: []float64{v}}
}

// Dataset is one synthetic benchmark instance: the true parameters and the
// single noisy image drawn from them. It is never mutated after construction.
type Dataset struct {
	ID           string
	Seed         sim.Seed
	Params       sim.EmissionParameters
	Wavelengths  sim.WavelengthGrid
	Measurements *mat.Dense // W×S, rows are wavelengths
}

// CenterWavelength is the arithmetic mean of the wavelength grid.
func (d *Dataset) CenterWavelength() float64 {
	return d.Wavelengths.Center()
}

// Dims returns (K, W, S).
func (d *Dataset) Dims() (bins, wavelengths, sensors int) {
	_, s := d.Measurements.Dims()
	return d.Params.NumBins(), d.Wavelengths.Len(), s
}

// Validate checks that parameters and measurements are co-dimensioned and finite.
func (d *Dataset) Validate() error {
	if _, err := uuid.Parse(d.ID); err != nil {
		return fmt.Errorf("dataset id %q: %w", d.ID, err)
	}
	k := d.Params.NumBins()
	if k == 0 {
		return fmt.Errorf("dataset %s: no emission bins", d.ID)
	}
	if err := d.Params.Validate(k); err != nil {
		return fmt.Errorf("dataset %s: %w", d.ID, err)
	}
	if d.Wavelengths.Len() < 2 {
		return fmt.Errorf("dataset %s: wavelength grid not set", d.ID)
	}
	if d.Measurements == nil {
		return fmt.Errorf("dataset %s: measurements not set", d.ID)
	}
	if r, _ := d.Measurements.Dims(); r != d.Wavelengths.Len() {
		return fmt.Errorf("dataset %s: measurements have %d rows for %d wavelengths", d.ID, r, d.Wavelengths.Len())
	}
	r, c := d.Measurements.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := d.Measurements.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("dataset %s: measurement [%d,%d] is %v", d.ID, i, j, v)
			}
		}
	}
	return nil
}

// Arrays returns the persisted representation keyed by ArrayNames.
// Every array is a fresh copy.
func (d *Dataset) Arrays() map[string]Array {
	w, s := d.Measurements.Dims()
	return map[string]Array{
		ArrayAmplitude:        vector(d.Params.Amplitude),
		ArrayTemperature:      vector(d.Params.Temperature),
		ArrayVelocity:         vector(d.Params.Velocity),
		ArrayShift:            scalar(d.Params.Shift),
		ArrayWavelengths:      vector(d.Wavelengths.Values()),
		ArrayCenterWavelength: scalar(d.CenterWavelength()),
		ArrayMeasurements: Array{
			Shape: []int{w, s},
			Data:  mat.DenseCopyOf(d.Measurements).RawMatrix().Data,
		},
	}
}

// FromArrays rebuilds a Dataset from its named arrays, checking shapes,
// co-indexing of the per-bin arrays and CENTER_WAVELENGTH = mean(WAVELENGTHS).
// The result has a fresh ID and a zero Seed; callers that know them set both.
func FromArrays(arrays map[string]Array) (*Dataset, error) {
	var unknown []string
	for name := range arrays {
		if !isArrayName(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown arrays %s; valid: %s", strings.Join(unknown, ", "), strings.Join(ArrayNames, ", "))
	}
	ranks := map[string]int{
		ArrayAmplitude: 1, ArrayTemperature: 1, ArrayVelocity: 1, ArrayShift: 0,
		ArrayWavelengths: 1, ArrayCenterWavelength: 0, ArrayMeasurements: 2,
	}
	for _, name := range ArrayNames {
		a, ok := arrays[name]
		if !ok {
			return nil, fmt.Errorf("missing array %s", name)
		}
		if err := a.check(name, ranks[name]); err != nil {
			return nil, err
		}
	}

	k := len(arrays[ArrayAmplitude].Data)
	for _, name := range []string{ArrayTemperature, ArrayVelocity} {
		if n := len(arrays[name].Data); n != k {
			return nil, fmt.Errorf("%s has %d bins but %s has %d", name, n, ArrayAmplitude, k)
		}
	}

	grid, err := sim.NewWavelengthGrid(arrays[ArrayWavelengths].Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ArrayWavelengths, err)
	}
	center := arrays[ArrayCenterWavelength].Data[0]
	if diff := math.Abs(center - grid.Center()); !(diff <= CenterTolerance) {
		return nil, fmt.Errorf("%s = %v differs from mean(%s) = %v by %g",
			ArrayCenterWavelength, center, ArrayWavelengths, grid.Center(), diff)
	}

	meas := arrays[ArrayMeasurements]
	if meas.Shape[0] != grid.Len() {
		return nil, fmt.Errorf("%s has %d rows for %d wavelengths", ArrayMeasurements, meas.Shape[0], grid.Len())
	}

	d := &Dataset{
		ID: uuid.NewString(),
		Params: sim.EmissionParameters{
			Amplitude:   append([]float64(nil), arrays[ArrayAmplitude].Data...),
			Temperature: append([]float64(nil), arrays[ArrayTemperature].Data...),
			Velocity:    append([]float64(nil), arrays[ArrayVelocity].Data...),
			Shift:       arrays[ArrayShift].Data[0],
		},
		Wavelengths:  grid,
		Measurements: mat.NewDense(meas.Shape[0], meas.Shape[1], append([]float64(nil), meas.Data...)),
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func isArrayName(name string) bool {
	for _, n := range ArrayNames {
		if n == name {
			return true
		}
	}
	return false
}

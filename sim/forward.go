package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ForwardModel maps EmissionParameters to the noise-free expected image.
// It is immutable after construction and safe for concurrent use.
type ForwardModel struct {
	cfg      ModelConfig
	grid     WavelengthGrid
	geometry *Geometry
}

// NewForwardModel builds a model from an explicit configuration record.
func NewForwardModel(cfg ModelConfig) (*ForwardModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model config: %w", err)
	}
	grid, err := cfg.Wavelengths.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid model config: wavelengths: %w", err)
	}
	// A non-positive center would make every line width non-positive.
	if lo, _ := grid.Span(); lo <= 0 {
		return nil, fmt.Errorf("invalid model config: wavelengths must be positive, got minimum %g", lo)
	}
	geometry, err := NewGeometry(cfg.Geometry, cfg.NumSensors, cfg.NumBins)
	if err != nil {
		return nil, fmt.Errorf("invalid model config: geometry: %w", err)
	}
	return &ForwardModel{cfg: cfg, grid: grid, geometry: geometry}, nil
}

// Config returns the configuration the model was built from.
func (m *ForwardModel) Config() ModelConfig { return m.cfg }

// Grid returns the wavelength grid.
func (m *ForwardModel) Grid() WavelengthGrid { return m.grid }

// Geometry returns the sensor-to-bin weighting.
func (m *ForwardModel) Geometry() *Geometry { return m.geometry }

// NumBins returns K.
func (m *ForwardModel) NumBins() int { return m.cfg.NumBins }

// NumSensors returns S.
func (m *ForwardModel) NumSensors() int { return m.cfg.NumSensors }

// NumWavelengths returns W.
func (m *ForwardModel) NumWavelengths() int { return m.grid.Len() }

// BroadeningTemperature maps a raw temperature to the strictly positive value
// that sets the line width.
func (m *ForwardModel) BroadeningTemperature(t float64) float64 {
	return Softplus(t) + m.cfg.MinTemperature
}

// Line returns the spectral line of bin k:
//
//	center = λ0 · (1 + v_k / c) + shiftScale · shift
//	width  = λ0 · sqrt(τ_k / m) / c,  τ_k = softplus(T_k) + minTemperature
//
// where λ0 is the grid center.
func (m *ForwardModel) Line(p EmissionParameters, k int) Line {
	center := m.grid.Center()
	tau := m.BroadeningTemperature(p.Temperature[k])
	return Line{
		Amplitude: p.Amplitude[k],
		Center:    center*(1+p.Velocity[k]/m.cfg.SpeedOfLight) + m.cfg.ShiftScale*p.Shift,
		Width:     center * math.Sqrt(tau/m.cfg.IonMass) / m.cfg.SpeedOfLight,
	}
}

// BinSpectra returns the K×W matrix whose row k is bin k's line sampled on the grid.
func (m *ForwardModel) BinSpectra(p EmissionParameters) (*mat.Dense, error) {
	if err := p.Validate(m.cfg.NumBins); err != nil {
		return nil, fmt.Errorf("emission parameters: %w", err)
	}
	spectra := mat.NewDense(m.cfg.NumBins, m.grid.Len(), nil)
	for k := 0; k < m.cfg.NumBins; k++ {
		m.Line(p, k).Sample(spectra.RawRowView(k), m.grid)
	}
	return spectra, nil
}

// Expected returns the W×S noise-free image E[w, s] = Σ_k G[s, k] · line_k(λ_w).
// Rows are wavelengths, columns are sensors.
func (m *ForwardModel) Expected(p EmissionParameters) (*mat.Dense, error) {
	spectra, err := m.BinSpectra(p)
	if err != nil {
		return nil, err
	}
	img := mat.NewDense(m.grid.Len(), m.cfg.NumSensors, nil)
	img.Mul(spectra.T(), m.geometry.weights.T())
	return img, nil
}

package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Geometry types accepted in GeometryConfig.Type.
const (
	GeometryChord    = "chord"
	GeometryMatrix   = "matrix"
	GeometryIdentity = "identity"
)

// ValidGeometryTypes is the set of recognized geometry names.
var ValidGeometryTypes = map[string]bool{"": true, GeometryChord: true, GeometryMatrix: true, GeometryIdentity: true}

// GeometryConfig selects the sensor-to-bin weighting. An empty Type means chord.
type GeometryConfig struct {
	Type         string      `yaml:"type"`
	PlasmaRadius float64     `yaml:"plasma_radius,omitempty"`
	ImpactMin    float64     `yaml:"impact_min,omitempty"`
	ImpactMax    float64     `yaml:"impact_max,omitempty"`
	Weights      [][]float64 `yaml:"weights,omitempty"` // S rows of K weights, for type "matrix"
}

// Geometry is the fixed linear map from bin emission to sensor intensity:
// sensor s sees Σ_k Weight(s, k) · line_k.
type Geometry struct {
	weights *mat.Dense // S×K
}

// NewGeometry builds the weighting described by cfg for the given dimensions.
func NewGeometry(cfg GeometryConfig, numSensors, numBins int) (*Geometry, error) {
	if numSensors <= 0 || numBins <= 0 {
		return nil, fmt.Errorf("geometry dimensions must be positive, got %d sensors × %d bins", numSensors, numBins)
	}
	switch cfg.Type {
	case "", GeometryChord:
		return ChordGeometry(numSensors, numBins, cfg.PlasmaRadius, cfg.ImpactMin, cfg.ImpactMax)
	case GeometryMatrix:
		return MatrixGeometry(cfg.Weights, numSensors, numBins)
	case GeometryIdentity:
		if numSensors != numBins {
			return nil, fmt.Errorf("identity geometry needs num_sensors == num_bins, got %d and %d", numSensors, numBins)
		}
		w := mat.NewDense(numSensors, numBins, nil)
		for i := 0; i < numSensors; i++ {
			w.Set(i, i, 1)
		}
		return &Geometry{weights: w}, nil
	default:
		return nil, fmt.Errorf("unknown geometry type %q; valid: chord, matrix, identity", cfg.Type)
	}
}

// ChordGeometry models a cylindrical plasma of the given radius split into
// numBins concentric shells of equal thickness, viewed by numSensors parallel
// lines of sight whose impact parameters are evenly spaced over
// [impactMin, impactMax]. The weight of shell k for sensor s is the length of
// the chord of sensor s inside that shell; sensors with |p| >= radius see nothing.
func ChordGeometry(numSensors, numBins int, radius, impactMin, impactMax float64) (*Geometry, error) {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("plasma_radius must be a finite positive number, got %f", radius)
	}
	if err := validateFinite("impact_min", impactMin); err != nil {
		return nil, err
	}
	if err := validateFinite("impact_max", impactMax); err != nil {
		return nil, err
	}
	if impactMin > impactMax {
		return nil, fmt.Errorf("impact_min (%g) must not exceed impact_max (%g)", impactMin, impactMax)
	}
	impacts := make([]float64, numSensors)
	if numSensors == 1 {
		impacts[0] = (impactMin + impactMax) / 2
	} else {
		floats.Span(impacts, impactMin, impactMax)
	}

	w := mat.NewDense(numSensors, numBins, nil)
	for s, p := range impacts {
		inner := 0.0
		for k := 0; k < numBins; k++ {
			r := radius * float64(k+1) / float64(numBins)
			outer := halfChord(r, p)
			w.Set(s, k, 2*(outer-inner))
			inner = outer
		}
	}
	return &Geometry{weights: w}, nil
}

// MatrixGeometry wraps explicit weights supplied by the caller.
func MatrixGeometry(weights [][]float64, numSensors, numBins int) (*Geometry, error) {
	if len(weights) != numSensors {
		return nil, fmt.Errorf("geometry weights have %d rows, want %d (one per sensor)", len(weights), numSensors)
	}
	w := mat.NewDense(numSensors, numBins, nil)
	for s, row := range weights {
		if len(row) != numBins {
			return nil, fmt.Errorf("geometry weights row %d has %d columns, want %d (one per bin)", s, len(row), numBins)
		}
		for k, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("geometry weight [%d][%d] must be finite, got %f", s, k, v)
			}
		}
		w.SetRow(s, row)
	}
	return &Geometry{weights: w}, nil
}

// halfChord is the half-length of a line with impact parameter p inside a circle of radius r.
func halfChord(r, p float64) float64 {
	d := r*r - p*p
	if d <= 0 {
		return 0
	}
	return math.Sqrt(d)
}

// Dims returns the number of sensors and bins.
func (g *Geometry) Dims() (sensors, bins int) {
	return g.weights.Dims()
}

// Weight returns the contribution of bin k to sensor s.
func (g *Geometry) Weight(s, k int) float64 {
	return g.weights.At(s, k)
}

// Matrix returns a copy of the S×K weights.
func (g *Geometry) Matrix() *mat.Dense {
	return mat.DenseCopyOf(g.weights)
}

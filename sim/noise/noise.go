// Package noise draws noisy measurements from an expected image.
//
// Noise is expressed as pure functions of (model, image, seed): there is no
// generator state outside a single Apply call.
package noise

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/inference-sim/plasma-sim/sim"
)

// Noise families accepted in Spec.Type.
const (
	TypeHeteroscedastic = "heteroscedastic"
	TypeGaussian        = "gaussian"
)

// Spec selects a noise family and its parameters.
type Spec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// DefaultSpec is intensity-dependent Gaussian noise with a 0.5 floor and 10% relative term.
func DefaultSpec() Spec {
	return Spec{
		Type:   TypeHeteroscedastic,
		Params: map[string]float64{"absolute": 0.5, "relative": 0.1},
	}
}

// Model gives the standard deviation of the measurement at one pixel.
type Model interface {
	// StdDev returns the noise standard deviation for an expected intensity. Always > 0.
	StdDev(expected float64) float64
}

// Gaussian is additive noise with a constant standard deviation.
type Gaussian struct {
	Sigma float64
}

func (g Gaussian) StdDev(float64) float64 { return g.Sigma }

// Heteroscedastic noise grows with intensity:
//
//	sd(E) = sqrt(Absolute² + (Relative · E)²)
type Heteroscedastic struct {
	Absolute float64
	Relative float64
}

func (h Heteroscedastic) StdDev(expected float64) float64 {
	return math.Hypot(h.Absolute, h.Relative*expected)
}

// New builds the Model described by spec.
func New(spec Spec) (Model, error) {
	for name, val := range spec.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("noise.params.%s must be a finite number, got %f", name, val)
		}
	}
	switch spec.Type {
	case "":
		return nil, fmt.Errorf("noise.type is required when params are set")
	case TypeHeteroscedastic:
		abs, okAbs := spec.Params["absolute"]
		rel, okRel := spec.Params["relative"]
		if !okAbs || !okRel {
			return nil, fmt.Errorf("noise: heteroscedastic requires parameters \"absolute\" and \"relative\"")
		}
		if abs <= 0 {
			return nil, fmt.Errorf("noise: absolute must be positive, got %f", abs)
		}
		if rel < 0 {
			return nil, fmt.Errorf("noise: relative must be non-negative, got %f", rel)
		}
		return Heteroscedastic{Absolute: abs, Relative: rel}, nil
	case TypeGaussian:
		sigma, ok := spec.Params["sigma"]
		if !ok {
			return nil, fmt.Errorf("noise: gaussian requires parameter \"sigma\"")
		}
		if sigma <= 0 {
			return nil, fmt.Errorf("noise: sigma must be positive, got %f", sigma)
		}
		return Gaussian{Sigma: sigma}, nil
	default:
		return nil, fmt.Errorf("noise: unknown type %q; valid: heteroscedastic, gaussian", spec.Type)
	}
}

// StdDevs returns the per-pixel standard deviations for expected.
func StdDevs(model Model, expected mat.Matrix) *mat.Dense {
	r, c := expected.Dims()
	sd := mat.NewDense(r, c, nil)
	sd.Apply(func(i, j int, _ float64) float64 {
		return model.StdDev(expected.At(i, j))
	}, sd)
	return sd
}

// Apply draws measurements[w, s] ~ Normal(expected[w, s], sd(expected[w, s])).
// Standard-normal draws are consumed in row-major order from a generator
// seeded with seed, so the same inputs always give the same measurements.
func Apply(model Model, expected mat.Matrix, seed sim.Seed) *mat.Dense {
	out := mat.DenseCopyOf(expected)
	raw := out.RawMatrix().Data

	unit := distuv.Normal{Mu: 0, Sigma: 1, Src: seed.NewRand()}
	draws := make([]float64, len(raw))
	for i := range draws {
		draws[i] = unit.Rand()
	}
	vecmath.MulBlockInPlace(draws, StdDevs(model, expected).RawMatrix().Data)
	floats.Add(raw, draws)
	return out
}

// LogProb is the log-likelihood of measurements given expected under model.
func LogProb(model Model, expected, measurements mat.Matrix) (float64, error) {
	er, ec := expected.Dims()
	mr, mc := measurements.Dims()
	if er != mr || ec != mc {
		return 0, fmt.Errorf("noise: expected is %d×%d but measurements are %d×%d", er, ec, mr, mc)
	}
	lp := 0.0
	for i := 0; i < er; i++ {
		for j := 0; j < ec; j++ {
			e := expected.At(i, j)
			lp += distuv.Normal{Mu: e, Sigma: model.StdDev(e)}.LogProb(measurements.At(i, j))
		}
	}
	return lp, nil
}

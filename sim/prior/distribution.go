package prior

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws one marginal prior and scores values under it.
type Sampler interface {
	// Sample draws a value using src. The same src state always yields the same value.
	Sample(src rand.Source) float64
	// LogProb returns the log density at x (-Inf outside the support).
	LogProb(x float64) float64
}

// DistSpec parameterizes a marginal prior distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// Normal returns the DistSpec of a Normal(mean, stdDev) prior.
func Normal(mean, stdDev float64) DistSpec {
	return DistSpec{Type: "normal", Params: map[string]float64{"mean": mean, "std_dev": stdDev}}
}

// validDistTypes is the set of recognized distribution names.
var validDistTypes = map[string]bool{
	"normal": true, "uniform": true, "laplace": true, "students_t": true, "constant": true,
}

// NormalSampler draws from a Gaussian.
type NormalSampler struct {
	mean, stdDev float64
}

func (s *NormalSampler) Sample(src rand.Source) float64 {
	return distuv.Normal{Mu: s.mean, Sigma: s.stdDev, Src: src}.Rand()
}

func (s *NormalSampler) LogProb(x float64) float64 {
	return distuv.Normal{Mu: s.mean, Sigma: s.stdDev}.LogProb(x)
}

// UniformSampler draws uniformly from [min, max).
type UniformSampler struct {
	min, max float64
}

func (s *UniformSampler) Sample(src rand.Source) float64 {
	return distuv.Uniform{Min: s.min, Max: s.max, Src: src}.Rand()
}

func (s *UniformSampler) LogProb(x float64) float64 {
	return distuv.Uniform{Min: s.min, Max: s.max}.LogProb(x)
}

// LaplaceSampler draws from a double-exponential centered on mean.
type LaplaceSampler struct {
	mean, scale float64
}

func (s *LaplaceSampler) Sample(src rand.Source) float64 {
	return distuv.Laplace{Mu: s.mean, Scale: s.scale, Src: src}.Rand()
}

func (s *LaplaceSampler) LogProb(x float64) float64 {
	return distuv.Laplace{Mu: s.mean, Scale: s.scale}.LogProb(x)
}

// StudentsTSampler draws from a location-scale Student's t, a heavy-tailed
// alternative to NormalSampler.
type StudentsTSampler struct {
	mean, scale, dof float64
}

func (s *StudentsTSampler) Sample(src rand.Source) float64 {
	return distuv.StudentsT{Mu: s.mean, Sigma: s.scale, Nu: s.dof, Src: src}.Rand()
}

func (s *StudentsTSampler) LogProb(x float64) float64 {
	return distuv.StudentsT{Mu: s.mean, Sigma: s.scale, Nu: s.dof}.LogProb(x)
}

// ConstantSampler always returns the same fixed value. It consumes no randomness.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ rand.Source) float64 {
	return s.value
}

func (s *ConstantSampler) LogProb(x float64) float64 {
	if x == s.value {
		return 0
	}
	return math.Inf(-1)
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// NewSampler creates a Sampler from a DistSpec.
func NewSampler(spec DistSpec) (Sampler, error) {
	if spec.Type == "" {
		return nil, fmt.Errorf("type is required when params are set")
	}
	if !validDistTypes[spec.Type] {
		return nil, fmt.Errorf("unknown distribution type %q; valid: normal, uniform, laplace, students_t, constant", spec.Type)
	}
	for name, val := range spec.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("params.%s must be a finite number, got %f", name, val)
		}
	}
	switch spec.Type {
	case "normal":
		if err := requireParam(spec.Params, "mean", "std_dev"); err != nil {
			return nil, err
		}
		if spec.Params["std_dev"] <= 0 {
			return nil, fmt.Errorf("std_dev must be positive, got %f", spec.Params["std_dev"])
		}
		return &NormalSampler{mean: spec.Params["mean"], stdDev: spec.Params["std_dev"]}, nil

	case "uniform":
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		if spec.Params["min"] >= spec.Params["max"] {
			return nil, fmt.Errorf("min (%g) must be less than max (%g)", spec.Params["min"], spec.Params["max"])
		}
		return &UniformSampler{min: spec.Params["min"], max: spec.Params["max"]}, nil

	case "laplace":
		if err := requireParam(spec.Params, "mean", "scale"); err != nil {
			return nil, err
		}
		if spec.Params["scale"] <= 0 {
			return nil, fmt.Errorf("scale must be positive, got %f", spec.Params["scale"])
		}
		return &LaplaceSampler{mean: spec.Params["mean"], scale: spec.Params["scale"]}, nil

	case "students_t":
		if err := requireParam(spec.Params, "mean", "scale", "dof"); err != nil {
			return nil, err
		}
		if spec.Params["scale"] <= 0 || spec.Params["dof"] <= 0 {
			return nil, fmt.Errorf("scale and dof must be positive, got %f and %f", spec.Params["scale"], spec.Params["dof"])
		}
		return &StudentsTSampler{mean: spec.Params["mean"], scale: spec.Params["scale"], dof: spec.Params["dof"]}, nil

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		return &ConstantSampler{value: spec.Params["value"]}, nil

	default:
		return nil, fmt.Errorf("distribution type %q has no sampler", spec.Type)
	}
}

// Package prior draws EmissionParameters from fixed marginal priors.
package prior

import (
	"fmt"
	"math/rand/v2"

	"github.com/inference-sim/plasma-sim/sim"
)

// Spec names one marginal per parameter family. Every bin of a family shares
// the same marginal; draws are independent.
type Spec struct {
	Amplitude   DistSpec `yaml:"amplitude"`
	Temperature DistSpec `yaml:"temperature"`
	Velocity    DistSpec `yaml:"velocity"`
	Shift       DistSpec `yaml:"shift"`
}

// DefaultSpec puts a standard normal on every parameter.
func DefaultSpec() Spec {
	return Spec{
		Amplitude:   Normal(0, 1),
		Temperature: Normal(0, 1),
		Velocity:    Normal(0, 1),
		Shift:       Normal(0, 1),
	}
}

// Validate checks that every marginal can be built.
func (s Spec) Validate() error {
	_, err := New(s)
	return err
}

// Prior is a built Spec.
type Prior struct {
	amplitude   Sampler
	temperature Sampler
	velocity    Sampler
	shift       Sampler
}

// New builds the samplers described by spec.
func New(spec Spec) (*Prior, error) {
	var p Prior
	fields := []struct {
		name string
		spec DistSpec
		dst  *Sampler
	}{
		{"amplitude", spec.Amplitude, &p.amplitude},
		{"temperature", spec.Temperature, &p.temperature},
		{"velocity", spec.Velocity, &p.velocity},
		{"shift", spec.Shift, &p.shift},
	}
	for _, f := range fields {
		s, err := NewSampler(f.spec)
		if err != nil {
			return nil, fmt.Errorf("prior.%s: %w", f.name, err)
		}
		*f.dst = s
	}
	return &p, nil
}

// Draw samples parameters for k bins. Draw order is fixed: all amplitudes,
// then all temperatures, then all velocities, then the shift.
func (p *Prior) Draw(src rand.Source, k int) sim.EmissionParameters {
	params := sim.NewEmissionParameters(k)
	for i := range params.Amplitude {
		params.Amplitude[i] = p.amplitude.Sample(src)
	}
	for i := range params.Temperature {
		params.Temperature[i] = p.temperature.Sample(src)
	}
	for i := range params.Velocity {
		params.Velocity[i] = p.velocity.Sample(src)
	}
	params.Shift = p.shift.Sample(src)
	return params
}

// LogProb returns the joint prior log density of params.
func (p *Prior) LogProb(params sim.EmissionParameters) float64 {
	lp := p.shift.LogProb(params.Shift)
	for _, v := range params.Amplitude {
		lp += p.amplitude.LogProb(v)
	}
	for _, v := range params.Temperature {
		lp += p.temperature.LogProb(v)
	}
	for _, v := range params.Velocity {
		lp += p.velocity.LogProb(v)
	}
	return lp
}

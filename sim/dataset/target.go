package dataset

import (
	"fmt"
	"math"

	"github.com/inference-sim/plasma-sim/sim"
	"github.com/inference-sim/plasma-sim/sim/noise"
	"github.com/inference-sim/plasma-sim/sim/prior"
)

// Target is the unnormalized posterior of one dataset: the prior log density
// of a parameter set plus the noise log-likelihood of the stored measurements.
type Target struct {
	data  *Dataset
	model *sim.ForwardModel
	prior *prior.Prior
	noise noise.Model
}

// NewTarget binds cfg to d. The forward model is evaluated on d's own
// wavelength grid; cfg must agree with d on K and S.
func NewTarget(cfg Config, d *Dataset) (*Target, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	bins, _, sensors := d.Dims()
	if cfg.Model.NumBins != bins {
		return nil, fmt.Errorf("target: config has %d bins, dataset %s has %d", cfg.Model.NumBins, d.ID, bins)
	}
	if cfg.Model.NumSensors != sensors {
		return nil, fmt.Errorf("target: config has %d sensors, dataset %s has %d", cfg.Model.NumSensors, d.ID, sensors)
	}
	cfg.Model.Wavelengths = sim.GridConfig{Values: d.Wavelengths.Values()}

	model, err := sim.NewForwardModel(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	p, err := prior.New(cfg.Prior)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	nm, err := noise.New(cfg.Noise)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	return &Target{data: d, model: model, prior: p, noise: nm}, nil
}

// Dataset returns the bound dataset.
func (t *Target) Dataset() *Dataset { return t.data }

// Model returns the forward model evaluated on the dataset's grid.
func (t *Target) Model() *sim.ForwardModel { return t.model }

// LogPrior is the joint prior log density of p.
func (t *Target) LogPrior(p sim.EmissionParameters) float64 {
	return t.prior.LogProb(p)
}

// LogLikelihood is the noise log-likelihood of the stored measurements given p.
func (t *Target) LogLikelihood(p sim.EmissionParameters) (float64, error) {
	expected, err := t.model.Expected(p)
	if err != nil {
		return 0, err
	}
	return noise.LogProb(t.noise, expected, t.data.Measurements)
}

// UnnormalizedLogProb is LogPrior + LogLikelihood. Parameters outside the
// prior's support return -Inf without evaluating the forward model.
func (t *Target) UnnormalizedLogProb(p sim.EmissionParameters) (float64, error) {
	if err := p.Validate(t.model.NumBins()); err != nil {
		return 0, fmt.Errorf("emission parameters: %w", err)
	}
	lp := t.LogPrior(p)
	if math.IsInf(lp, -1) {
		return lp, nil
	}
	ll, err := t.LogLikelihood(p)
	if err != nil {
		return 0, err
	}
	return lp + ll, nil
}

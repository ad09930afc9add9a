package dataset

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/plasma-sim/sim"
	"github.com/inference-sim/plasma-sim/sim/noise"
	"github.com/inference-sim/plasma-sim/sim/prior"
	"github.com/inference-sim/plasma-sim/sim/trace"
)

// Sampler draws synthetic instances: prior → forward model → noise.
// It holds no random state; every draw is a function of the seed passed in.
type Sampler struct {
	cfg   Config
	model *sim.ForwardModel
	prior *prior.Prior
	noise noise.Model
}

// NewSampler builds every stage of cfg. All validation happens here, so
// Generate has no error path.
func NewSampler(cfg Config) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := sim.NewForwardModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	p, err := prior.New(cfg.Prior)
	if err != nil {
		return nil, err
	}
	nm, err := noise.New(cfg.Noise)
	if err != nil {
		return nil, err
	}
	return &Sampler{cfg: cfg, model: model, prior: p, noise: nm}, nil
}

// Config returns the configuration the sampler was built from.
func (s *Sampler) Config() Config { return s.cfg }

// Model returns the forward model.
func (s *Sampler) Model() *sim.ForwardModel { return s.model }

// Noise returns the noise model.
func (s *Sampler) Noise() noise.Model { return s.noise }

// Generate draws one instance. The same seed and configuration always give
// bit-identical parameters and measurements.
func (s *Sampler) Generate(seed sim.Seed) *Dataset {
	return s.GenerateTraced(seed, nil)
}

// GenerateTraced is Generate that also records every stage into gt when
// gt is enabled. A nil gt records nothing.
func (s *Sampler) GenerateTraced(seed sim.Seed, gt *trace.GenerationTrace) *Dataset {
	rng := sim.NewPartitionedRNG(seed)

	params := s.prior.Draw(rng.ForSubsystem(sim.SubsystemPrior), s.model.NumBins())
	expected, err := s.model.Expected(params)
	if err != nil {
		// Draw always yields NumBins finite values, which Expected accepts.
		panic(fmt.Sprintf("sampler: forward model rejected prior draw: %v", err))
	}
	measurements := noise.Apply(s.noise, expected, rng.SeedFor(sim.SubsystemNoise))

	logrus.Debugf("generated seed=%s shift=%.6f expected max=%.4f", seed, params.Shift, mat.Max(expected))

	if gt.Enabled() {
		gt.Seed = seed.String()
		gt.RecordParameters(trace.ParameterRecord{Family: trace.FamilyAmplitude, Values: append([]float64(nil), params.Amplitude...)})
		gt.RecordParameters(trace.ParameterRecord{Family: trace.FamilyTemperature, Values: append([]float64(nil), params.Temperature...)})
		gt.RecordParameters(trace.ParameterRecord{Family: trace.FamilyVelocity, Values: append([]float64(nil), params.Velocity...)})
		gt.RecordParameters(trace.ParameterRecord{Family: trace.FamilyShift, Values: []float64{params.Shift}})
		gt.RecordImage(imageRecord(trace.StageExpected, expected))
		gt.RecordImage(imageRecord(trace.StageMeasurements, measurements))
	}

	return &Dataset{
		ID:           uuid.NewString(),
		Seed:         seed,
		Params:       params,
		Wavelengths:  s.model.Grid(),
		Measurements: measurements,
	}
}

func imageRecord(stage string, m *mat.Dense) trace.ImageRecord {
	r, c := m.Dims()
	return trace.ImageRecord{
		Stage: stage,
		Rows:  r,
		Cols:  c,
		Data:  mat.DenseCopyOf(m).RawMatrix().Data,
	}
}

// Package sim provides the plasma-spectroscopy forward model.
//
// # Reading Guide
//
// Start with these files to understand the model:
//   - grid.go: WavelengthGrid and its derived center wavelength
//   - params.go: EmissionParameters (per-bin amplitude, temperature, velocity plus a global shift)
//   - geometry.go: the fixed sensor-to-bin weighting (line-of-sight chords through plasma shells)
//   - forward.go: ForwardModel, which turns parameters into a noise-free W×S image
//
// # Architecture
//
// The sim package holds the deterministic model and its configuration; the
// stochastic parts live in sub-packages:
//   - sim/prior/: marginal prior distributions for the emission parameters
//   - sim/noise/: measurement noise, expressed as pure functions of (image, seed)
//   - sim/dataset/: the Sampler that composes prior → forward model → noise, and the persisted Dataset
//   - sim/reference/: the frozen reference instance shipped with the benchmark
//   - sim/store/: SQLite persistence of generated datasets
//   - sim/render/: PNG and HTML renderings of measurement images
//   - sim/trace/: per-stage generation records
//
// There is no registry of models: callers build a ForwardModel explicitly
// from a ModelConfig via NewForwardModel.
package sim

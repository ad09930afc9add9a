// Package trace records the intermediate stages of a dataset generation run.
// This package has no dependencies on sim/ or its sub-packages; it stores pure data types.
package trace

// Parameter families recorded in ParameterRecord.Family.
const (
	FamilyAmplitude   = "amplitude"
	FamilyTemperature = "temperature"
	FamilyVelocity    = "velocity"
	FamilyShift       = "shift"
)

// Image stages recorded in ImageRecord.Stage.
const (
	StageExpected     = "expected"
	StageMeasurements = "measurements"
)

// ParameterRecord captures the prior draw of one parameter family.
type ParameterRecord struct {
	Family string
	Values []float64
}

// ImageRecord captures one W×S image in row-major order.
type ImageRecord struct {
	Stage string
	Rows  int
	Cols  int
	Data  []float64
}

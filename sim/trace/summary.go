package trace

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats describes the spread of one recorded vector.
type Stats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// TraceSummary aggregates statistics from a GenerationTrace.
type TraceSummary struct {
	Parameters map[string]Stats // family → stats of the drawn values
	Images     map[string]Stats // stage → stats of the pixels
	NonFinite  int              // non-finite values across every record

	// ResidualRMS is the RMS of measurements − expected. Zero unless both stages were recorded.
	ResidualRMS float64
	// SNR is RMS(expected) / ResidualRMS. Zero when the residual is zero.
	SNR float64
}

// Summarize computes aggregate statistics from a GenerationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(gt *GenerationTrace) *TraceSummary {
	summary := &TraceSummary{
		Parameters: make(map[string]Stats),
		Images:     make(map[string]Stats),
	}
	if gt == nil {
		return summary
	}

	for _, r := range gt.Parameters {
		summary.Parameters[r.Family] = describe(r.Values)
		summary.NonFinite += countNonFinite(r.Values)
	}
	for _, r := range gt.Images {
		summary.Images[r.Stage] = describe(r.Data)
		summary.NonFinite += countNonFinite(r.Data)
	}

	expected, okE := gt.Image(StageExpected)
	measured, okM := gt.Image(StageMeasurements)
	if okE && okM && len(expected.Data) == len(measured.Data) && len(expected.Data) > 0 {
		residual := make([]float64, len(measured.Data))
		floats.SubTo(residual, measured.Data, expected.Data)
		summary.ResidualRMS = rms(residual)
		if summary.ResidualRMS > 0 {
			summary.SNR = rms(expected.Data) / summary.ResidualRMS
		}
	}

	return summary
}

func describe(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	return Stats{
		Count:  len(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   mean,
		StdDev: std,
	}
}

func rms(values []float64) float64 {
	return floats.Norm(values, 2) / math.Sqrt(float64(len(values)))
}

func countNonFinite(values []float64) int {
	n := 0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			n++
		}
	}
	return n
}

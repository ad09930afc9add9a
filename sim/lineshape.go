package sim

import "math"

var sqrt2Pi = math.Sqrt(2 * math.Pi)

// Softplus is log(1 + exp(x)), evaluated without overflow. It maps any real
// temperature to a positive broadening temperature and is smooth everywhere.
func Softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}

// Line is a single bin's spectral line: a unit-area Gaussian profile scaled by Amplitude.
type Line struct {
	Amplitude float64
	Center    float64 // Doppler-shifted line position
	Width     float64 // thermal standard deviation, always > 0
}

// At evaluates the line intensity at wavelength lambda.
func (l Line) At(lambda float64) float64 {
	z := (lambda - l.Center) / l.Width
	return l.Amplitude * math.Exp(-0.5*z*z) / (l.Width * sqrt2Pi)
}

// Peak is the intensity at the line center.
func (l Line) Peak() float64 {
	return l.Amplitude / (l.Width * sqrt2Pi)
}

// Sample writes the line evaluated at every grid wavelength into dst, which
// must have length grid.Len().
func (l Line) Sample(dst []float64, grid WavelengthGrid) {
	if len(dst) != grid.Len() {
		panic("sim: line sample length mismatch")
	}
	for i, lambda := range grid.values {
		dst[i] = l.At(lambda)
	}
}

// Package testutil provides shared test infrastructure for the plasma
// simulator. It holds the forward-model golden dataset and assertion
// helpers used across sim/ and its sub-packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// ForwardGolden represents the structure of testdata/forward_golden.json:
// the noise-free image of the reference parameters under the default model,
// computed independently of this module.
type ForwardGolden struct {
	Description      string      `json:"description"`
	NumBins          int         `json:"num_bins"`
	NumSensors       int         `json:"num_sensors"`
	Amplitude        []float64   `json:"amplitude"`
	Temperature      []float64   `json:"temperature"`
	Velocity         []float64   `json:"velocity"`
	Shift            float64     `json:"shift"`
	Wavelengths      []float64   `json:"wavelengths"`
	CenterWavelength float64     `json:"center_wavelength"`
	GeometryRowSums  []float64   `json:"geometry_row_sums"` // Σ_k G[s, k] per sensor
	Expected         [][]float64 `json:"expected"`          // W rows of S values
}

// ExpectedMatrix returns Expected as a W×S matrix.
func (g *ForwardGolden) ExpectedMatrix() *mat.Dense {
	m := mat.NewDense(len(g.Expected), len(g.Expected[0]), nil)
	for i, row := range g.Expected {
		m.SetRow(i, row)
	}
	return m
}

// RepoPath resolves a path relative to the repository root.
// The path is resolved relative to this source file: sim/internal/testutil/ → repo root.
func RepoPath(t *testing.T, elem ...string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	parts := append([]string{filepath.Dir(thisFile), "..", "..", ".."}, elem...)
	return filepath.Join(parts...)
}

// LoadForwardGolden loads the forward golden dataset from the testdata directory.
func LoadForwardGolden(t *testing.T) *ForwardGolden {
	t.Helper()

	data, err := os.ReadFile(RepoPath(t, "testdata", "forward_golden.json"))
	if err != nil {
		t.Fatalf("Failed to read forward golden dataset: %v", err)
	}

	var golden ForwardGolden
	if err := json.Unmarshal(data, &golden); err != nil {
		t.Fatalf("Failed to parse forward golden dataset: %v", err)
	}

	return &golden
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertMatrixNear compares two matrices elementwise with an absolute
// tolerance, reporting at most the first few mismatches.
func AssertMatrixNear(t *testing.T, name string, want, got mat.Matrix, absTol float64) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	if wr != gr || wc != gc {
		t.Fatalf("%s: got %d×%d, want %d×%d", name, gr, gc, wr, wc)
	}
	reported := 0
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			w, g := want.At(i, j), got.At(i, j)
			if math.Abs(w-g) <= absTol {
				continue
			}
			if reported < 5 {
				t.Errorf("%s[%d,%d]: got %v, want %v (diff=%v)", name, i, j, g, w, math.Abs(w-g))
			}
			reported++
		}
	}
	if reported > 5 {
		t.Errorf("%s: %d elements differ in total", name, reported)
	}
}

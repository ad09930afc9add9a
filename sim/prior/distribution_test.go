package prior

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func drawN(t *testing.T, spec DistSpec, n int) []float64 {
	t.Helper()
	s, err := NewSampler(spec)
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(42, 0))
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Sample(rng)
	}
	return out
}

func TestNormalSampler_MomentsMatchParams(t *testing.T) {
	xs := drawN(t, Normal(2, 0.5), 20000)
	mean, std := stat.MeanStdDev(xs, nil)
	if math.Abs(mean-2) > 0.02 {
		t.Errorf("normal mean = %.4f, want ≈ 2", mean)
	}
	if math.Abs(std-0.5)/0.5 > 0.05 {
		t.Errorf("normal std = %.4f, want ≈ 0.5 (within 5%%)", std)
	}
}

func TestUniformSampler_WithinBounds(t *testing.T) {
	xs := drawN(t, DistSpec{Type: "uniform", Params: map[string]float64{"min": -1, "max": 3}}, 10000)
	for i, x := range xs {
		if x < -1 || x >= 3 {
			t.Fatalf("sample %d: %g outside [-1, 3)", i, x)
		}
	}
	assert.InDelta(t, 1.0, stat.Mean(xs, nil), 0.05)
}

func TestLaplaceSampler_MeanMatchesParam(t *testing.T) {
	xs := drawN(t, DistSpec{Type: "laplace", Params: map[string]float64{"mean": -1, "scale": 0.3}}, 20000)
	assert.InDelta(t, -1.0, stat.Mean(xs, nil), 0.02)
}

func TestStudentsTSampler_CenteredOnMean(t *testing.T) {
	xs := drawN(t, DistSpec{Type: "students_t", Params: map[string]float64{"mean": 0.5, "scale": 1, "dof": 5}}, 20000)
	assert.InDelta(t, 0.5, stat.Quantile(0.5, stat.Empirical, sortedCopy(xs), nil), 0.05)
}

func TestConstantSampler_IgnoresSource(t *testing.T) {
	s, err := NewSampler(DistSpec{Type: "constant", Params: map[string]float64{"value": 1.25}})
	require.NoError(t, err)
	assert.Equal(t, 1.25, s.Sample(nil))
	assert.Equal(t, 0.0, s.LogProb(1.25))
	assert.True(t, math.IsInf(s.LogProb(1), -1))
}

func TestSampler_SameSourceStateSameValue(t *testing.T) {
	for _, spec := range []DistSpec{
		Normal(0, 1),
		{Type: "uniform", Params: map[string]float64{"min": 0, "max": 1}},
		{Type: "laplace", Params: map[string]float64{"mean": 0, "scale": 1}},
		{Type: "students_t", Params: map[string]float64{"mean": 0, "scale": 1, "dof": 3}},
	} {
		t.Run(spec.Type, func(t *testing.T) {
			s, err := NewSampler(spec)
			require.NoError(t, err)
			a := s.Sample(rand.New(rand.NewPCG(9, 9)))
			b := s.Sample(rand.New(rand.NewPCG(9, 9)))
			assert.Equal(t, a, b)
		})
	}
}

func TestNormalSampler_LogProb(t *testing.T) {
	s, err := NewSampler(Normal(0, 1))
	require.NoError(t, err)
	assert.InDelta(t, -0.5*math.Log(2*math.Pi), s.LogProb(0), 1e-12)
	assert.InDelta(t, -0.5*math.Log(2*math.Pi)-2, s.LogProb(2), 1e-12)
}

func TestNewSampler_Rejects(t *testing.T) {
	tests := []struct {
		name string
		spec DistSpec
	}{
		{"unknown type", DistSpec{Type: "cauchy"}},
		{"params without type", DistSpec{Params: map[string]float64{"mean": 0, "std_dev": 1}}},
		{"missing std_dev", DistSpec{Type: "normal", Params: map[string]float64{"mean": 0}}},
		{"zero std_dev", Normal(0, 0)},
		{"nan mean", Normal(math.NaN(), 1)},
		{"inverted uniform", DistSpec{Type: "uniform", Params: map[string]float64{"min": 1, "max": 0}}},
		{"negative laplace scale", DistSpec{Type: "laplace", Params: map[string]float64{"mean": 0, "scale": -1}}},
		{"zero dof", DistSpec{Type: "students_t", Params: map[string]float64{"mean": 0, "scale": 1, "dof": 0}}},
		{"constant without value", DistSpec{Type: "constant"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSampler(tt.spec)
			assert.Error(t, err)
		})
	}
}

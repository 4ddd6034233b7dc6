package filter

import (
	"math"
	"testing"
)

// TestExponentialPreservesConstant checks that constant input passes through
func TestExponentialPreservesConstant(t *testing.T) {
	x := make([]float64, 50)
	for i := range x {
		x[i] = 3.5
	}
	y := make([]float64, len(x))
	NewExponential(8).Apply(x, y)
	for i, v := range y {
		if math.Abs(v-3.5) > 1e-12 {
			t.Fatalf("Expected y[%d]=3.5, got %f", i, v)
		}
	}
}

// TestExponentialSmoothsImpulse checks that an impulse is spread out
// symmetrically and its peak reduced
func TestExponentialSmoothsImpulse(t *testing.T) {
	n := 101
	x := make([]float64, n)
	x[50] = 1
	NewExponential(4).Apply(x, x)

	if x[50] >= 1 || x[50] <= 0 {
		t.Errorf("Expected peak in (0,1), got %f", x[50])
	}
	for k := 1; k < 20; k++ {
		if math.Abs(x[50-k]-x[50+k]) > 1e-9 {
			t.Errorf("Response not symmetric at lag %d: %f vs %f", k, x[50-k], x[50+k])
		}
		if x[50+k] > x[50+k-1] {
			t.Errorf("Response not decreasing at lag %d", k)
		}
	}

	sum := 0.0
	for _, v := range x {
		sum += v
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("Expected unit area, got %f", sum)
	}
}

// TestExponentialIdentity checks that sigma <= 0 copies the input
func TestExponentialIdentity(t *testing.T) {
	x := []float64{1, 5, 2, 8}
	y := make([]float64, 4)
	NewExponential(0).Apply(x, y)
	for i := range x {
		if x[i] != y[i] {
			t.Errorf("Expected y[%d]=%f, got %f", i, x[i], y[i])
		}
	}
}

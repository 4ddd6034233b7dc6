package interpolation

import (
	"math"
	"testing"

	"saltpick/internal/models"
)

// createRampImage creates an image whose value is a*x1 + b*x2
func createRampImage(n1, n2 int, a, b float64) *models.Image {
	img := models.NewImage(n1, n2)
	for i2 := 0; i2 < n2; i2++ {
		for i1 := 0; i1 < n1; i1++ {
			img.Data[i2][i1] = a*float64(i1) + b*float64(i2)
		}
	}
	return img
}

// TestSincExactAtSamples verifies that integer coordinates return the samples
func TestSincExactAtSamples(t *testing.T) {
	img := createRampImage(20, 15, 0.3, -1.2)
	img.Data[7][4] = 42
	si := NewSincInterpolator()

	for _, p := range [][2]int{{0, 0}, {4, 7}, {19, 14}, {10, 3}} {
		got := si.Interpolate(img, float64(p[0]), float64(p[1]))
		want := img.At(p[0], p[1])
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("At (%d,%d): expected %f, got %f", p[0], p[1], want, got)
		}
	}
}

// TestSincConstantImage verifies constant images interpolate exactly,
// including outside the image bounds
func TestSincConstantImage(t *testing.T) {
	img := models.NewImage(10, 10)
	for i2 := range img.Data {
		for i1 := range img.Data[i2] {
			img.Data[i2][i1] = 2.5
		}
	}
	si := NewSincInterpolator()
	for _, p := range []models.Point{{X1: 3.3, X2: 4.7}, {X1: -20, X2: 5}, {X1: 5, X2: 100}, {X1: 0.5, X2: 8.9}} {
		if got := si.Interpolate(img, p.X1, p.X2); math.Abs(got-2.5) > 1e-12 {
			t.Errorf("At %v: expected 2.5, got %f", p, got)
		}
	}
}

// TestSincSmoothSignal checks accuracy on a band-limited signal away from edges
func TestSincSmoothSignal(t *testing.T) {
	n := 64
	img := models.NewImage(n, n)
	f := func(x1, x2 float64) float64 {
		return math.Sin(0.2*x1) + math.Cos(0.15*x2)
	}
	for i2 := 0; i2 < n; i2++ {
		for i1 := 0; i1 < n; i1++ {
			img.Data[i2][i1] = f(float64(i1), float64(i2))
		}
	}
	si := NewSincInterpolator()
	for _, p := range []models.Point{{X1: 20.25, X2: 30.5}, {X1: 31.7, X2: 12.1}, {X1: 40.5, X2: 40.5}} {
		got := si.Interpolate(img, p.X1, p.X2)
		want := f(p.X1, p.X2)
		if math.Abs(got-want) > 0.02 {
			t.Errorf("At %v: expected %f, got %f", p, want, got)
		}
	}
}

// TestSincConstantExtrapolation checks that far-away points take edge values
func TestSincConstantExtrapolation(t *testing.T) {
	img := createRampImage(10, 10, 1, 0)
	si := NewSincInterpolator()

	if got := si.Interpolate(img, -50, 5); math.Abs(got-0) > 1e-9 {
		t.Errorf("Expected left edge value 0, got %f", got)
	}
	if got := si.Interpolate(img, 500, 5); math.Abs(got-9) > 1e-9 {
		t.Errorf("Expected right edge value 9, got %f", got)
	}
	if got := si.Interpolate(img, math.NaN(), 5); got != 0 {
		t.Errorf("Expected 0 for NaN coordinate, got %f", got)
	}
}

// TestSincDoesNotAllocate checks that evaluation works on stack buffers
func TestSincDoesNotAllocate(t *testing.T) {
	img := createRampImage(40, 30, 0.5, 0.25)
	for _, si := range []*SincInterpolator{NewSincInterpolator(), NewSincInterpolatorWidth(MaxSincHalfWidth)} {
		allocs := testing.AllocsPerRun(100, func() {
			si.Interpolate(img, 12.3, 17.8)
		})
		if allocs != 0 {
			t.Errorf("Half width %d: expected no allocations, got %.1f", si.HalfWidth(), allocs)
		}
	}
}

func TestSincWidthLimits(t *testing.T) {
	if got := NewSincInterpolatorWidth(0).HalfWidth(); got != DefaultSincHalfWidth {
		t.Errorf("Expected default half width %d, got %d", DefaultSincHalfWidth, got)
	}
	if got := NewSincInterpolatorWidth(100).HalfWidth(); got != MaxSincHalfWidth {
		t.Errorf("Expected half width capped at %d, got %d", MaxSincHalfWidth, got)
	}

	// A ramp is reproduced by the widest kernel away from the edges
	img := createRampImage(60, 60, 1, 2)
	si := NewSincInterpolatorWidth(MaxSincHalfWidth)
	if got, want := si.Interpolate(img, 30, 30), 90.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected %f, got %f", want, got)
	}
}

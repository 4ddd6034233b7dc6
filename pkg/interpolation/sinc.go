package interpolation

import (
	"math"

	"saltpick/internal/models"
)

// DefaultSincHalfWidth is the number of samples used on each side of the
// interpolation point (a Lanczos-4 kernel, 8 taps per axis).
const DefaultSincHalfWidth = 4

// MaxSincHalfWidth bounds the kernel half width so that the taps of one
// evaluation fit in fixed-size arrays
const MaxSincHalfWidth = 16

// SincInterpolator evaluates an image at continuous coordinates with a
// Lanczos-windowed sinc kernel. Samples outside the image take the value of
// the nearest edge sample (constant extrapolation).
type SincInterpolator struct {
	halfWidth int
}

// NewSincInterpolator creates an interpolator with the default kernel width
func NewSincInterpolator() *SincInterpolator {
	return &SincInterpolator{halfWidth: DefaultSincHalfWidth}
}

// NewSincInterpolatorWidth creates an interpolator with halfWidth taps on
// each side. Values below 1 fall back to the default and values above
// MaxSincHalfWidth are capped.
func NewSincInterpolatorWidth(halfWidth int) *SincInterpolator {
	if halfWidth < 1 {
		halfWidth = DefaultSincHalfWidth
	}
	if halfWidth > MaxSincHalfWidth {
		halfWidth = MaxSincHalfWidth
	}
	return &SincInterpolator{halfWidth: halfWidth}
}

// HalfWidth returns the kernel half width in samples
func (s *SincInterpolator) HalfWidth() int {
	return s.halfWidth
}

// Interpolate returns the image value at (x1, x2), where x1 runs along the
// fast axis. Non-finite coordinates or results yield 0.
func (s *SincInterpolator) Interpolate(img *models.Image, x1, x2 float64) float64 {
	if math.IsNaN(x1) || math.IsNaN(x2) || math.IsInf(x1, 0) || math.IsInf(x2, 0) {
		return 0
	}

	// Clamp into the image so far-away points reuse edge samples
	x1 = clamp(x1, 0, float64(img.N1-1))
	x2 = clamp(x2, 0, float64(img.N2-1))

	n := 2 * s.halfWidth
	var (
		i1s, i2s [2 * MaxSincHalfWidth]int
		w1s, w2s [2 * MaxSincHalfWidth]float64
	)
	s.weights(x1, img.N1, i1s[:n], w1s[:n])
	s.weights(x2, img.N2, i2s[:n], w2s[:n])

	v := 0.0
	for k2 := 0; k2 < n; k2++ {
		if w2s[k2] == 0 {
			continue
		}
		row := img.Data[i2s[k2]]
		acc := 0.0
		for k1 := 0; k1 < n; k1++ {
			acc += w1s[k1] * row[i1s[k1]]
		}
		v += w2s[k2] * acc
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// weights fills idx and w with the clamped sample indices and normalized
// kernel weights along one axis
func (s *SincInterpolator) weights(x float64, size int, idx []int, w []float64) {
	base := int(math.Floor(x)) - s.halfWidth + 1
	a := float64(s.halfWidth)
	sum := 0.0
	for k := range w {
		j := base + k
		w[k] = lanczos(x-float64(j), a)
		sum += w[k]
		if j < 0 {
			j = 0
		} else if j >= size {
			j = size - 1
		}
		idx[k] = j
	}

	// Normalize so that constant images interpolate exactly
	if sum != 0 {
		for k := range w {
			w[k] /= sum
		}
	}
}

// lanczos is the windowed sinc kernel sinc(t)*sinc(t/a) for |t| < a
func lanczos(t, a float64) float64 {
	if t == 0 {
		return 1
	}
	if t <= -a || t >= a {
		return 0
	}
	pt := math.Pi * t
	return a * math.Sin(pt) * math.Sin(pt/a) / (pt * pt)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

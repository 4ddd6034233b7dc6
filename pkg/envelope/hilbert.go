// Package envelope computes instantaneous-amplitude images, the feature
// the boundary refinement tracks.
package envelope

import "math"

// DefaultHalfLength is the number of taps on each side of the Hilbert filter
const DefaultHalfLength = 50

// HilbertFilter is a fixed-length FIR approximation of the Hilbert
// transform. The ideal impulse response 2/(pi*k) for odd k is truncated to
// |k| <= halfLength and tapered with a Hamming window.
type HilbertFilter struct {
	halfLength int
	taps       []float64
}

// NewHilbertFilter creates a filter with the given half length. Values below
// 1 select DefaultHalfLength.
func NewHilbertFilter(halfLength int) *HilbertFilter {
	if halfLength < 1 {
		halfLength = DefaultHalfLength
	}
	taps := make([]float64, 2*halfLength+1)
	for k := -halfLength; k <= halfLength; k++ {
		if k%2 == 0 {
			continue
		}
		window := 0.54 + 0.46*math.Cos(math.Pi*float64(k)/float64(halfLength))
		taps[k+halfLength] = 2 / (math.Pi * float64(k)) * window
	}
	return &HilbertFilter{halfLength: halfLength, taps: taps}
}

// Length returns the total number of taps
func (h *HilbertFilter) Length() int {
	return len(h.taps)
}

// Apply writes the Hilbert transform of x into y. Samples beyond the ends of
// x are treated as zero. x and y must not overlap.
func (h *HilbertFilter) Apply(x, y []float64) {
	n := len(x)
	if len(y) != n {
		panic("envelope: input and output lengths differ")
	}
	l := h.halfLength
	for i := 0; i < n; i++ {
		sum := 0.0
		// Only odd lags contribute
		for k := 1; k <= l; k += 2 {
			w := h.taps[k+l]
			if i-k >= 0 {
				sum += w * x[i-k]
			}
			if i+k < n {
				sum -= w * x[i+k]
			}
		}
		y[i] = sum
	}
}

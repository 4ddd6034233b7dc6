// Package filter provides the recursive smoothing filters shared by the
// boundary model, the cost transform and the gain control.
package filter

import "math"

// Exponential is a two-sided recursive exponential low-pass filter.
// A causal pass followed by an anti-causal pass approximates a Gaussian
// with the requested half-width. Edges use constant extension of the
// output, which gives zero slope at both ends and preserves constants.
type Exponential struct {
	a float64
}

// NewExponential creates a filter whose impulse response has the same
// variance as a Gaussian with standard deviation sigma (in samples).
// A non-positive sigma yields an identity filter.
func NewExponential(sigma float64) *Exponential {
	if sigma <= 0 {
		return &Exponential{a: 0}
	}
	ss := sigma * sigma
	return &Exponential{a: (1 + ss - math.Sqrt(1+2*ss)) / ss}
}

// Apply filters x into y. x and y may be the same slice.
func (f *Exponential) Apply(x, y []float64) {
	n := len(x)
	if len(y) != n {
		panic("filter: input and output lengths differ")
	}
	if n == 0 {
		return
	}
	if f.a == 0 {
		copy(y, x)
		return
	}

	a := f.a
	b := 1 - a

	// Causal pass, seeded with the first sample
	yi := x[0]
	y[0] = yi
	for i := 1; i < n; i++ {
		yi = a*yi + b*x[i]
		y[i] = yi
	}

	// Anti-causal pass, seeded with the last output
	yi = y[n-1]
	for i := n - 2; i >= 0; i-- {
		yi = a*yi + b*y[i]
		y[i] = yi
	}
}

// ApplyRows filters every row of x along its fast axis
func (f *Exponential) ApplyRows(x, y [][]float64) {
	for i := range x {
		f.Apply(x[i], y[i])
	}
}

// Package boundary owns the closed boundary curve: creation from seed
// points, arc-length resampling, smoothing and whole-curve state swaps.
package boundary

import (
	"math"

	"saltpick/internal/models"
)

// Curve is an ordered closed sequence of samples. Sample i has position
// (X1[i], X2[i]) and unit normal (U1[i], U2[i]). The last sample coincides
// with the first.
type Curve struct {
	X1, X2 []float64
	U1, U2 []float64

	// degenerate counts samples whose normal could not be estimated
	degenerate int
}

// newCurve allocates a curve with n samples
func newCurve(n int) *Curve {
	return &Curve{
		X1: make([]float64, n),
		X2: make([]float64, n),
		U1: make([]float64, n),
		U2: make([]float64, n),
	}
}

// Len returns the number of samples, including the closing duplicate
func (c *Curve) Len() int {
	return len(c.X1)
}

// Point returns the position of sample i
func (c *Curve) Point(i int) models.Point {
	return models.Point{X1: c.X1[i], X2: c.X2[i]}
}

// Normal returns the normal of sample i
func (c *Curve) Normal(i int) (float64, float64) {
	return c.U1[i], c.U2[i]
}

// Degenerate returns how many samples carry a zero normal because their
// tangent had zero length
func (c *Curve) Degenerate() int {
	return c.degenerate
}

// Clone returns a deep copy
func (c *Curve) Clone() *Curve {
	n := c.Len()
	d := newCurve(n)
	copy(d.X1, c.X1)
	copy(d.X2, c.X2)
	copy(d.U1, c.U1)
	copy(d.U2, c.U2)
	d.degenerate = c.degenerate
	return d
}

// Closed reports whether the last sample equals the first exactly
func (c *Curve) Closed() bool {
	n := c.Len()
	if n == 0 {
		return false
	}
	return c.X1[n-1] == c.X1[0] && c.X2[n-1] == c.X2[0]
}

// Close forces the last sample (position and normal) to equal the first
func (c *Curve) Close() {
	n := c.Len()
	if n == 0 {
		return
	}
	c.X1[n-1] = c.X1[0]
	c.X2[n-1] = c.X2[0]
	c.U1[n-1] = c.U1[0]
	c.U2[n-1] = c.U2[0]
}

// Length returns the polyline arc length through all samples
func (c *Curve) Length() float64 {
	l := 0.0
	for i := 1; i < c.Len(); i++ {
		l += math.Hypot(c.X1[i]-c.X1[i-1], c.X2[i]-c.X2[i-1])
	}
	return l
}

// signedArea is the shoelace area of the polygon through the samples.
// It is positive when the samples run counter-clockwise in the (x1, x2) plane.
func signedArea(x1, x2 []float64) float64 {
	n := len(x1)
	a := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += x1[i]*x2[j] - x1[j]*x2[i]
	}
	return 0.5 * a
}

// orientOutward flips every normal when they point into the enclosed region
func (c *Curve) orientOutward() {
	// Normals are built as the tangent rotated by (t2, -t1), which is the
	// outward side for counter-clockwise curves.
	if signedArea(c.X1, c.X2) >= 0 {
		return
	}
	for i := range c.U1 {
		c.U1[i] = -c.U1[i]
		c.U2[i] = -c.U2[i]
	}
}

package boundary

import (
	"fmt"
	"math"

	"saltpick/internal/models"
	"saltpick/pkg/interpolation"
)

// Resample re-parameterizes a closed polyline by arc length.
//
// The last sample is forced onto the first, zero-length segments are dropped,
// and each position channel is fitted with a cubic spline against cumulative
// arc length. The curve is then sampled at round(L/d) equal intervals (plus
// the closing sample). Normals are recomputed from central differences;
// samples whose tangent vanishes keep a zero normal and are counted by
// Degenerate.
func Resample(x1, x2 []float64, d float64) (*Curve, error) {
	np := len(x1)
	if np != len(x2) {
		panic("boundary: position channel lengths differ")
	}
	if np < 2 {
		return nil, fmt.Errorf("need at least 2 samples to resample, got %d: %w", np, models.ErrInvalidInput)
	}
	if !(d > 0) {
		return nil, fmt.Errorf("sample spacing must be positive, got %g: %w", d, models.ErrInvalidInput)
	}

	// Work on copies; the caller's arrays are left untouched
	y1 := make([]float64, np)
	y2 := make([]float64, np)
	copy(y1, x1)
	copy(y2, x2)
	y1[np-1] = y1[0]
	y2[np-1] = y2[0]

	// Cumulative arc length over non-degenerate segments
	ds := make([]float64, np)
	k := 0
	for ip := 1; ip < np; ip++ {
		dsi := math.Hypot(y1[ip]-y1[k], y2[ip]-y2[k])
		if dsi > 0 {
			k++
			y1[k] = y1[ip]
			y2[k] = y2[ip]
			ds[k] = ds[k-1] + dsi
		}
	}
	y1, y2, ds = y1[:k+1], y2[:k+1], ds[:k+1]

	l := ds[k]
	if l == 0 {
		return nil, fmt.Errorf("curve has zero length: %w", models.ErrInvalidInput)
	}
	n := int(math.Round(l / d))
	if n < 3 {
		return nil, fmt.Errorf("curve length %g is too short for spacing %g: %w", l, d, models.ErrInvalidInput)
	}

	spline, err := interpolation.FitParametric(ds, y1, y2)
	if err != nil {
		return nil, fmt.Errorf("fitting arc-length spline: %w", err)
	}

	c := newCurve(n + 1)
	step := l / float64(n)
	for i := 0; i < n; i++ {
		c.X1[i], c.X2[i] = spline.At(float64(i) * step)
	}
	c.X1[n] = c.X1[0]
	c.X2[n] = c.X2[0]

	c.degenerate = c.centralNormals(n)
	c.orientOutward()
	c.Close()
	return c, nil
}

// Resample returns the curve re-parameterized at spacing d
func (c *Curve) Resample(d float64) (*Curve, error) {
	return Resample(c.X1, c.X2, d)
}

// centralNormals estimates normals of the first n (distinct) samples from
// the cyclic central-difference tangent, rotated by (t2, -t1)
func (c *Curve) centralNormals(n int) int {
	zero := 0
	for i := 0; i < n; i++ {
		ip := i + 1
		if ip == n {
			ip = 0
		}
		im := i - 1
		if im < 0 {
			im = n - 1
		}
		g1 := c.X1[ip] - c.X1[im]
		g2 := c.X2[ip] - c.X2[im]
		gs := math.Hypot(g1, g2)
		if gs == 0 {
			c.U1[i], c.U2[i] = 0, 0
			zero++
			continue
		}
		c.U1[i] = g2 / gs
		c.U2[i] = -g1 / gs
	}
	return zero
}

package boundary

import (
	"fmt"
	"math"

	"saltpick/internal/models"
	"saltpick/pkg/filter"
)

// DefaultSeedSmoothing is the smoothing half-width applied after a curve is
// built from seed points
const DefaultSeedSmoothing = 8.0

// Initialize builds a closed curve from an ordered list of seed points.
//
// Each segment between consecutive seeds is sampled every d units of arc
// length; every inserted sample gets the perpendicular of its segment as
// normal. The loop is closed by appending the first seed when the last seed
// differs from it. The result is smoothed with half-width sigma (sigma <= 0
// disables smoothing), re-closed, and its normals point outward.
//
// Parameters:
//   - seeds: at least 2 ordered seed points
//   - d: sample spacing, must be positive
//   - sigma: smoothing half-width in samples
//
// Returns:
//   - The new curve, or an error wrapping models.ErrInvalidInput
func Initialize(seeds []models.Point, d, sigma float64) (*Curve, error) {
	if len(seeds) < 2 {
		return nil, fmt.Errorf("need at least 2 seed points, got %d: %w", len(seeds), models.ErrInvalidInput)
	}
	if !(d > 0) {
		return nil, fmt.Errorf("sample spacing must be positive, got %g: %w", d, models.ErrInvalidInput)
	}

	pts := make([]models.Point, len(seeds), len(seeds)+1)
	copy(pts, seeds)
	if pts[len(pts)-1] != pts[0] {
		pts = append(pts, pts[0])
	}

	var x1s, x2s, u1s, u2s []float64
	var u1, u2 float64
	segments := 0
	for ic := 1; ic < len(pts); ic++ {
		x1m, x2m := pts[ic-1].X1, pts[ic-1].X2
		dx1 := pts[ic].X1 - x1m
		dx2 := pts[ic].X2 - x2m
		dxc := math.Hypot(dx1, dx2)
		if dxc == 0 {
			// Repeated seed, nothing to sample
			continue
		}
		segments++
		u1 = dx2 / dxc
		u2 = -dx1 / dxc

		x1s = append(x1s, x1m)
		x2s = append(x2s, x2m)
		u1s = append(u1s, u1)
		u2s = append(u2s, u2)
		for di := d; di < dxc; di += d {
			x1s = append(x1s, x1m+dx1*di/dxc)
			x2s = append(x2s, x2m+dx2*di/dxc)
			u1s = append(u1s, u1)
			u2s = append(u2s, u2)
		}
	}
	if segments == 0 {
		return nil, fmt.Errorf("seed points are all coincident: %w", models.ErrInvalidInput)
	}

	// Closing sample
	x1s = append(x1s, pts[0].X1)
	x2s = append(x2s, pts[0].X2)
	u1s = append(u1s, u1s[0])
	u2s = append(u2s, u2s[0])

	c := &Curve{X1: x1s, X2: x2s, U1: u1s, U2: u2s}
	c.orientOutward()
	if sigma > 0 && c.Len() > 1 {
		c.Smooth(sigma)
	}
	c.Close()
	return c, nil
}

// Smooth low-pass filters the position and normal channels along the curve
// with zero-slope edges, renormalizes the normals and re-closes the loop.
// Normals that vanish under filtering stay zero and are counted as
// degenerate.
func (c *Curve) Smooth(sigma float64) {
	f := filter.NewExponential(sigma)
	f.Apply(c.X1, c.X1)
	f.Apply(c.X2, c.X2)
	f.Apply(c.U1, c.U1)
	f.Apply(c.U2, c.U2)
	c.degenerate = normalize(c.U1, c.U2)
	c.Close()
}

// SmoothPositions filters only the position channels. Normals are left as
// they are; callers resample afterwards to rebuild them.
func (c *Curve) SmoothPositions(sigma float64) {
	if c.Len() == 0 {
		return
	}
	f := filter.NewExponential(sigma)
	f.Apply(c.X1, c.X1)
	f.Apply(c.X2, c.X2)
	c.X1[c.Len()-1] = c.X1[0]
	c.X2[c.Len()-1] = c.X2[0]
}

// normalize scales every (u1, u2) pair to unit length and returns the number
// of zero vectors it had to leave alone
func normalize(u1, u2 []float64) int {
	zero := 0
	for i := range u1 {
		us := math.Hypot(u1[i], u2[i])
		if us == 0 || math.IsNaN(us) || math.IsInf(us, 0) {
			u1[i], u2[i] = 0, 0
			zero++
			continue
		}
		u1[i] /= us
		u2[i] /= us
	}
	return zero
}

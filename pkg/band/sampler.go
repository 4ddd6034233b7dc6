// Package band samples the image in a strip perpendicular to the boundary.
package band

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"saltpick/internal/models"
	"saltpick/pkg/boundary"
	"saltpick/pkg/interpolation"
)

// DefaultSigma is the lateral Gaussian half-width, in image units
const DefaultSigma = 50.0

// Options controls band sampling
type Options struct {
	// Sigma is the half-width of the Gaussian lateral weight. Non-positive
	// values select DefaultSigma.
	Sigma float64

	// Interpolator evaluates the image off the grid. Nil selects a default
	// windowed-sinc interpolator.
	Interpolator *interpolation.SincInterpolator
}

// Sample builds the band image of a curve.
//
// Row i holds samples taken along the normal of curve sample i at lateral
// offsets k*d for k in [-r, r], stored at column k+r and weighted by a
// Gaussian in k*d. The whole array is then normalized to [0, 1] by its
// global minimum and maximum; a constant band becomes all zeros.
//
// Parameters:
//   - r: band half-width in samples (>= 0)
//   - d: lateral spacing in image units (> 0)
//   - c: the curve; it is not modified
//   - img: the image; it is not modified
//
// Returns:
//   - A len(curve) x (2r+1) matrix
func Sample(r int, d float64, c *boundary.Curve, img *models.Image, opts Options) (*mat.Dense, error) {
	if r < 0 {
		return nil, fmt.Errorf("band half-width must be non-negative, got %d: %w", r, models.ErrInvalidInput)
	}
	if !(d > 0) {
		return nil, fmt.Errorf("band spacing must be positive, got %g: %w", d, models.ErrInvalidInput)
	}
	if c == nil || c.Len() == 0 {
		return nil, fmt.Errorf("cannot sample an empty curve: %w", models.ErrInvalidInput)
	}
	if img == nil || img.N1 == 0 || img.N2 == 0 {
		return nil, fmt.Errorf("cannot sample an empty image: %w", models.ErrInvalidInput)
	}

	sig := opts.Sigma
	if sig <= 0 {
		sig = DefaultSigma
	}
	si := opts.Interpolator
	if si == nil {
		si = interpolation.NewSincInterpolator()
	}

	np := c.Len()
	m := 2*r + 1
	fbs := mat.NewDense(np, m, nil)

	// Lateral weights depend only on k
	sigs := sig * sig
	gaus := 1 / math.Sqrt(2*math.Pi*sigs)
	weights := make([]float64, m)
	for k := -r; k <= r; k++ {
		kd := float64(k) * d
		weights[k+r] = math.Exp(-0.5*kd*kd/sigs) * gaus
	}

	for ip := 0; ip < np; ip++ {
		x1, x2 := c.X1[ip], c.X2[ip]
		u1, u2 := c.U1[ip], c.U2[ip]
		row := fbs.RawRowView(ip)
		for k := -r; k <= r; k++ {
			kd := float64(k) * d
			row[k+r] = si.Interpolate(img, x1+u1*kd, x2+u2*kd) * weights[k+r]
		}
	}

	normalize(fbs)
	return fbs, nil
}

// normalize rescales the matrix in place to [0, 1]
func normalize(a *mat.Dense) {
	r, c := a.Dims()
	for i := 0; i < r; i++ {
		sanitize(a.RawRowView(i))
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < r; i++ {
		row := a.RawRowView(i)
		lo = math.Min(lo, floats.Min(row))
		hi = math.Max(hi, floats.Max(row))
	}

	span := hi - lo
	for i := 0; i < r; i++ {
		row := a.RawRowView(i)
		if span == 0 {
			for j := 0; j < c; j++ {
				row[j] = 0
			}
			continue
		}
		// Divide rather than scale by 1/span so the maximum lands on 1 exactly
		for j := range row {
			row[j] = (row[j] - lo) / span
		}
	}
}

// sanitize replaces non-finite values with zero
func sanitize(row []float64) {
	for j, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			row[j] = 0
		}
	}
}

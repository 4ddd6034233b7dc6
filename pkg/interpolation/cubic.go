package interpolation

import (
	"fmt"

	"gonum.org/v1/gonum/interp"

	"saltpick/internal/models"
)

// ParametricCubic fits a planar curve (x1(s), x2(s)) with one natural cubic
// spline per coordinate channel. The parameter s must be strictly increasing,
// typically cumulative arc length.
type ParametricCubic struct {
	c1 interp.NaturalCubic
	c2 interp.NaturalCubic

	// sMax is the last knot
	sMax float64
}

// FitParametric fits the two coordinate channels against s.
//
// Parameters:
//   - s: strictly increasing parameter values (at least 3)
//   - x1, x2: coordinate channels, same length as s
//
// Returns:
//   - The fitted curve, or an error wrapping models.ErrInvalidInput
func FitParametric(s, x1, x2 []float64) (*ParametricCubic, error) {
	if len(s) != len(x1) || len(s) != len(x2) {
		panic("interpolation: parameter and channel lengths differ")
	}
	if len(s) < 3 {
		return nil, fmt.Errorf("cubic fit needs at least 3 knots, got %d: %w", len(s), models.ErrInvalidInput)
	}

	p := &ParametricCubic{sMax: s[len(s)-1]}
	if err := p.c1.Fit(s, x1); err != nil {
		return nil, fmt.Errorf("fitting x1 channel: %v: %w", err, models.ErrInvalidInput)
	}
	if err := p.c2.Fit(s, x2); err != nil {
		return nil, fmt.Errorf("fitting x2 channel: %v: %w", err, models.ErrInvalidInput)
	}
	return p, nil
}

// At evaluates both channels at parameter value s
func (p *ParametricCubic) At(s float64) (float64, float64) {
	return p.c1.Predict(s), p.c2.Predict(s)
}

// Length returns the parameter value of the last knot
func (p *ParametricCubic) Length() float64 {
	return p.sMax
}

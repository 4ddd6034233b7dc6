package picker

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"saltpick/internal/models"
	"saltpick/pkg/boundary"
	"saltpick/pkg/pathsearch"
)

// Report summarizes one refinement
type Report struct {
	// Samples is the number of distinct curve samples (closing duplicate excluded)
	Samples int

	// MeanShift and MaxShift are the absolute normal displacements, in image units
	MeanShift float64
	MaxShift  float64

	// MaxDeviation is the largest distance from a refined sample to the
	// nearest sample of the curve it was refined from
	MaxDeviation float64

	// Degenerate counts samples whose normal was zero, so they could not move
	Degenerate int

	// Length is the arc length of the refined curve
	Length float64

	// Offsets is the picked band column of every sample
	Offsets pathsearch.Offsets
}

// Err returns an error wrapping models.ErrDegenerateGeometry when some
// samples could not move, and nil otherwise
func (r Report) Err() error {
	if r.Degenerate == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d samples have a zero normal: %w", r.Degenerate, r.Samples, models.ErrDegenerateGeometry)
}

// newReport compares the moved curve with the curve it was refined from
func newReport(offsets pathsearch.Offsets, r int, d float64, before, moved *boundary.Curve) Report {
	n := len(offsets) - 1
	if n < 1 {
		return Report{Degenerate: moved.Degenerate(), Length: moved.Length(), Offsets: offsets}
	}
	shifts := make([]float64, n)
	for i := 0; i < n; i++ {
		shifts[i] = math.Abs(float64(offsets[i]-r) * d)
	}
	return Report{
		Samples:      n,
		MeanShift:    stat.Mean(shifts, nil),
		MaxShift:     floats.Max(shifts),
		MaxDeviation: maxDeviation(before, moved),
		Degenerate:   moved.Degenerate(),
		Length:       moved.Length(),
		Offsets:      offsets,
	}
}

// maxDeviation is the directed Hausdorff distance from moved to before,
// measured between samples
func maxDeviation(before, moved *boundary.Curve) float64 {
	loc := boundary.NewLocator(before)
	if loc == nil {
		return 0
	}
	worst := 0.0
	for i := 0; i < moved.Len(); i++ {
		if _, dist := loc.Nearest(moved.Point(i)); dist > worst {
			worst = dist
		}
	}
	return worst
}

package boundary

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"saltpick/internal/models"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// circleSeeds returns n points on a circle, counter-clockwise in (x1, x2)
func circleSeeds(c1, c2, radius float64, n int) []models.Point {
	pts := make([]models.Point, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = models.Point{X1: c1 + radius*math.Cos(theta), X2: c2 + radius*math.Sin(theta)}
	}
	return pts
}

// checkClosedUnit fails the test unless c is closed with unit normals
func checkClosedUnit(t *testing.T, c *Curve) {
	t.Helper()
	if !c.Closed() {
		n := c.Len()
		t.Errorf("Curve not closed: first (%f,%f), last (%f,%f)", c.X1[0], c.X2[0], c.X1[n-1], c.X2[n-1])
	}
	for i := 0; i < c.Len(); i++ {
		if m := math.Hypot(c.U1[i], c.U2[i]); math.Abs(m-1) > 1e-5 {
			t.Errorf("Normal %d has magnitude %f", i, m)
		}
	}
}

package boundary

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"saltpick/internal/models"
)

// samplePoint is a curve sample stored in the KD-tree together with its index
type samplePoint struct {
	x1, x2 float64
	index  int
}

// Compare implements the kdtree.Comparable interface
func (p samplePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(samplePoint)
	switch d {
	case 0:
		return p.x1 - q.x1
	case 1:
		return p.x2 - q.x2
	default:
		panic("illegal dimension")
	}
}

// Dims returns the number of dimensions for the KD-tree
func (p samplePoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance between two points
func (p samplePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(samplePoint)
	d1 := p.x1 - q.x1
	d2 := p.x2 - q.x2
	return d1*d1 + d2*d2
}

// samplePoints satisfies kdtree.Interface
type samplePoints []samplePoint

func (p samplePoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p samplePoints) Len() int                              { return len(p) }
func (p samplePoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

func (p samplePoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(samplePlane{samplePoints: p, Dim: d}, kdtree.MedianOfRandoms(samplePlane{samplePoints: p, Dim: d}, 100))
}

// samplePlane implements kdtree.SortSlicer for samplePoints
type samplePlane struct {
	samplePoints
	kdtree.Dim
}

func (p samplePlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.samplePoints[i].x1 < p.samplePoints[j].x1
	case 1:
		return p.samplePoints[i].x2 < p.samplePoints[j].x2
	default:
		panic("illegal dimension")
	}
}

func (p samplePlane) Slice(start, end int) kdtree.SortSlicer {
	return samplePlane{samplePoints: p.samplePoints[start:end], Dim: p.Dim}
}

func (p samplePlane) Swap(i, j int) {
	p.samplePoints[i], p.samplePoints[j] = p.samplePoints[j], p.samplePoints[i]
}

// Locator answers nearest-sample queries against a fixed curve
type Locator struct {
	tree *kdtree.Tree
}

// NewLocator indexes the distinct samples of c (the closing duplicate is
// skipped). It returns nil for an empty curve.
func NewLocator(c *Curve) *Locator {
	n := c.Len()
	if n > 1 && c.Closed() {
		n--
	}
	if n == 0 {
		return nil
	}
	pts := make(samplePoints, n)
	for i := 0; i < n; i++ {
		pts[i] = samplePoint{x1: c.X1[i], x2: c.X2[i], index: i}
	}
	return &Locator{tree: kdtree.New(pts, false)}
}

// Nearest returns the index of the sample closest to p and its distance
func (l *Locator) Nearest(p models.Point) (int, float64) {
	got, d2 := l.tree.Nearest(samplePoint{x1: p.X1, x2: p.X2})
	return got.(samplePoint).index, math.Sqrt(d2)
}

// Nearest is a convenience wrapper that builds a Locator for a single query
func (c *Curve) Nearest(p models.Point) (int, float64) {
	l := NewLocator(c)
	if l == nil {
		return -1, math.Inf(1)
	}
	return l.Nearest(p)
}

// Package seeds keeps the ordered list of user-picked seed points.
// Every edit produces a new list; readers only ever see snapshots.
package seeds

import (
	"sync"

	"saltpick/internal/models"
)

// Editor collects seed points inside an n1 x n2 image
type Editor struct {
	mu     sync.Mutex
	n1, n2 int
	points []models.SeedPoint

	// last is the most recently painted pixel; repeated picks are ignored
	last models.SeedPoint
}

// NewEditor creates an empty editor for an image of n1 x n2 samples
func NewEditor(n1, n2 int) *Editor {
	return &Editor{n1: n1, n2: n2, last: models.SeedPoint{I1: -1, I2: -1}}
}

// Add appends a seed. It reports false, leaving the list as it was, when the
// pixel lies outside the image or repeats the previous pick.
func (e *Editor) Add(i1, i2 int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.inside(i1, i2) || e.isLast(i1, i2) {
		return false
	}
	e.last = models.SeedPoint{I1: i1, I2: i2}

	next := make([]models.SeedPoint, len(e.points), len(e.points)+1)
	copy(next, e.points)
	e.points = append(next, e.last)
	return true
}

// AddAll adds the points in order with the same rules as Add and returns how
// many were accepted
func (e *Editor) AddAll(points []models.SeedPoint) int {
	added := 0
	for _, p := range points {
		if e.Add(p.I1, p.I2) {
			added++
		}
	}
	return added
}

// EraseNear removes every seed in the 3x3 neighbourhood of (i1, i2).
// Erasing is only possible away from the image border. It returns the
// number of seeds removed.
func (e *Editor) EraseNear(i1, i2 int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i1 <= 0 || i1 >= e.n1-1 || i2 <= 0 || i2 >= e.n2-1 {
		return 0
	}
	e.last = models.SeedPoint{I1: i1, I2: i2}

	next := make([]models.SeedPoint, 0, len(e.points))
	for _, p := range e.points {
		if abs(p.I1-i1) <= 1 && abs(p.I2-i2) <= 1 {
			continue
		}
		next = append(next, p)
	}
	removed := len(e.points) - len(next)
	e.points = next
	return removed
}

// EndStroke forgets the previous pick so the same pixel can be added again
func (e *Editor) EndStroke() {
	e.mu.Lock()
	e.last = models.SeedPoint{I1: -1, I2: -1}
	e.mu.Unlock()
}

// Clear removes all seeds
func (e *Editor) Clear() {
	e.mu.Lock()
	e.points = nil
	e.last = models.SeedPoint{I1: -1, I2: -1}
	e.mu.Unlock()
}

// Len returns the number of seeds
func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.points)
}

// Snapshot returns a copy of the current seed list
func (e *Editor) Snapshot() []models.SeedPoint {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.SeedPoint, len(e.points))
	copy(out, e.points)
	return out
}

// Points returns the current seeds in continuous coordinates
func (e *Editor) Points() []models.Point {
	snap := e.Snapshot()
	pts := make([]models.Point, len(snap))
	for i, s := range snap {
		pts[i] = s.Point()
	}
	return pts
}

func (e *Editor) inside(i1, i2 int) bool {
	return 0 <= i1 && i1 < e.n1 && 0 <= i2 && i2 < e.n2
}

func (e *Editor) isLast(i1, i2 int) bool {
	return e.last.I1 == i1 && e.last.I2 == i2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

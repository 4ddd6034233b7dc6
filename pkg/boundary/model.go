package boundary

import (
	"fmt"
	"sync"

	"saltpick/internal/models"
)

// Model owns the current boundary. Callers never mutate its curve in place:
// every change swaps in a whole new curve, and readers get copies.
type Model struct {
	mu    sync.RWMutex
	curve *Curve
}

// NewModel creates a model with no boundary
func NewModel() *Model {
	return &Model{}
}

// Initialize replaces the boundary with a curve built from seed points
func (m *Model) Initialize(seeds []models.Point, d, sigma float64) error {
	c, err := Initialize(seeds, d, sigma)
	if err != nil {
		return err
	}
	m.swap(c)
	return nil
}

// Replace installs a copy of c as the current boundary. The curve must be
// non-empty and closed.
func (m *Model) Replace(c *Curve) error {
	if c == nil || c.Len() < 2 {
		return fmt.Errorf("cannot install an empty curve: %w", models.ErrInvalidInput)
	}
	if !c.Closed() {
		return fmt.Errorf("curve is not closed: %w", models.ErrInvalidInput)
	}
	m.swap(c.Clone())
	return nil
}

// Clear discards the boundary
func (m *Model) Clear() {
	m.swap(nil)
}

// Empty reports whether there is no boundary
func (m *Model) Empty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.curve == nil
}

// Snapshot returns a copy of the current curve, or nil when there is none
func (m *Model) Snapshot() *Curve {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.curve == nil {
		return nil
	}
	return m.curve.Clone()
}

// Query returns copies of the two position channels for rendering. When there
// is no boundary it returns the display sentinel {(-1,-1), (-1,-2)}, which
// must never be fed back into refinement.
func (m *Model) Query() ([]float64, []float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.curve == nil {
		return []float64{-1, -1}, []float64{-1, -2}
	}
	x1 := make([]float64, m.curve.Len())
	x2 := make([]float64, m.curve.Len())
	copy(x1, m.curve.X1)
	copy(x2, m.curve.X2)
	return x1, x2
}

func (m *Model) swap(c *Curve) {
	m.mu.Lock()
	m.curve = c
	m.mu.Unlock()
}

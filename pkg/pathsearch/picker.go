// Package pathsearch finds a smooth closed path through a band image with a
// two-pass dynamic program.
//
// Row i of the band corresponds to curve sample i and column o to a lateral
// offset. The forward pass accumulates
//
//	T[i][o] = cost[i][o] + min_{|o-o'|<=w} (T[i-1][o'] + a*(o-o')^2)
//
// and picks the terminal offset on the last row. Because the curve is a
// closed loop, a backward pass then re-accumulates from that terminal offset
// towards row 0, where the first offset is chosen within w of the terminal
// offset. Following the backward pointers gives offsets that respect the
// step limit all the way around the loop.
package pathsearch

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"saltpick/internal/models"
	"saltpick/pkg/filter"
)

const (
	// DefaultGain scales band values before the exponential cost remap
	DefaultGain = 4.0

	// DefaultCoherenceSigma smooths the band along the curve before the remap
	DefaultCoherenceSigma = 1.0
)

// Offsets holds one column index per curve sample
type Offsets []int

// Options tunes the cost transform
type Options struct {
	// Gain controls how sharply bright cells are favoured: cost = exp(-Gain*b).
	// Non-positive values select DefaultGain.
	Gain float64

	// CoherenceSigma is the half-width, in samples, of the smoothing applied
	// along the curve before the remap. Zero disables it; negative values
	// select DefaultCoherenceSigma.
	CoherenceSigma float64
}

// Picker runs the cyclic optimal-path search
type Picker struct {
	gate      int
	bend      float64
	gain      float64
	coherence float64
}

// NewPicker creates a path picker with maximum lateral step w and bending
// penalty weight a
func NewPicker(w int, a float64, opts Options) (*Picker, error) {
	if w < 0 {
		return nil, fmt.Errorf("maximum step must be non-negative, got %d: %w", w, models.ErrInvalidInput)
	}
	if a < 0 || math.IsNaN(a) {
		return nil, fmt.Errorf("bending penalty must be non-negative, got %g: %w", a, models.ErrInvalidInput)
	}
	gain := opts.Gain
	if gain <= 0 {
		gain = DefaultGain
	}
	coherence := opts.CoherenceSigma
	if coherence < 0 {
		coherence = DefaultCoherenceSigma
	}
	return &Picker{gate: w, bend: a, gain: gain, coherence: coherence}, nil
}

// Transform converts a band image into a traversal cost of the same shape.
// Bright, along-curve coherent cells get low cost.
func (p *Picker) Transform(band *mat.Dense) *mat.Dense {
	n, m := band.Dims()
	cost := mat.DenseCopyOf(band)

	if p.coherence > 0 && n > 1 {
		f := filter.NewExponential(p.coherence)
		col := make([]float64, n)
		for o := 0; o < m; o++ {
			mat.Col(col, o, cost)
			f.Apply(col, col)
			cost.SetCol(o, col)
		}
	}

	cost.Apply(func(_, _ int, v float64) float64 {
		return math.Exp(-p.gain * v)
	}, cost)
	return cost
}

// Search runs the forward and backward passes over a cost array. Costs must
// be finite.
func (p *Picker) Search(cost *mat.Dense) (Offsets, error) {
	if err := checkShape(cost); err != nil {
		return nil, err
	}
	if p.gate == 0 {
		return p.rowArgmin(cost), nil
	}
	forward, _ := p.ForwardPick(cost)
	backward, _ := p.BackwardPick(forward[len(forward)-1], cost)
	return backward, nil
}

// ForwardPick runs the forward pass seeded directly from row 0 of the cost.
// It returns the path recovered from the backpointers and the accumulated
// cost array; the last offset is the terminal choice argmin T[N-1].
func (p *Picker) ForwardPick(cost *mat.Dense) (Offsets, *mat.Dense) {
	n, m := cost.Dims()
	centre := m / 2
	acc := mat.NewDense(n, m, nil)
	from := make([][]int, n)

	acc.SetRow(0, cost.RawRowView(0))
	for i := 1; i < n; i++ {
		from[i] = make([]int, m)
		prev := acc.RawRowView(i - 1)
		crow := cost.RawRowView(i)
		arow := acc.RawRowView(i)
		for o := 0; o < m; o++ {
			v, src := p.bestNeighbour(prev, o, centre)
			if src < 0 {
				// Nothing finite reachable: stay in the same column
				v, src = math.Inf(1), o
			}
			arow[o] = crow[o] + v
			from[i][o] = src
		}
	}

	path := make(Offsets, n)
	path[n-1] = argmin(acc.RawRowView(n-1), centre)
	for i := n - 1; i > 0; i-- {
		path[i-1] = from[i][path[i]]
	}
	return path, acc
}

// BackwardPick re-accumulates cost from the terminal offset on the last row
// back to row 0. Row 0 is chosen within the step limit of the terminal
// offset, with the same bending penalty as any other transition, and the
// offsets are then read off the forward pointers.
func (p *Picker) BackwardPick(terminal int, cost *mat.Dense) (Offsets, *mat.Dense) {
	n, m := cost.Dims()
	centre := m / 2
	inf := math.Inf(1)
	acc := mat.NewDense(n, m, nil)
	next := make([][]int, n)

	last := acc.RawRowView(n - 1)
	for o := range last {
		last[o] = inf
	}
	last[terminal] = cost.At(n-1, terminal)

	for i := n - 2; i >= 0; i-- {
		next[i] = make([]int, m)
		succ := acc.RawRowView(i + 1)
		crow := cost.RawRowView(i)
		arow := acc.RawRowView(i)
		for o := 0; o < m; o++ {
			v, dst := p.bestNeighbour(succ, o, centre)
			if dst < 0 {
				v, dst = math.Inf(1), o
			}
			arow[o] = crow[o] + v
			next[i][o] = dst
		}
	}

	// Close the loop: row 0 follows the terminal offset of row N-1
	first := acc.RawRowView(0)
	_, start := p.bestNeighbour(first, terminal, centre)
	if start < 0 {
		start = terminal
	}

	path := make(Offsets, n)
	path[0] = start
	for i := 0; i < n-1; i++ {
		path[i+1] = next[i][path[i]]
	}
	return path, acc
}

// bestNeighbour returns min_{|o-o'|<=w} (row[o'] + a*(o-o')^2) and the
// minimizing o'. Ties go to the smallest step, then to the offset nearest
// the band centre.
func (p *Picker) bestNeighbour(row []float64, o, centre int) (float64, int) {
	m := len(row)
	best, bestIdx := math.Inf(1), -1
	for dd := 0; dd <= p.gate; dd++ {
		// Visit the candidate nearer the centre first so that equal values
		// at equal step keep it
		lo, hi := o-dd, o+dd
		if abs(hi-centre) < abs(lo-centre) {
			lo, hi = hi, lo
		}
		for _, q := range [2]int{lo, hi} {
			if q < 0 || q >= m || math.IsInf(row[q], 1) {
				continue
			}
			v := row[q] + p.bend*float64(dd*dd)
			if v < best {
				best, bestIdx = v, q
			}
			if dd == 0 {
				break
			}
		}
	}
	return best, bestIdx
}

// rowArgmin picks the cheapest column of every row independently
func (p *Picker) rowArgmin(cost *mat.Dense) Offsets {
	n, m := cost.Dims()
	path := make(Offsets, n)
	for i := 0; i < n; i++ {
		path[i] = argmin(cost.RawRowView(i), m/2)
	}
	return path
}

// argmin returns the index of the smallest value, preferring the index
// nearest centre on ties
func argmin(row []float64, centre int) int {
	best := -1
	for j, v := range row {
		if best < 0 || v < row[best] || (v == row[best] && abs(j-centre) < abs(best-centre)) {
			best = j
		}
	}
	return best
}

func checkShape(cost *mat.Dense) error {
	if cost == nil {
		return fmt.Errorf("nil cost array: %w", models.ErrInvalidInput)
	}
	n, m := cost.Dims()
	if n < 2 || m < 1 {
		return fmt.Errorf("cost array must have at least 2 rows and 1 column, got %dx%d: %w", n, m, models.ErrInvalidInput)
	}
	for i := 0; i < n; i++ {
		for o, v := range cost.RawRowView(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("non-finite cost %g at (%d,%d): %w", v, i, o, models.ErrInvalidInput)
			}
		}
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package pathsearch

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"

	"saltpick/internal/models"
)

func mustPicker(t *testing.T, w int, a float64) *Picker {
	t.Helper()
	p, err := NewPicker(w, a, Options{})
	if err != nil {
		t.Fatalf("NewPicker failed: %v", err)
	}
	return p
}

func randomCost(rng *rand.Rand, n, m int) *mat.Dense {
	data := make([]float64, n*m)
	for i := range data {
		data[i] = rng.Float64()
	}
	return mat.NewDense(n, m, data)
}

// TestSearchZeroStepIsRowArgmin checks that w=0 picks every row independently
func TestSearchZeroStepIsRowArgmin(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cost := randomCost(rng, 40, 11)
	p := mustPicker(t, 0, 3)

	got, err := p.Search(cost)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	want := make(Offsets, 40)
	for i := range want {
		row := cost.RawRowView(i)
		best := 0
		for j := range row {
			if row[j] < row[best] {
				best = j
			}
		}
		want[i] = best
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

// TestSearchBoundedStep checks the cyclic step limit on random costs
func TestSearchBoundedStep(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, tc := range []struct {
		n, m, w int
		a       float64
	}{
		{50, 21, 1, 0},
		{50, 21, 2, 1},
		{80, 31, 3, 0.5},
		{2, 5, 1, 1},
		{30, 3, 5, 2},
	} {
		cost := randomCost(rng, tc.n, tc.m)
		p := mustPicker(t, tc.w, tc.a)
		path, err := p.Search(cost)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(path) != tc.n {
			t.Fatalf("Expected %d offsets, got %d", tc.n, len(path))
		}
		for i := 0; i < tc.n; i++ {
			if path[i] < 0 || path[i] >= tc.m {
				t.Fatalf("Offset %d out of range: %d", i, path[i])
			}
			prev := path[(i-1+tc.n)%tc.n]
			if d := path[i] - prev; d > tc.w || d < -tc.w {
				t.Errorf("n=%d w=%d: step %d -> %d exceeds limit at row %d", tc.n, tc.w, prev, path[i], i)
			}
		}
	}
}

// TestSearchFlatCostStaysCentred checks that ties keep the neutral offset
func TestSearchFlatCostStaysCentred(t *testing.T) {
	cost := mat.NewDense(25, 9, nil)
	cost.Apply(func(_, _ int, _ float64) float64 { return 1 }, cost)
	for _, w := range []int{0, 1, 3} {
		path, err := mustPicker(t, w, 1).Search(cost)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		for i, o := range path {
			if o != 4 {
				t.Fatalf("w=%d: expected centre offset 4 at row %d, got %d", w, i, o)
			}
		}
	}
}

// TestSearchFollowsRamp checks that a cheap diagonal valley is tracked and
// that an isolated outlier does not pull the path off it
func TestSearchFollowsRamp(t *testing.T) {
	n, m := 40, 31
	cost := mat.NewDense(n, m, nil)
	valley := func(i int) int {
		// up and back down so the loop closes
		if i < n/2 {
			return 5 + i/2
		}
		return 5 + (n-i)/2
	}
	for i := 0; i < n; i++ {
		for o := 0; o < m; o++ {
			cost.Set(i, o, 1)
		}
		cost.Set(i, valley(i), 0)
	}
	// A single cheap cell far from the valley
	cost.Set(10, 28, -0.5)

	path, err := mustPicker(t, 2, 0.1).Search(cost)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for i := 0; i < n; i++ {
		if path[i] != valley(i) {
			t.Errorf("Row %d: expected valley offset %d, got %d", i, valley(i), path[i])
		}
	}
}

// TestForwardBackwardConsistency checks that the backward pass honours the
// terminal offset found by the forward pass
func TestForwardBackwardConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	cost := randomCost(rng, 60, 15)
	p := mustPicker(t, 2, 0.5)

	forward, acc := p.ForwardPick(cost)
	terminal := forward[len(forward)-1]
	last := acc.RawRowView(59)
	for o, v := range last {
		if v < last[terminal] {
			t.Errorf("Terminal %d is not the cheapest: offset %d has %f < %f", terminal, o, v, last[terminal])
		}
	}
	for i := 1; i < len(forward); i++ {
		if d := forward[i] - forward[i-1]; d > 2 || d < -2 {
			t.Errorf("Forward step too large at row %d", i)
		}
	}

	backward, bacc := p.BackwardPick(terminal, cost)
	if backward[len(backward)-1] != terminal {
		t.Errorf("Backward path ends at %d, expected terminal %d", backward[len(backward)-1], terminal)
	}
	if !math.IsInf(bacc.At(59, (terminal+1)%15), 1) {
		t.Errorf("Expected non-terminal cells of the last row to be unreachable")
	}
}

// TestTransformMonotone checks that brighter band cells cost less
func TestTransformMonotone(t *testing.T) {
	band := mat.NewDense(1, 5, []float64{0, 0.25, 0.5, 0.75, 1})
	p, err := NewPicker(1, 1, Options{Gain: 2, CoherenceSigma: 0})
	if err != nil {
		t.Fatalf("NewPicker failed: %v", err)
	}
	cost := p.Transform(band)
	for j := 0; j < 5; j++ {
		want := math.Exp(-2 * band.At(0, j))
		if math.Abs(cost.At(0, j)-want) > 1e-12 {
			t.Errorf("Column %d: expected %f, got %f", j, want, cost.At(0, j))
		}
	}
	if band.At(0, 4) != 1 {
		t.Errorf("Transform modified its input")
	}
}

func TestInvalidInputs(t *testing.T) {
	if _, err := NewPicker(-1, 1, Options{}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for negative w, got %v", err)
	}
	if _, err := NewPicker(1, -1, Options{}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for negative a, got %v", err)
	}
	p := mustPicker(t, 1, 1)
	if _, err := p.Search(mat.NewDense(1, 5, nil)); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for a single row, got %v", err)
	}
	if _, err := p.Search(nil); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil cost, got %v", err)
	}
}

// TestNonFiniteCost checks that NaN costs are rejected by Search and never
// produce out-of-range offsets in the individual passes
func TestNonFiniteCost(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	cost := randomCost(rng, 30, 7)
	for o := 0; o < 7; o++ {
		cost.Set(12, o, math.NaN())
	}
	p := mustPicker(t, 2, 1)

	if _, err := p.Search(cost); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for a NaN row, got %v", err)
	}
	inf := randomCost(rng, 30, 7)
	inf.Set(4, 3, math.Inf(1))
	if _, err := p.Search(inf); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for an infinite cost, got %v", err)
	}

	forward, _ := p.ForwardPick(cost)
	backward, _ := p.BackwardPick(forward[len(forward)-1], cost)
	for name, path := range map[string]Offsets{"forward": forward, "backward": backward} {
		if len(path) != 30 {
			t.Fatalf("%s: expected 30 offsets, got %d", name, len(path))
		}
		for i, o := range path {
			if o < 0 || o >= 7 {
				t.Errorf("%s: offset %d out of range at row %d", name, o, i)
			}
		}
	}
}
